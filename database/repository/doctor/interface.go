package doctorRepo

import "clinicbook/models"

// DoctorRepository defines methods for doctor profile data access.
type DoctorRepository interface {
	// GetByID retrieves a doctor profile by its unique ID.
	GetByID(id string) (*models.Doctor, error)
	// GetByUserID retrieves the doctor profile owned by the given user.
	GetByUserID(userID string) (*models.Doctor, error)
	// GetAll retrieves all doctor profiles.
	GetAll() ([]models.Doctor, error)
	// GetBySpecialization retrieves doctors with the given specialization.
	GetBySpecialization(spec string) ([]models.Doctor, error)
	// Create inserts a new doctor profile.
	Create(doctor *models.Doctor) error
	// Update modifies an existing doctor profile.
	Update(doctor *models.Doctor) error
	// Delete removes a doctor profile by its ID.
	Delete(id string) error
}
