package windowRepo

import "clinicbook/models"

// WindowRepository defines methods for availability window data access.
type WindowRepository interface {
	// GetByID retrieves a window by its unique ID.
	GetByID(id string) (*models.AvailabilityWindow, error)
	// ListByDoctor retrieves every window of a doctor, ordered by day and
	// start time.
	ListByDoctor(doctorID string) ([]models.AvailabilityWindow, error)
	// ListAvailable retrieves a doctor's available windows for a day of
	// week, ordered by start time.
	ListAvailable(doctorID string, dayOfWeek int) ([]models.AvailabilityWindow, error)
	// Create inserts a new window.
	Create(window *models.AvailabilityWindow) error
	// Update modifies an existing window.
	Update(window *models.AvailabilityWindow) error
	// Delete removes a window by its ID.
	Delete(id string) error
	// DeleteByDoctor removes every window owned by a doctor.
	DeleteByDoctor(doctorID string) error
}
