// Package directory serves the public doctor catalog: profile listings
// enriched with derived rating statistics.
package directory

import (
	doctorRepo "clinicbook/database/repository/doctor"
	reviewRepo "clinicbook/database/repository/review"
	userRepo "clinicbook/database/repository/user"
	"clinicbook/models"
	"clinicbook/services/review"
)

// Service builds public doctor profiles.
type Service struct {
	Doctors doctorRepo.DoctorRepository
	Users   userRepo.UserRepository
	Reviews reviewRepo.ReviewRepository
}

// NewService builds a directory Service.
func NewService(
	doctors doctorRepo.DoctorRepository,
	users userRepo.UserRepository,
	reviews reviewRepo.ReviewRepository,
) *Service {
	return &Service{Doctors: doctors, Users: users, Reviews: reviews}
}

// List returns doctor profiles, optionally filtered by specialization.
func (s *Service) List(specialization string) ([]models.DoctorProfile, error) {
	var (
		doctors []models.Doctor
		err     error
	)
	if specialization != "" {
		if !models.IsValidSpecialization(specialization) {
			return nil, models.NewValidationError("unknown specialization %q", specialization)
		}
		doctors, err = s.Doctors.GetBySpecialization(specialization)
	} else {
		doctors, err = s.Doctors.GetAll()
	}
	if err != nil {
		return nil, err
	}

	profiles := make([]models.DoctorProfile, 0, len(doctors))
	for i := range doctors {
		profile, err := s.buildProfile(&doctors[i])
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *profile)
	}
	return profiles, nil
}

// Get returns one doctor's public profile.
func (s *Service) Get(doctorID string) (*models.DoctorProfile, error) {
	doctor, err := s.Doctors.GetByID(doctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, models.NewNotFoundError("doctor not found")
	}
	return s.buildProfile(doctor)
}

func (s *Service) buildProfile(doctor *models.Doctor) (*models.DoctorProfile, error) {
	reviews, err := s.Reviews.ListApprovedByDoctor(doctor.ID)
	if err != nil {
		return nil, err
	}
	name := ""
	if owner, err := s.Users.GetByID(doctor.UserID); err != nil {
		return nil, err
	} else if owner != nil {
		name = owner.FullName()
	}
	return &models.DoctorProfile{
		Doctor:        *doctor,
		Name:          name,
		AverageRating: review.AverageRating(reviews),
		TotalReviews:  len(reviews),
	}, nil
}
