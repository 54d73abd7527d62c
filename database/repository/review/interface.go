package reviewRepo

import (
	"context"
	"errors"

	"clinicbook/models"
)

// Sentinel errors returned by the gated create path.
var (
	// ErrNotEligible means the patient has no completed appointment with
	// the doctor.
	ErrNotEligible = errors.New("patient has no completed appointment with this doctor")
	// ErrDuplicateReview means a review already exists for the same
	// (patient, doctor, appointment) context.
	ErrDuplicateReview = errors.New("review already submitted for this appointment")
)

// ReviewRepository defines methods for review data access.
type ReviewRepository interface {
	// GetByID retrieves a review by its unique ID.
	GetByID(id string) (*models.Review, error)
	// CreateGated inserts a review inside a transaction that verifies the
	// completed-appointment gate. Returns ErrNotEligible or
	// ErrDuplicateReview on guard failure.
	CreateGated(ctx context.Context, review *models.Review) error
	// Approve sets the approval flag on a review.
	Approve(id string) (*models.Review, error)
	// ListApprovedByDoctor retrieves a doctor's approved reviews, newest
	// first.
	ListApprovedByDoctor(doctorID string) ([]models.Review, error)
	// ListAll retrieves every review, newest first.
	ListAll() ([]models.Review, error)
	// Delete removes a review by its ID.
	Delete(id string) error
}
