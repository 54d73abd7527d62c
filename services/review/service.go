// Package review handles patient reviews of doctors: gated submission,
// staff moderation and the derived rating aggregates.
package review

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	doctorRepo "clinicbook/database/repository/doctor"
	reviewRepo "clinicbook/database/repository/review"
	"clinicbook/models"
	"clinicbook/services/policy"
	"clinicbook/utils"
)

// Service manages review submission, moderation and rating summaries.
type Service struct {
	Reviews reviewRepo.ReviewRepository
	Doctors doctorRepo.DoctorRepository
	// Cache holds computed rating summaries; moderation invalidates the
	// doctor's entry. May be nil when redis is absent.
	Cache *redis.Client
}

// NewService builds a review Service.
func NewService(reviews reviewRepo.ReviewRepository, doctors doctorRepo.DoctorRepository, cache *redis.Client) *Service {
	return &Service{Reviews: reviews, Doctors: doctors, Cache: cache}
}

// Submit records a patient's review of a doctor. The gated insert verifies
// the patient actually completed an appointment with the doctor and that
// no earlier review exists for the same context. New reviews await staff
// approval before they count toward the doctor's rating.
func (s *Service) Submit(ctx context.Context, p *models.Principal, req *models.ReviewRequest) (*models.Review, error) {
	if err := policy.AllowReview(p, policy.ActionReview); err != nil {
		return nil, err
	}
	// The uniqueness index keys on (patient, doctor, appointment), so an
	// empty appointment would make unrelated reviews collide.
	if req.AppointmentID == "" {
		return nil, models.NewValidationError("appointment_id is required")
	}
	doctor, err := s.Doctors.GetByID(req.DoctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, models.NewNotFoundError("doctor not found")
	}

	review := &models.Review{
		ID:            uuid.New().String(),
		PatientID:     p.UserID,
		DoctorID:      req.DoctorID,
		AppointmentID: req.AppointmentID,
		Rating:        req.Rating,
		Comment:       req.Comment,
		Approved:      false,
		CreatedAt:     time.Now(),
	}
	if err := s.Reviews.CreateGated(ctx, review); err != nil {
		switch {
		case errors.Is(err, reviewRepo.ErrNotEligible):
			return nil, models.NewValidationError("you can only review doctors after a completed appointment")
		case errors.Is(err, reviewRepo.ErrDuplicateReview):
			return nil, models.NewValidationError("you have already reviewed this appointment")
		}
		return nil, err
	}
	return review, nil
}

// Approve publishes a review. Staff only.
func (s *Service) Approve(p *models.Principal, reviewID string) (*models.Review, error) {
	if err := policy.AllowReview(p, policy.ActionModerate); err != nil {
		return nil, err
	}
	review, err := s.Reviews.Approve(reviewID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, models.NewNotFoundError("review not found")
	}
	s.dropCachedStats(review.DoctorID)
	return review, nil
}

// Remove deletes a review. Staff only.
func (s *Service) Remove(p *models.Principal, reviewID string) error {
	if err := policy.AllowReview(p, policy.ActionModerate); err != nil {
		return err
	}
	review, err := s.Reviews.GetByID(reviewID)
	if err != nil {
		return err
	}
	if review == nil {
		return models.NewNotFoundError("review not found")
	}
	if err := s.Reviews.Delete(reviewID); err != nil {
		return err
	}
	s.dropCachedStats(review.DoctorID)
	return nil
}

// ListForDoctor returns a doctor's approved reviews, newest first.
func (s *Service) ListForDoctor(doctorID string) ([]models.Review, error) {
	return s.Reviews.ListApprovedByDoctor(doctorID)
}

// ListAll returns every review for moderation. Staff only.
func (s *Service) ListAll(p *models.Principal) ([]models.Review, error) {
	if err := policy.AllowReview(p, policy.ActionModerate); err != nil {
		return nil, err
	}
	return s.Reviews.ListAll()
}

// StatsForDoctor computes the doctor's rating summary over approved
// reviews, read through the redis cache when one is configured.
func (s *Service) StatsForDoctor(doctorID string) (*models.RatingStats, error) {
	if cached := s.cachedStats(doctorID); cached != nil {
		return cached, nil
	}
	reviews, err := s.Reviews.ListApprovedByDoctor(doctorID)
	if err != nil {
		return nil, err
	}
	stats := Stats(reviews)
	s.storeCachedStats(doctorID, &stats)
	return &stats, nil
}

func (s *Service) cachedStats(doctorID string) *models.RatingStats {
	if s.Cache == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	data, err := s.Cache.Get(ctx, utils.StatsCachePrefix+doctorID).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			zap.L().Warn("rating stats cache read failed", zap.Error(err))
		}
		return nil
	}
	var stats models.RatingStats
	if err := json.Unmarshal([]byte(data), &stats); err != nil {
		return nil
	}
	return &stats
}

func (s *Service) storeCachedStats(doctorID string, stats *models.RatingStats) {
	if s.Cache == nil {
		return
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Cache.Set(ctx, utils.StatsCachePrefix+doctorID, data, utils.StatsCacheTTL).Err(); err != nil {
		zap.L().Warn("rating stats cache write failed", zap.Error(err))
	}
}

func (s *Service) dropCachedStats(doctorID string) {
	if s.Cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Cache.Del(ctx, utils.StatsCachePrefix+doctorID).Err(); err != nil {
		zap.L().Warn("rating stats cache invalidation failed", zap.Error(err))
	}
}
