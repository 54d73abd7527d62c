package review

import (
	"context"
	"testing"

	reviewRepo "clinicbook/database/repository/review"
	"clinicbook/models"
)

// memReviews mirrors the gate the transactional Mongo path enforces:
// completed appointments unlock submission, one review per context.
type memReviews struct {
	reviews   map[string]*models.Review
	completed map[string]bool // patientID|doctorID
}

func newMemReviews() *memReviews {
	return &memReviews{
		reviews:   make(map[string]*models.Review),
		completed: make(map[string]bool),
	}
}

func (r *memReviews) GetByID(id string) (*models.Review, error) {
	rev, ok := r.reviews[id]
	if !ok {
		return nil, nil
	}
	cp := *rev
	return &cp, nil
}

func (r *memReviews) CreateGated(ctx context.Context, review *models.Review) error {
	if !r.completed[review.PatientID+"|"+review.DoctorID] {
		return reviewRepo.ErrNotEligible
	}
	for _, existing := range r.reviews {
		if existing.PatientID == review.PatientID &&
			existing.DoctorID == review.DoctorID &&
			existing.AppointmentID == review.AppointmentID {
			return reviewRepo.ErrDuplicateReview
		}
	}
	cp := *review
	r.reviews[review.ID] = &cp
	return nil
}

func (r *memReviews) Approve(id string) (*models.Review, error) {
	rev, ok := r.reviews[id]
	if !ok {
		return nil, nil
	}
	rev.Approved = true
	cp := *rev
	return &cp, nil
}

func (r *memReviews) ListApprovedByDoctor(doctorID string) ([]models.Review, error) {
	var out []models.Review
	for _, rev := range r.reviews {
		if rev.DoctorID == doctorID && rev.Approved {
			out = append(out, *rev)
		}
	}
	return out, nil
}

func (r *memReviews) ListAll() ([]models.Review, error) {
	var out []models.Review
	for _, rev := range r.reviews {
		out = append(out, *rev)
	}
	return out, nil
}

func (r *memReviews) Delete(id string) error {
	delete(r.reviews, id)
	return nil
}

type stubDoctors struct{ known map[string]bool }

func (r *stubDoctors) GetByID(id string) (*models.Doctor, error) {
	if !r.known[id] {
		return nil, nil
	}
	return &models.Doctor{ID: id, UserID: "u-" + id}, nil
}
func (r *stubDoctors) GetByUserID(string) (*models.Doctor, error)            { return nil, nil }
func (r *stubDoctors) GetAll() ([]models.Doctor, error)                      { return nil, nil }
func (r *stubDoctors) GetBySpecialization(string) ([]models.Doctor, error)   { return nil, nil }
func (r *stubDoctors) Create(*models.Doctor) error                           { return nil }
func (r *stubDoctors) Update(*models.Doctor) error                           { return nil }
func (r *stubDoctors) Delete(string) error                                   { return nil }

func newTestService() (*Service, *memReviews) {
	reviews := newMemReviews()
	return NewService(reviews, &stubDoctors{known: map[string]bool{"doc-1": true}}, nil), reviews
}

func reviewer() *models.Principal {
	return &models.Principal{UserID: "pat-1", Role: models.RolePatient}
}

func moderator() *models.Principal {
	return &models.Principal{UserID: "s1", Role: models.RoleStaff}
}

func TestSubmitRequiresCompletedAppointment(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Submit(context.Background(), reviewer(), &models.ReviewRequest{
		DoctorID: "doc-1", AppointmentID: "a1", Rating: 5,
	})
	if err == nil {
		t.Fatal("review without a completed appointment should fail")
	}
	if models.ErrorKind(err) != models.ErrKindValidation {
		t.Fatalf("expected validation kind, got %q", models.ErrorKind(err))
	}
}

func TestSubmitAndApprove(t *testing.T) {
	svc, repo := newTestService()
	repo.completed["pat-1|doc-1"] = true

	rev, err := svc.Submit(context.Background(), reviewer(), &models.ReviewRequest{
		DoctorID: "doc-1", AppointmentID: "a1", Rating: 4, Comment: "thorough",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if rev.Approved {
		t.Fatal("fresh reviews must await moderation")
	}

	// Unapproved reviews stay out of the public list and the stats.
	listed, _ := svc.ListForDoctor("doc-1")
	if len(listed) != 0 {
		t.Fatalf("unapproved review leaked into public list: %d", len(listed))
	}

	if _, err := svc.Approve(moderator(), rev.ID); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	listed, _ = svc.ListForDoctor("doc-1")
	if len(listed) != 1 {
		t.Fatalf("approved review missing from public list")
	}

	stats, err := svc.StatsForDoctor("doc-1")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TotalReviews != 1 || stats.AverageRating != 4 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestSubmitDuplicateRejected(t *testing.T) {
	svc, repo := newTestService()
	repo.completed["pat-1|doc-1"] = true
	req := &models.ReviewRequest{DoctorID: "doc-1", AppointmentID: "a1", Rating: 5}

	if _, err := svc.Submit(context.Background(), reviewer(), req); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	_, err := svc.Submit(context.Background(), reviewer(), req)
	if err == nil {
		t.Fatal("duplicate review should be rejected")
	}
	if models.ErrorKind(err) != models.ErrKindValidation {
		t.Fatalf("expected validation kind, got %q", models.ErrorKind(err))
	}
}

func TestSubmitSecondAppointmentAllowed(t *testing.T) {
	svc, repo := newTestService()
	repo.completed["pat-1|doc-1"] = true

	if _, err := svc.Submit(context.Background(), reviewer(), &models.ReviewRequest{
		DoctorID: "doc-1", AppointmentID: "a1", Rating: 5,
	}); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	// A return visit earns its own review slot.
	if _, err := svc.Submit(context.Background(), reviewer(), &models.ReviewRequest{
		DoctorID: "doc-1", AppointmentID: "a2", Rating: 3,
	}); err != nil {
		t.Fatalf("review for a different appointment should succeed, got %v", err)
	}
}

func TestSubmitWithoutAppointmentRejected(t *testing.T) {
	svc, repo := newTestService()
	repo.completed["pat-1|doc-1"] = true

	_, err := svc.Submit(context.Background(), reviewer(), &models.ReviewRequest{
		DoctorID: "doc-1", Rating: 5,
	})
	if err == nil || models.ErrorKind(err) != models.ErrKindValidation {
		t.Fatalf("expected validation error for missing appointment, got %v", err)
	}
}

func TestSubmitUnknownDoctor(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Submit(context.Background(), reviewer(), &models.ReviewRequest{
		DoctorID: "doc-9", AppointmentID: "a1", Rating: 5,
	})
	if err == nil || models.ErrorKind(err) != models.ErrKindNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestModerationRequiresStaff(t *testing.T) {
	svc, repo := newTestService()
	repo.completed["pat-1|doc-1"] = true

	rev, err := svc.Submit(context.Background(), reviewer(), &models.ReviewRequest{
		DoctorID: "doc-1", AppointmentID: "a1", Rating: 2,
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if _, err := svc.Approve(reviewer(), rev.ID); err == nil {
		t.Fatal("patients cannot approve reviews")
	}
	if err := svc.Remove(reviewer(), rev.ID); err == nil {
		t.Fatal("patients cannot delete reviews")
	}
	if err := svc.Remove(moderator(), rev.ID); err != nil {
		t.Fatalf("staff delete failed: %v", err)
	}
}
