package scheduling

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	appointmentRepo "clinicbook/database/repository/appointment"
	"clinicbook/models"
)

// memLocker serializes per key with plain mutexes. Acquisition blocks, which
// is fine for tests.
type memLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newMemLocker() *memLocker {
	return &memLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *memLocker) Acquire(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock, nil
}

// memApptRepo is an in-memory AppointmentRepository enforcing the same slot
// and capacity guarantees as the Mongo transaction.
type memApptRepo struct {
	mu    sync.Mutex
	appts map[string]*models.Appointment
}

func newMemApptRepo() *memApptRepo {
	return &memApptRepo{appts: make(map[string]*models.Appointment)}
}

func (r *memApptRepo) GetByID(id string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appt, ok := r.appts[id]
	if !ok {
		return nil, nil
	}
	cp := *appt
	return &cp, nil
}

func (r *memApptRepo) list(match func(*models.Appointment) bool) []models.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, a := range r.appts {
		if match(a) {
			out = append(out, *a)
		}
	}
	return out
}

func (r *memApptRepo) ListByPatient(id string) ([]models.Appointment, error) {
	return r.list(func(a *models.Appointment) bool { return a.PatientID == id }), nil
}

func (r *memApptRepo) ListByDoctor(id string) ([]models.Appointment, error) {
	return r.list(func(a *models.Appointment) bool { return a.DoctorID == id }), nil
}

func (r *memApptRepo) ListAll() ([]models.Appointment, error) {
	return r.list(func(*models.Appointment) bool { return true }), nil
}

func (r *memApptRepo) CountActiveForWindow(windowID, date string) (int, error) {
	n := 0
	for _, a := range r.list(func(*models.Appointment) bool { return true }) {
		if a.WindowID == windowID && a.Date == date && !models.IsTerminalStatus(a.Status) {
			n++
		}
	}
	return n, nil
}

func (r *memApptRepo) HasCompleted(patientID, doctorID string) (bool, error) {
	for _, a := range r.list(func(*models.Appointment) bool { return true }) {
		if a.PatientID == patientID && a.DoctorID == doctorID && a.Status == models.StatusCompleted {
			return true, nil
		}
	}
	return false, nil
}

func (r *memApptRepo) BookAtomically(ctx context.Context, appt *models.Appointment, capacity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	windowCount := 0
	for _, a := range r.appts {
		if models.IsTerminalStatus(a.Status) {
			continue
		}
		if a.DoctorID == appt.DoctorID && a.Date == appt.Date && a.TimeMinute == appt.TimeMinute {
			return appointmentRepo.ErrSlotTaken
		}
		if a.WindowID == appt.WindowID && a.Date == appt.Date {
			windowCount++
		}
	}
	if windowCount >= capacity {
		return appointmentRepo.ErrCapacityExceeded
	}
	cp := *appt
	r.appts[appt.ID] = &cp
	return nil
}

func (r *memApptRepo) UpdateStatus(appt *models.Appointment, fromStatus string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.appts[appt.ID]
	if !ok || stored.Status != fromStatus {
		return appointmentRepo.ErrStaleTransition
	}
	cp := *appt
	r.appts[appt.ID] = &cp
	return nil
}

func (r *memApptRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.appts, id)
	return nil
}

// memWindowRepo holds windows in memory; the engine only reads.
type memWindowRepo struct {
	windows map[string]models.AvailabilityWindow
}

func (r *memWindowRepo) GetByID(id string) (*models.AvailabilityWindow, error) {
	w, ok := r.windows[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *memWindowRepo) ListByDoctor(doctorID string) ([]models.AvailabilityWindow, error) {
	var out []models.AvailabilityWindow
	for _, w := range r.windows {
		if w.DoctorID == doctorID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *memWindowRepo) ListAvailable(doctorID string, day int) ([]models.AvailabilityWindow, error) {
	var out []models.AvailabilityWindow
	for _, w := range r.windows {
		if w.DoctorID == doctorID && w.DayOfWeek == day && w.Available {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *memWindowRepo) Create(w *models.AvailabilityWindow) error { r.windows[w.ID] = *w; return nil }
func (r *memWindowRepo) Update(w *models.AvailabilityWindow) error { r.windows[w.ID] = *w; return nil }
func (r *memWindowRepo) Delete(id string) error                    { delete(r.windows, id); return nil }
func (r *memWindowRepo) DeleteByDoctor(doctorID string) error {
	for id, w := range r.windows {
		if w.DoctorID == doctorID {
			delete(r.windows, id)
		}
	}
	return nil
}

// nextDateFor finds a future calendar date falling on the window's weekday,
// at least a week out so every minute of the day is still bookable.
func nextDateFor(day int) string {
	d := time.Now().AddDate(0, 0, 7)
	for int(d.Weekday()) != day {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format("2006-01-02")
}

func newTestEngine(capacity int) (*Engine, *memApptRepo, models.AvailabilityWindow) {
	w := models.AvailabilityWindow{
		ID:          "win-1",
		DoctorID:    "doc-1",
		DayOfWeek:   1,
		StartMinute: 540,
		EndMinute:   720,
		Available:   true,
		MaxPatients: capacity,
	}
	appts := newMemApptRepo()
	windows := &memWindowRepo{windows: map[string]models.AvailabilityWindow{w.ID: w}}
	engine := NewEngine(appts, windows, newMemLocker(), nil, 30*time.Minute)
	return engine, appts, w
}

func patient(id string) *models.Principal {
	return &models.Principal{UserID: id, Role: models.RolePatient}
}

func doctor(id string) *models.Principal {
	return &models.Principal{UserID: "u-" + id, Role: models.RoleDoctor, DoctorID: id}
}

func staff() *models.Principal {
	return &models.Principal{UserID: "staff-1", Role: models.RoleStaff}
}

func bookingReq(w models.AvailabilityWindow, minute int) *models.BookingRequest {
	return &models.BookingRequest{
		DoctorID:   w.DoctorID,
		WindowID:   w.ID,
		Date:       nextDateFor(w.DayOfWeek),
		TimeMinute: minute,
	}
}

func TestBookHappyPath(t *testing.T) {
	engine, _, w := newTestEngine(3)

	appt, err := engine.Book(context.Background(), patient("pat-1"), bookingReq(w, 540))
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}
	if appt.Status != models.StatusPending {
		t.Fatalf("new appointment status = %q, want pending", appt.Status)
	}
	if appt.PatientID != "pat-1" || appt.DoctorID != "doc-1" {
		t.Fatalf("unexpected appointment: %+v", appt)
	}
}

func TestBookSlotConflict(t *testing.T) {
	engine, _, w := newTestEngine(3)
	ctx := context.Background()

	if _, err := engine.Book(ctx, patient("pat-1"), bookingReq(w, 600)); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	_, err := engine.Book(ctx, patient("pat-2"), bookingReq(w, 600))
	if err == nil {
		t.Fatal("second booking of the same slot should fail")
	}
	if models.ErrorKind(err) != models.ErrKindConflict {
		t.Fatalf("expected conflict kind, got %q", models.ErrorKind(err))
	}
}

func TestBookCancelledSlotReopens(t *testing.T) {
	engine, _, w := newTestEngine(1)
	ctx := context.Background()

	appt, err := engine.Book(ctx, patient("pat-1"), bookingReq(w, 600))
	if err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	if _, err := engine.Cancel(ctx, patient("pat-1"), appt.ID, "sick"); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if _, err := engine.Book(ctx, patient("pat-2"), bookingReq(w, 600)); err != nil {
		t.Fatalf("cancelled slot should be bookable again: %v", err)
	}
}

func TestBookConcurrentCapacity(t *testing.T) {
	const contenders = 16
	engine, appts, w := newTestEngine(2)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Each contender wants a distinct minute, so only the window
			// capacity limits them.
			_, errs[i] = engine.Book(ctx, patient(fmt.Sprintf("pat-%d", i)), bookingReq(w, 540+i*5))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else if models.ErrorKind(err) != models.ErrKindConflict {
			t.Fatalf("loser got %q, want conflict: %v", models.ErrorKind(err), err)
		}
	}
	if succeeded != 2 {
		t.Fatalf("%d bookings succeeded, want exactly 2", succeeded)
	}
	booked, _ := appts.CountActiveForWindow(w.ID, nextDateFor(w.DayOfWeek))
	if booked != 2 {
		t.Fatalf("stored %d active appointments, want 2", booked)
	}
}

func TestBookConcurrentSameSlot(t *testing.T) {
	const contenders = 8
	engine, _, w := newTestEngine(5)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = engine.Book(ctx, patient(fmt.Sprintf("pat-%d", i)), bookingReq(w, 600))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	if succeeded != 1 {
		t.Fatalf("%d contenders won the slot, want exactly 1", succeeded)
	}
}

func TestTransitionOwnership(t *testing.T) {
	engine, _, w := newTestEngine(3)
	ctx := context.Background()

	appt, err := engine.Book(ctx, patient("pat-1"), bookingReq(w, 540))
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	// Another doctor cannot confirm.
	if _, err := engine.Confirm(ctx, doctor("doc-2"), appt.ID); err == nil {
		t.Fatal("foreign doctor confirm should fail")
	} else if models.ErrorKind(err) != models.ErrKindPermission {
		t.Fatalf("expected permission kind, got %q", models.ErrorKind(err))
	}

	// The assigned doctor can.
	if _, err := engine.Confirm(ctx, doctor("doc-1"), appt.ID); err != nil {
		t.Fatalf("assigned doctor confirm failed: %v", err)
	}

	// Another patient cannot see it.
	if _, err := engine.Get(ctx, patient("pat-2"), appt.ID); err == nil {
		t.Fatal("foreign patient read should fail")
	}

	// Staff can complete after confirmation.
	if _, err := engine.Complete(ctx, staff(), appt.ID, &models.CompleteRequest{Notes: "ok"}); err != nil {
		t.Fatalf("staff complete failed: %v", err)
	}
}

func TestStaleTransitionCannotResurrectTerminalState(t *testing.T) {
	engine, appts, w := newTestEngine(3)
	ctx := context.Background()

	appt, err := engine.Book(ctx, patient("pat-1"), bookingReq(w, 540))
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	// A doctor loads the pending appointment, then a cancel commits before
	// the doctor's confirm is written back.
	stale, _ := appts.GetByID(appt.ID)
	if _, err := engine.Cancel(ctx, patient("pat-1"), appt.ID, "sick"); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	from := stale.Status
	if err := Confirm(stale); err != nil {
		t.Fatalf("confirm on the stale copy failed: %v", err)
	}
	err = appts.UpdateStatus(stale, from)
	if !errors.Is(err, appointmentRepo.ErrStaleTransition) {
		t.Fatalf("stale write should fail the guarded update, got %v", err)
	}

	got, _ := appts.GetByID(appt.ID)
	if got.Status != models.StatusCancelled {
		t.Fatalf("terminal state resurrected: cancelled appointment is now %q", got.Status)
	}

	// Through the engine the loser sees a retryable conflict: the reload
	// finds the cancelled state and confirm is rejected outright.
	if _, err := engine.Confirm(ctx, doctor("doc-1"), appt.ID); err == nil {
		t.Fatal("confirming a cancelled appointment should fail")
	} else if models.ErrorKind(err) != models.ErrKindInvalidTransition {
		t.Fatalf("expected invalid_transition, got %q", models.ErrorKind(err))
	}
}

func TestGetNotFound(t *testing.T) {
	engine, _, _ := newTestEngine(1)
	_, err := engine.Get(context.Background(), staff(), "missing")
	if err == nil || models.ErrorKind(err) != models.ErrKindNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestSweepNoShow(t *testing.T) {
	engine, appts, _ := newTestEngine(1)
	ctx := context.Background()

	past := time.Now().Add(-2 * time.Hour)
	appt := &models.Appointment{
		ID:         "appt-past",
		PatientID:  "pat-1",
		DoctorID:   "doc-1",
		WindowID:   "win-1",
		Date:       past.Format("2006-01-02"),
		TimeMinute: past.Hour()*60 + past.Minute(),
		Status:     models.StatusConfirmed,
	}
	if err := appts.BookAtomically(ctx, appt, 1); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if err := engine.SweepNoShow(ctx, appt.ID); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	got, _ := appts.GetByID(appt.ID)
	if got.Status != models.StatusNoShow {
		t.Fatalf("status after sweep = %q, want no_show", got.Status)
	}

	// A second sweep is a no-op: the appointment is terminal now.
	if err := engine.SweepNoShow(ctx, appt.ID); err != nil {
		t.Fatalf("repeat sweep should be a no-op: %v", err)
	}
	// Sweeping a vanished appointment is also a no-op.
	if err := engine.SweepNoShow(ctx, "missing"); err != nil {
		t.Fatalf("sweep of missing appointment should be a no-op: %v", err)
	}
}
