package scheduling

import (
	"testing"
	"time"

	"clinicbook/models"
)

func window(id string, day, start, end int) models.AvailabilityWindow {
	return models.AvailabilityWindow{
		ID:          id,
		DoctorID:    "doc-1",
		DayOfWeek:   day,
		StartMinute: start,
		EndMinute:   end,
		Available:   true,
		MaxPatients: 3,
	}
}

func TestCheckOverlap(t *testing.T) {
	existing := []models.AvailabilityWindow{
		window("w1", 1, 540, 720),  // Mon 09:00-12:00
		window("w2", 1, 780, 900),  // Mon 13:00-15:00
		window("w3", 2, 540, 720),  // Tue 09:00-12:00
	}

	cases := []struct {
		name      string
		candidate models.AvailabilityWindow
		wantErr   bool
	}{
		{"disjoint before", window("new", 1, 420, 540), false},
		{"touching end is allowed", window("new", 1, 720, 780), false},
		{"identical range conflicts", window("new", 1, 540, 720), true},
		{"partial overlap conflicts", window("new", 1, 700, 800), true},
		{"contained conflicts", window("new", 1, 600, 660), true},
		{"containing conflicts", window("new", 1, 500, 930), true},
		{"other day is fine", window("new", 3, 540, 720), false},
		{"self is excluded", window("w1", 1, 540, 720), false},
		{"inverted range rejected", window("new", 1, 720, 540), true},
		{"empty range rejected", window("new", 1, 540, 540), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckOverlap(&tc.candidate, existing)
			if (err != nil) != tc.wantErr {
				t.Fatalf("CheckOverlap() error = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && models.ErrorKind(err) != models.ErrKindValidation {
				t.Fatalf("expected validation kind, got %q", models.ErrorKind(err))
			}
		})
	}
}

func TestCheckOverlapIgnoresUnavailable(t *testing.T) {
	off := window("w1", 1, 540, 720)
	off.Available = false
	cand := window("new", 1, 540, 720)
	if err := CheckOverlap(&cand, []models.AvailabilityWindow{off}); err != nil {
		t.Fatalf("unavailable window should not conflict: %v", err)
	}
}

func TestCheckCapacity(t *testing.T) {
	w := window("w1", 1, 540, 720)
	w.MaxPatients = 2

	if err := CheckCapacity(&w, 1); err != nil {
		t.Fatalf("capacity 2 with 1 booked should pass: %v", err)
	}
	err := CheckCapacity(&w, 2)
	if err == nil {
		t.Fatal("capacity 2 with 2 booked should fail")
	}
	if models.ErrorKind(err) != models.ErrKindConflict {
		t.Fatalf("expected conflict kind, got %q", models.ErrorKind(err))
	}
}

func TestRemainingCapacity(t *testing.T) {
	w := window("w1", 1, 540, 720)
	w.MaxPatients = 3

	if got := RemainingCapacity(&w, 1); got != 2 {
		t.Fatalf("RemainingCapacity(3,1) = %d, want 2", got)
	}
	if got := RemainingCapacity(&w, 5); got != 0 {
		t.Fatalf("overbooked window should floor at 0, got %d", got)
	}
}

func TestValidateBookingTarget(t *testing.T) {
	// A date next week guaranteed to be in the future.
	day := time.Now().AddDate(0, 0, 7)
	w := window("w1", int(day.Weekday()), 540, 720)
	date := day.Format("2006-01-02")

	if err := ValidateBookingTarget(&w, "doc-1", date, 540, time.Now()); err != nil {
		t.Fatalf("start of window should be bookable: %v", err)
	}
	if err := ValidateBookingTarget(&w, "doc-1", date, 720, time.Now()); err == nil {
		t.Fatal("window end is exclusive, 720 should be rejected")
	}
	if err := ValidateBookingTarget(&w, "doc-2", date, 600, time.Now()); err == nil {
		t.Fatal("window of another doctor should be rejected")
	}
	if err := ValidateBookingTarget(&w, "doc-1", "2020-01-06", 600, time.Now()); err == nil {
		t.Fatal("past date should be rejected")
	}
	if err := ValidateBookingTarget(&w, "doc-1", "not-a-date", 600, time.Now()); err == nil {
		t.Fatal("malformed date should be rejected")
	}

	wrongDay := day.AddDate(0, 0, 1)
	if err := ValidateBookingTarget(&w, "doc-1", wrongDay.Format("2006-01-02"), 600, time.Now()); err == nil {
		t.Fatal("date on the wrong weekday should be rejected")
	}

	w.Available = false
	if err := ValidateBookingTarget(&w, "doc-1", date, 600, time.Now()); err == nil {
		t.Fatal("unavailable window should be rejected")
	}
}
