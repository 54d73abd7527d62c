// Package scheduling holds the appointment consistency core: the pure
// conflict checker, the appointment state machine and the booking engine
// that ties them together under per-slot locks.
package scheduling

import (
	"time"

	"clinicbook/models"
)

// CheckOverlap validates a candidate availability window against a doctor's
// existing windows for the same day. Two half-open ranges conflict when
// they truly intersect; ranges that touch at a boundary do not. The
// candidate's own ID is excluded so updating a window never collides with
// itself. Unavailable windows are ignored.
func CheckOverlap(candidate *models.AvailabilityWindow, existing []models.AvailabilityWindow) error {
	if candidate.StartMinute >= candidate.EndMinute {
		return models.NewValidationError("window start must be before its end")
	}
	for i := range existing {
		other := &existing[i]
		if other.ID == candidate.ID {
			continue
		}
		if !other.Available || other.DayOfWeek != candidate.DayOfWeek {
			continue
		}
		if candidate.Overlaps(other) {
			return models.NewValidationError(
				"window %s-%s overlaps existing window %s-%s",
				models.TimeLabel(candidate.StartMinute), models.TimeLabel(candidate.EndMinute),
				models.TimeLabel(other.StartMinute), models.TimeLabel(other.EndMinute),
			)
		}
	}
	return nil
}

// CheckBookingConflict fails when a non-terminal appointment already
// occupies the exact (doctor, date, time) slot. The caller supplies the
// current occupancy count.
func CheckBookingConflict(activeAtSlot int) error {
	if activeAtSlot > 0 {
		return models.NewConflictError("this time is already booked")
	}
	return nil
}

// CheckCapacity fails when the window has no remaining capacity on the
// date. The caller supplies the count of non-terminal appointments booked
// against the window on that date.
func CheckCapacity(window *models.AvailabilityWindow, booked int) error {
	if booked >= window.MaxPatients {
		return models.NewConflictError(
			"window %s-%s is fully booked for this date",
			models.TimeLabel(window.StartMinute), models.TimeLabel(window.EndMinute),
		)
	}
	return nil
}

// RemainingCapacity computes how many more patients a window accepts on a
// date, floored at zero.
func RemainingCapacity(window *models.AvailabilityWindow, booked int) int {
	remaining := window.MaxPatients - booked
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ValidateBookingTarget runs the stateless booking validations: the window
// must belong to the doctor and be available, the requested moment must lie
// inside the window on the right weekday, and it must not be in the past.
func ValidateBookingTarget(
	window *models.AvailabilityWindow,
	doctorID, date string,
	timeMinute int,
	now time.Time,
) error {
	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return models.NewValidationError("invalid date %q, want YYYY-MM-DD", date)
	}
	scheduled := day.Add(time.Duration(timeMinute) * time.Minute)
	if scheduled.Before(now) {
		return models.NewValidationError("appointment time cannot be in the past")
	}
	if window.DoctorID != doctorID {
		return models.NewValidationError("selected window does not belong to this doctor")
	}
	if !window.Available {
		return models.NewValidationError("selected window is not available")
	}
	if int(day.Weekday()) != window.DayOfWeek {
		return models.NewValidationError(
			"date %s falls on %s, window is for day %d", date, day.Weekday(), window.DayOfWeek,
		)
	}
	if !window.Contains(timeMinute) {
		return models.NewValidationError(
			"time %s is outside window %s-%s",
			models.TimeLabel(timeMinute),
			models.TimeLabel(window.StartMinute), models.TimeLabel(window.EndMinute),
		)
	}
	return nil
}
