package scheduling

import (
	"time"

	"clinicbook/models"
)

// Confirm moves a pending appointment to confirmed.
func Confirm(appt *models.Appointment) error {
	if appt.Status != models.StatusPending {
		return models.NewInvalidTransitionError(
			"only pending appointments can be confirmed, current status is %s", appt.Status,
		)
	}
	appt.Status = models.StatusConfirmed
	return nil
}

// Cancel moves a pending or confirmed appointment to cancelled, subject to
// the lead-time guard. Cancelling an already cancelled appointment is a
// no-op and reports changed=false. Completed and no-show appointments
// cannot be cancelled.
func Cancel(appt *models.Appointment, now time.Time) (changed bool, err error) {
	switch appt.Status {
	case models.StatusCancelled:
		return false, nil
	case models.StatusCompleted, models.StatusNoShow:
		return false, models.NewInvalidTransitionError(
			"cannot cancel a %s appointment", appt.Status,
		)
	}
	if appt.ScheduledAt().Sub(now) <= models.CancelLeadTime {
		return false, models.NewValidationError(
			"appointments can only be cancelled more than %d hours in advance",
			int(models.CancelLeadTime.Hours()),
		)
	}
	appt.Status = models.StatusCancelled
	return true, nil
}

// Complete moves a confirmed appointment to completed and records the
// doctor's outcome notes.
func Complete(appt *models.Appointment, prescription, notes string) error {
	if appt.Status != models.StatusConfirmed {
		return models.NewInvalidTransitionError(
			"only confirmed appointments can be completed, current status is %s", appt.Status,
		)
	}
	appt.Status = models.StatusCompleted
	appt.Prescription = prescription
	appt.Notes = notes
	return nil
}

// MarkNoShow moves a pending or confirmed appointment to no_show. The
// scheduled time must already have passed.
func MarkNoShow(appt *models.Appointment, now time.Time) error {
	if appt.Status != models.StatusPending && appt.Status != models.StatusConfirmed {
		return models.NewInvalidTransitionError(
			"cannot mark a %s appointment as no-show", appt.Status,
		)
	}
	if now.Before(appt.ScheduledAt()) {
		return models.NewValidationError("appointment has not started yet")
	}
	appt.Status = models.StatusNoShow
	return nil
}
