package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appointmentRepo "clinicbook/database/repository/appointment"
	windowRepo "clinicbook/database/repository/window"
	"clinicbook/models"
	"clinicbook/services/policy"
	"clinicbook/utils"
)

// Locker serializes a critical section per key, waiting at most a bounded
// interval for the lock. utils.RedisLocker is the production implementation.
type Locker interface {
	Acquire(ctx context.Context, key string) (func(), error)
}

// TaskScheduler enqueues deferred work. The asynq client adapter in
// services/tasks is the production implementation.
type TaskScheduler interface {
	ScheduleNoShowSweep(appointmentID string, at time.Time) error
}

// Engine coordinates appointment booking and lifecycle transitions. Booking
// holds per-slot and per-window Redis locks while the transactional insert
// re-validates uniqueness and capacity, so two concurrent requests for the
// last opening cannot both succeed.
type Engine struct {
	Appointments appointmentRepo.AppointmentRepository
	Windows      windowRepo.WindowRepository
	Locks        Locker
	Tasks        TaskScheduler
	NoShowGrace  time.Duration
}

// NewEngine builds an Engine. Tasks may be nil when no queue is configured;
// missed appointments are then only swept by the periodic job.
func NewEngine(
	appts appointmentRepo.AppointmentRepository,
	windows windowRepo.WindowRepository,
	locks Locker,
	tasks TaskScheduler,
	noShowGrace time.Duration,
) *Engine {
	return &Engine{
		Appointments: appts,
		Windows:      windows,
		Locks:        locks,
		Tasks:        tasks,
		NoShowGrace:  noShowGrace,
	}
}

func slotLockKey(doctorID, date string, timeMinute int) string {
	return fmt.Sprintf("%s%s:%s:%d", utils.BookingLockPrefix, doctorID, date, timeMinute)
}

func windowLockKey(windowID, date string) string {
	return fmt.Sprintf("%swin:%s:%s", utils.BookingLockPrefix, windowID, date)
}

// Book creates a pending appointment for the principal against a doctor's
// window. It validates the target, serializes contenders on the slot and
// window locks, pre-checks capacity, and then inserts through the
// transactional path that re-validates both constraints.
func (e *Engine) Book(ctx context.Context, p *models.Principal, req *models.BookingRequest) (*models.Appointment, error) {
	if err := policy.AllowAppointment(p, policy.ActionBook, nil); err != nil {
		return nil, err
	}

	window, err := e.Windows.GetByID(req.WindowID)
	if err != nil {
		return nil, err
	}
	if window == nil {
		return nil, models.NewNotFoundError("availability window not found")
	}
	if err := ValidateBookingTarget(window, req.DoctorID, req.Date, req.TimeMinute, time.Now()); err != nil {
		return nil, err
	}

	releaseSlot, err := e.Locks.Acquire(ctx, slotLockKey(req.DoctorID, req.Date, req.TimeMinute))
	if err != nil {
		return nil, err
	}
	defer releaseSlot()

	releaseWindow, err := e.Locks.Acquire(ctx, windowLockKey(req.WindowID, req.Date))
	if err != nil {
		return nil, err
	}
	defer releaseWindow()

	booked, err := e.Appointments.CountActiveForWindow(req.WindowID, req.Date)
	if err != nil {
		return nil, err
	}
	if err := CheckCapacity(window, booked); err != nil {
		return nil, err
	}

	now := time.Now()
	appt := &models.Appointment{
		ID:         uuid.New().String(),
		PatientID:  p.UserID,
		DoctorID:   req.DoctorID,
		WindowID:   req.WindowID,
		Date:       req.Date,
		TimeMinute: req.TimeMinute,
		Status:     models.StatusPending,
		Symptoms:   req.Symptoms,
		Urgent:     req.Urgent,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := e.Appointments.BookAtomically(ctx, appt, window.MaxPatients); err != nil {
		switch {
		case errors.Is(err, appointmentRepo.ErrSlotTaken):
			return nil, models.NewConflictError("this time is already booked")
		case errors.Is(err, appointmentRepo.ErrCapacityExceeded):
			return nil, models.NewConflictError(
				"window %s-%s is fully booked for this date",
				models.TimeLabel(window.StartMinute), models.TimeLabel(window.EndMinute),
			)
		}
		return nil, err
	}

	if e.Tasks != nil {
		sweepAt := appt.ScheduledAt().Add(e.NoShowGrace)
		if err := e.Tasks.ScheduleNoShowSweep(appt.ID, sweepAt); err != nil {
			utils.GetLogger().Warn("failed to schedule no-show sweep",
				zap.String("appointment_id", appt.ID), zap.Error(err))
		}
	}

	return appt, nil
}

// Confirm moves a pending appointment to confirmed on behalf of its doctor
// or staff.
func (e *Engine) Confirm(ctx context.Context, p *models.Principal, appointmentID string) (*models.Appointment, error) {
	return e.transition(p, policy.ActionConfirm, appointmentID, func(appt *models.Appointment) error {
		return Confirm(appt)
	})
}

// Cancel cancels an appointment, enforcing the lead-time guard. Repeating a
// cancellation is a no-op success.
func (e *Engine) Cancel(ctx context.Context, p *models.Principal, appointmentID, reason string) (*models.Appointment, error) {
	appt, err := e.load(appointmentID)
	if err != nil {
		return nil, err
	}
	if err := policy.AllowAppointment(p, policy.ActionCancel, appt); err != nil {
		return nil, err
	}
	from := appt.Status
	changed, err := Cancel(appt, time.Now())
	if err != nil {
		return nil, err
	}
	if !changed {
		return appt, nil
	}
	appt.CancelReason = reason
	appt.UpdatedAt = time.Now()
	if err := e.Appointments.UpdateStatus(appt, from); err != nil {
		return nil, staleToConflict(err)
	}
	return appt, nil
}

// Complete moves a confirmed appointment to completed with the doctor's
// clinical outcome.
func (e *Engine) Complete(ctx context.Context, p *models.Principal, appointmentID string, req *models.CompleteRequest) (*models.Appointment, error) {
	return e.transition(p, policy.ActionComplete, appointmentID, func(appt *models.Appointment) error {
		return Complete(appt, req.Prescription, req.Notes)
	})
}

// MarkNoShow flags a missed appointment once its scheduled time has passed.
func (e *Engine) MarkNoShow(ctx context.Context, p *models.Principal, appointmentID string) (*models.Appointment, error) {
	return e.transition(p, policy.ActionNoShow, appointmentID, func(appt *models.Appointment) error {
		return MarkNoShow(appt, time.Now())
	})
}

// Get retrieves an appointment the principal is allowed to see.
func (e *Engine) Get(ctx context.Context, p *models.Principal, appointmentID string) (*models.Appointment, error) {
	appt, err := e.load(appointmentID)
	if err != nil {
		return nil, err
	}
	if err := policy.AllowAppointment(p, policy.ActionView, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// List retrieves the appointments visible to the principal: their own for
// patients, their schedule for doctors, everything for staff.
func (e *Engine) List(ctx context.Context, p *models.Principal) ([]models.Appointment, error) {
	switch p.Role {
	case models.RolePatient:
		return e.Appointments.ListByPatient(p.UserID)
	case models.RoleDoctor:
		return e.Appointments.ListByDoctor(p.DoctorID)
	case models.RoleStaff:
		return e.Appointments.ListAll()
	}
	return nil, models.NewPermissionError("unknown role %q", p.Role)
}

// SweepNoShow marks the appointment as no_show if it is still active past
// its scheduled time. Appointments that were cancelled or completed in the
// meantime are left alone.
func (e *Engine) SweepNoShow(ctx context.Context, appointmentID string) error {
	appt, err := e.Appointments.GetByID(appointmentID)
	if err != nil {
		return err
	}
	if appt == nil || models.IsTerminalStatus(appt.Status) {
		return nil
	}
	from := appt.Status
	if err := MarkNoShow(appt, time.Now()); err != nil {
		// Not yet due; the task fired early.
		return err
	}
	appt.UpdatedAt = time.Now()
	if err := e.Appointments.UpdateStatus(appt, from); err != nil {
		if errors.Is(err, appointmentRepo.ErrStaleTransition) {
			// Someone else moved the appointment; nothing left to sweep.
			return nil
		}
		return err
	}
	utils.GetLogger().Info("appointment swept to no-show",
		zap.String("appointment_id", appt.ID), zap.String("doctor_id", appt.DoctorID))
	return nil
}

func (e *Engine) load(appointmentID string) (*models.Appointment, error) {
	appt, err := e.Appointments.GetByID(appointmentID)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, models.NewNotFoundError("appointment not found")
	}
	return appt, nil
}

func (e *Engine) transition(p *models.Principal, action policy.Action, appointmentID string, apply func(*models.Appointment) error) (*models.Appointment, error) {
	appt, err := e.load(appointmentID)
	if err != nil {
		return nil, err
	}
	if err := policy.AllowAppointment(p, action, appt); err != nil {
		return nil, err
	}
	from := appt.Status
	if err := apply(appt); err != nil {
		return nil, err
	}
	appt.UpdatedAt = time.Now()
	if err := e.Appointments.UpdateStatus(appt, from); err != nil {
		return nil, staleToConflict(err)
	}
	return appt, nil
}

// staleToConflict surfaces a lost compare-and-swap as a retryable conflict.
func staleToConflict(err error) error {
	if errors.Is(err, appointmentRepo.ErrStaleTransition) {
		return models.NewConflictError("appointment was updated by someone else, reload and retry")
	}
	return err
}
