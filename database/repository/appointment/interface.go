package appointmentRepo

import (
	"context"
	"errors"

	"clinicbook/models"
)

// Sentinel errors returned by the transactional booking path.
var (
	// ErrSlotTaken means a non-terminal appointment already occupies the
	// exact (doctor, date, time) slot.
	ErrSlotTaken = errors.New("slot is already booked")
	// ErrCapacityExceeded means the window's capacity for the date is
	// exhausted.
	ErrCapacityExceeded = errors.New("window capacity exhausted for this date")
	// ErrStaleTransition means the appointment's status changed between
	// load and write, so the guarded update matched nothing.
	ErrStaleTransition = errors.New("appointment status changed concurrently")
)

// AppointmentRepository defines methods for appointment data access.
type AppointmentRepository interface {
	// GetByID retrieves an appointment by its unique ID.
	GetByID(id string) (*models.Appointment, error)
	// ListByPatient retrieves a patient's appointments, newest date first.
	ListByPatient(patientID string) ([]models.Appointment, error)
	// ListByDoctor retrieves a doctor's appointments, newest date first.
	ListByDoctor(doctorID string) ([]models.Appointment, error)
	// ListAll retrieves every appointment, newest date first.
	ListAll() ([]models.Appointment, error)
	// CountActiveForWindow counts non-terminal appointments booked against
	// a window on a date.
	CountActiveForWindow(windowID, date string) (int, error)
	// HasCompleted reports whether the patient has at least one completed
	// appointment with the doctor.
	HasCompleted(patientID, doctorID string) (bool, error)
	// BookAtomically inserts a pending appointment inside a transaction
	// that re-validates slot uniqueness and window capacity. It returns
	// ErrSlotTaken or ErrCapacityExceeded when a concurrent booker won.
	BookAtomically(ctx context.Context, appt *models.Appointment, capacity int) error
	// UpdateStatus persists a status transition guarded by the status the
	// transition started from. Returns ErrStaleTransition when another
	// writer moved the appointment first.
	UpdateStatus(appt *models.Appointment, fromStatus string) error
	// Delete removes an appointment by its ID.
	Delete(id string) error
}
