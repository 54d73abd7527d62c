// models/appointment.go
package models

import "time"

// Appointment statuses. Pending and confirmed are the non-terminal states
// that count toward conflict and capacity checks; the rest are terminal.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
	StatusNoShow    = "no_show"
)

// NonTerminalStatuses are the statuses occupying a booking slot.
var NonTerminalStatuses = []string{StatusPending, StatusConfirmed}

// IsTerminalStatus reports whether status permits no further transitions.
func IsTerminalStatus(status string) bool {
	return status == StatusCancelled || status == StatusCompleted || status == StatusNoShow
}

// CancelLeadTime is the minimum interval before the scheduled moment that
// still permits cancellation.
const CancelLeadTime = 2 * time.Hour

// Appointment is a concrete booking of a patient against a doctor's
// availability window on a specific date.
type Appointment struct {
	ID           string    `bson:"id" json:"id"`
	PatientID    string    `bson:"patient_id" json:"patient_id"`
	DoctorID     string    `bson:"doctor_id" json:"doctor_id"`
	WindowID     string    `bson:"window_id" json:"window_id"`
	Date         string    `bson:"date" json:"date"` // "2006-01-02"
	TimeMinute   int       `bson:"time_minute" json:"time_minute"`
	Status       string    `bson:"status" json:"status"`
	Symptoms     string    `bson:"symptoms,omitempty" json:"symptoms,omitempty"`
	Notes        string    `bson:"notes,omitempty" json:"notes,omitempty"`
	Prescription string    `bson:"prescription,omitempty" json:"prescription,omitempty"`
	Urgent       bool      `bson:"urgent,omitempty" json:"urgent,omitempty"`
	CancelReason string    `bson:"cancel_reason,omitempty" json:"cancel_reason,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

// ScheduledAt combines the appointment's date and time into a moment in the
// deployment timezone.
func (a *Appointment) ScheduledAt() time.Time {
	day, err := time.ParseInLocation("2006-01-02", a.Date, time.Local)
	if err != nil {
		return time.Time{}
	}
	return day.Add(time.Duration(a.TimeMinute) * time.Minute)
}

// IsUpcoming reports whether the appointment is non-terminal and still in
// the future.
func (a *Appointment) IsUpcoming(now time.Time) bool {
	return a.ScheduledAt().After(now) && !IsTerminalStatus(a.Status)
}

// CanCancel reports whether the appointment may still be cancelled at the
// given moment: non-terminal and more than CancelLeadTime before the
// scheduled time.
func (a *Appointment) CanCancel(now time.Time) bool {
	return !IsTerminalStatus(a.Status) && a.ScheduledAt().Sub(now) > CancelLeadTime
}

// BookingRequest is the payload for booking an appointment. The patient is
// always the authenticated principal.
type BookingRequest struct {
	DoctorID   string `json:"doctor_id" binding:"required"`
	WindowID   string `json:"window_id" binding:"required"`
	Date       string `json:"date" binding:"required"` // "2006-01-02"
	TimeMinute int    `json:"time_minute" binding:"min=0,max=1439"`
	Symptoms   string `json:"symptoms"`
	Urgent     bool   `json:"urgent"`
}

// CompleteRequest carries the optional clinical artifacts attached when a
// staff member completes an appointment.
type CompleteRequest struct {
	Prescription string `json:"prescription"`
	Notes        string `json:"notes"`
}

// CancelRequest carries the optional cancellation reason.
type CancelRequest struct {
	Reason string `json:"reason"`
}
