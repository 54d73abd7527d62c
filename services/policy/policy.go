// Package policy centralizes role-based authorization decisions so handlers
// and services never hand-roll role checks.
package policy

import "clinicbook/models"

// Action names an operation a principal may attempt.
type Action string

const (
	ActionView      Action = "view"
	ActionBook      Action = "book"
	ActionConfirm   Action = "confirm"
	ActionCancel    Action = "cancel"
	ActionComplete  Action = "complete"
	ActionNoShow    Action = "no_show"
	ActionModerate  Action = "moderate"
	ActionManage    Action = "manage"
	ActionReview    Action = "review"
)

// AllowAppointment decides whether a principal may perform an action on an
// appointment. Staff can do everything. Patients act only on their own
// appointments and only to view, book or cancel. Doctors act only on
// appointments assigned to them.
func AllowAppointment(p *models.Principal, action Action, appt *models.Appointment) error {
	if p.Role == models.RoleStaff {
		return nil
	}
	switch p.Role {
	case models.RolePatient:
		if appt != nil && appt.PatientID != p.UserID {
			return models.NewPermissionError("you can only access your own appointments")
		}
		switch action {
		case ActionView, ActionBook, ActionCancel:
			return nil
		}
		return models.NewPermissionError("patients cannot %s appointments", action)
	case models.RoleDoctor:
		if appt != nil && appt.DoctorID != p.DoctorID {
			return models.NewPermissionError("you can only access appointments assigned to you")
		}
		switch action {
		case ActionView, ActionConfirm, ActionComplete, ActionNoShow, ActionCancel:
			return nil
		}
		return models.NewPermissionError("doctors cannot %s appointments", action)
	}
	return models.NewPermissionError("unknown role %q", p.Role)
}

// AllowWindowManage decides whether a principal may create, update or
// delete availability windows for a doctor.
func AllowWindowManage(p *models.Principal, doctorID string) error {
	if p.Role == models.RoleStaff {
		return nil
	}
	if p.Role == models.RoleDoctor && p.DoctorID == doctorID {
		return nil
	}
	return models.NewPermissionError("only the owning doctor or staff can manage availability")
}

// AllowReview decides whether a principal may perform a review action.
// Patients submit reviews; staff moderate them.
func AllowReview(p *models.Principal, action Action) error {
	switch action {
	case ActionReview:
		if p.Role == models.RolePatient {
			return nil
		}
		return models.NewPermissionError("only patients can submit reviews")
	case ActionModerate:
		if p.Role == models.RoleStaff {
			return nil
		}
		return models.NewPermissionError("only staff can moderate reviews")
	}
	return models.NewPermissionError("unknown review action %q", action)
}
