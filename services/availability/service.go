// Package availability manages doctors' recurring weekly windows and
// exposes per-date capacity views built from live appointment counts.
package availability

import (
	"time"

	"github.com/google/uuid"

	appointmentRepo "clinicbook/database/repository/appointment"
	doctorRepo "clinicbook/database/repository/doctor"
	windowRepo "clinicbook/database/repository/window"
	"clinicbook/models"
	"clinicbook/services/policy"
	"clinicbook/services/scheduling"
)

// Service manages availability windows.
type Service struct {
	Windows      windowRepo.WindowRepository
	Doctors      doctorRepo.DoctorRepository
	Appointments appointmentRepo.AppointmentRepository
}

// NewService builds an availability Service.
func NewService(
	windows windowRepo.WindowRepository,
	doctors doctorRepo.DoctorRepository,
	appts appointmentRepo.AppointmentRepository,
) *Service {
	return &Service{Windows: windows, Doctors: doctors, Appointments: appts}
}

// AddWindow creates a new availability window for a doctor after checking
// ownership and overlap against the doctor's existing windows.
func (s *Service) AddWindow(p *models.Principal, doctorID string, req *models.WindowRequest) (*models.AvailabilityWindow, error) {
	if err := policy.AllowWindowManage(p, doctorID); err != nil {
		return nil, err
	}
	doctor, err := s.Doctors.GetByID(doctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, models.NewNotFoundError("doctor not found")
	}

	window := &models.AvailabilityWindow{
		ID:          uuid.New().String(),
		DoctorID:    doctorID,
		DayOfWeek:   req.DayOfWeek,
		StartMinute: req.StartMinute,
		EndMinute:   req.EndMinute,
		Available:   true,
		MaxPatients: req.MaxPatients,
	}
	if req.Available != nil {
		window.Available = *req.Available
	}
	if window.MaxPatients < 1 {
		window.MaxPatients = 1
	}

	existing, err := s.Windows.ListByDoctor(doctorID)
	if err != nil {
		return nil, err
	}
	if err := scheduling.CheckOverlap(window, existing); err != nil {
		return nil, err
	}
	if err := s.Windows.Create(window); err != nil {
		return nil, err
	}
	return window, nil
}

// UpdateWindow modifies an existing window, re-running the overlap check
// with the window itself excluded.
func (s *Service) UpdateWindow(p *models.Principal, windowID string, req *models.WindowRequest) (*models.AvailabilityWindow, error) {
	window, err := s.loadWindow(windowID)
	if err != nil {
		return nil, err
	}
	if err := policy.AllowWindowManage(p, window.DoctorID); err != nil {
		return nil, err
	}

	window.DayOfWeek = req.DayOfWeek
	window.StartMinute = req.StartMinute
	window.EndMinute = req.EndMinute
	if req.Available != nil {
		window.Available = *req.Available
	}
	if req.MaxPatients >= 1 {
		window.MaxPatients = req.MaxPatients
	}

	existing, err := s.Windows.ListByDoctor(window.DoctorID)
	if err != nil {
		return nil, err
	}
	if err := scheduling.CheckOverlap(window, existing); err != nil {
		return nil, err
	}
	if err := s.Windows.Update(window); err != nil {
		return nil, err
	}
	return window, nil
}

// DeleteWindow removes a window. Existing appointments keep their snapshot
// of date and time and are unaffected.
func (s *Service) DeleteWindow(p *models.Principal, windowID string) error {
	window, err := s.loadWindow(windowID)
	if err != nil {
		return err
	}
	if err := policy.AllowWindowManage(p, window.DoctorID); err != nil {
		return err
	}
	return s.Windows.Delete(windowID)
}

// ListWindows returns every window of a doctor, ordered by day and start.
func (s *Service) ListWindows(doctorID string) ([]models.AvailabilityWindow, error) {
	return s.Windows.ListByDoctor(doctorID)
}

// ListAvailableOn returns the doctor's open windows for a calendar date
// together with remaining capacity, so clients can offer only bookable
// slots.
func (s *Service) ListAvailableOn(doctorID, date string) ([]models.WindowCapacity, error) {
	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return nil, models.NewValidationError("invalid date %q, want YYYY-MM-DD", date)
	}
	windows, err := s.Windows.ListAvailable(doctorID, int(day.Weekday()))
	if err != nil {
		return nil, err
	}
	capacities := make([]models.WindowCapacity, 0, len(windows))
	for i := range windows {
		w := &windows[i]
		booked, err := s.Appointments.CountActiveForWindow(w.ID, date)
		if err != nil {
			return nil, err
		}
		capacities = append(capacities, models.WindowCapacity{
			WindowID:  w.ID,
			Date:      date,
			Capacity:  w.MaxPatients,
			Booked:    booked,
			Remaining: scheduling.RemainingCapacity(w, booked),
		})
	}
	return capacities, nil
}

func (s *Service) loadWindow(windowID string) (*models.AvailabilityWindow, error) {
	window, err := s.Windows.GetByID(windowID)
	if err != nil {
		return nil, err
	}
	if window == nil {
		return nil, models.NewNotFoundError("availability window not found")
	}
	return window, nil
}
