package user

import (
	"context"
	"sync"
	"testing"

	"clinicbook/models"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*models.User{}}
}

func (r *memUserRepo) GetByID(id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *memUserRepo) GetByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByUsername(username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByTokenHash(hash string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.TokenHash == hash && hash != "" {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Create(u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) Update(u *models.User) error {
	return r.Create(u)
}

func (r *memUserRepo) SetTokenHash(id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.TokenHash = hash
	}
	return nil
}

func (r *memUserRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

type memDoctorRepo struct {
	mu      sync.Mutex
	doctors map[string]*models.Doctor
}

func newMemDoctorRepo() *memDoctorRepo {
	return &memDoctorRepo{doctors: map[string]*models.Doctor{}}
}

func (r *memDoctorRepo) GetByID(id string) (*models.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.doctors[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

func (r *memDoctorRepo) GetByUserID(userID string) (*models.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.doctors {
		if d.UserID == userID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memDoctorRepo) GetAll() ([]models.Doctor, error) { return nil, nil }

func (r *memDoctorRepo) GetBySpecialization(string) ([]models.Doctor, error) { return nil, nil }

func (r *memDoctorRepo) Create(d *models.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *d
	r.doctors[d.ID] = &cp
	return nil
}

func (r *memDoctorRepo) Update(d *models.Doctor) error { return r.Create(d) }

func (r *memDoctorRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.doctors, id)
	return nil
}

type memWindowRepo struct {
	mu      sync.Mutex
	windows map[string]*models.AvailabilityWindow
}

func newMemWindowRepo() *memWindowRepo {
	return &memWindowRepo{windows: map[string]*models.AvailabilityWindow{}}
}

func (r *memWindowRepo) GetByID(id string) (*models.AvailabilityWindow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok := r.windows[id]; ok {
		cp := *w
		return &cp, nil
	}
	return nil, nil
}

func (r *memWindowRepo) ListByDoctor(doctorID string) ([]models.AvailabilityWindow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AvailabilityWindow
	for _, w := range r.windows {
		if w.DoctorID == doctorID {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (r *memWindowRepo) ListAvailable(string, int) ([]models.AvailabilityWindow, error) {
	return nil, nil
}

func (r *memWindowRepo) Create(w *models.AvailabilityWindow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *w
	r.windows[w.ID] = &cp
	return nil
}

func (r *memWindowRepo) Update(w *models.AvailabilityWindow) error { return r.Create(w) }

func (r *memWindowRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.windows, id)
	return nil
}

func (r *memWindowRepo) DeleteByDoctor(doctorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, w := range r.windows {
		if w.DoctorID == doctorID {
			delete(r.windows, id)
		}
	}
	return nil
}

type memApptRepo struct {
	mu    sync.Mutex
	appts map[string]*models.Appointment
}

func newMemApptRepo() *memApptRepo {
	return &memApptRepo{appts: map[string]*models.Appointment{}}
}

func (r *memApptRepo) GetByID(id string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.appts[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (r *memApptRepo) ListByPatient(string) ([]models.Appointment, error) { return nil, nil }

func (r *memApptRepo) ListByDoctor(doctorID string) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, a := range r.appts {
		if a.DoctorID == doctorID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *memApptRepo) ListAll() ([]models.Appointment, error) { return nil, nil }

func (r *memApptRepo) CountActiveForWindow(string, string) (int, error) { return 0, nil }

func (r *memApptRepo) HasCompleted(string, string) (bool, error) { return false, nil }

func (r *memApptRepo) BookAtomically(_ context.Context, appt *models.Appointment, _ int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *appt
	r.appts[appt.ID] = &cp
	return nil
}

func (r *memApptRepo) UpdateStatus(appt *models.Appointment, fromStatus string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
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

func newTestService() (*Service, *memUserRepo, *memDoctorRepo, *memWindowRepo, *memApptRepo) {
	users := newMemUserRepo()
	doctors := newMemDoctorRepo()
	windows := newMemWindowRepo()
	appts := newMemApptRepo()
	return NewService(users, doctors, windows, appts, nil), users, doctors, windows, appts
}

func TestRemoveDoctorCascades(t *testing.T) {
	svc, users, doctors, windows, appts := newTestService()

	_ = users.Create(&models.User{ID: "u-doc", Username: "drjones", Role: models.RoleDoctor})
	_ = doctors.Create(&models.Doctor{ID: "doc-1", UserID: "u-doc", Specialization: "cardiology"})
	_ = windows.Create(&models.AvailabilityWindow{ID: "win-1", DoctorID: "doc-1"})
	_ = windows.Create(&models.AvailabilityWindow{ID: "win-2", DoctorID: "doc-1"})
	_ = appts.BookAtomically(context.Background(), &models.Appointment{ID: "appt-1", DoctorID: "doc-1"}, 1)

	// Unrelated doctor data must survive the cascade.
	_ = users.Create(&models.User{ID: "u-other", Username: "drsmith", Role: models.RoleDoctor})
	_ = doctors.Create(&models.Doctor{ID: "doc-2", UserID: "u-other", Specialization: "dermatology"})
	_ = windows.Create(&models.AvailabilityWindow{ID: "win-3", DoctorID: "doc-2"})

	staff := &models.Principal{UserID: "u-staff", Role: models.RoleStaff}
	if err := svc.RemoveDoctor(staff, "doc-1"); err != nil {
		t.Fatalf("RemoveDoctor: %v", err)
	}

	if d, _ := doctors.GetByID("doc-1"); d != nil {
		t.Error("doctor profile still present after removal")
	}
	if u, _ := users.GetByID("u-doc"); u != nil {
		t.Error("owning account still present after removal")
	}
	if ws, _ := windows.ListByDoctor("doc-1"); len(ws) != 0 {
		t.Errorf("expected no windows for removed doctor, got %d", len(ws))
	}
	if as, _ := appts.ListByDoctor("doc-1"); len(as) != 0 {
		t.Errorf("expected no appointments for removed doctor, got %d", len(as))
	}

	if d, _ := doctors.GetByID("doc-2"); d == nil {
		t.Error("unrelated doctor was removed")
	}
	if ws, _ := windows.ListByDoctor("doc-2"); len(ws) != 1 {
		t.Errorf("unrelated doctor's windows changed, got %d", len(ws))
	}
}

func TestRemoveDoctorRequiresStaff(t *testing.T) {
	svc, users, doctors, _, _ := newTestService()
	_ = users.Create(&models.User{ID: "u-doc", Role: models.RoleDoctor})
	_ = doctors.Create(&models.Doctor{ID: "doc-1", UserID: "u-doc"})

	self := &models.Principal{UserID: "u-doc", Role: models.RoleDoctor, DoctorID: "doc-1"}
	err := svc.RemoveDoctor(self, "doc-1")
	if !models.IsKind(err, models.ErrKindPermission) {
		t.Fatalf("expected permission error, got %v", err)
	}
	if d, _ := doctors.GetByID("doc-1"); d == nil {
		t.Error("doctor removed despite permission failure")
	}
}

func TestRemoveDoctorUnknown(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	staff := &models.Principal{UserID: "u-staff", Role: models.RoleStaff}
	err := svc.RemoveDoctor(staff, "nope")
	if !models.IsKind(err, models.ErrKindNotFound) {
		t.Fatalf("expected not_found error, got %v", err)
	}
}
