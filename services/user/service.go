// Package user handles account registration, authentication and profile
// management. Doctors get a linked professional profile at registration.
package user

import (
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	appointmentRepo "clinicbook/database/repository/appointment"
	doctorRepo "clinicbook/database/repository/doctor"
	userRepo "clinicbook/database/repository/user"
	windowRepo "clinicbook/database/repository/window"
	"clinicbook/models"
	"clinicbook/utils"
)

// Service manages accounts and sessions, including doctor off-boarding.
type Service struct {
	Users        userRepo.UserRepository
	Doctors      doctorRepo.DoctorRepository
	Windows      windowRepo.WindowRepository
	Appointments appointmentRepo.AppointmentRepository
	// AuthCache holds cached token-hash principals; session revocation
	// clears the matching entry. May be nil when redis is absent.
	AuthCache *redis.Client
}

// NewService builds a user Service.
func NewService(
	users userRepo.UserRepository,
	doctors doctorRepo.DoctorRepository,
	windows windowRepo.WindowRepository,
	appts appointmentRepo.AppointmentRepository,
	authCache *redis.Client,
) *Service {
	return &Service{
		Users:        users,
		Doctors:      doctors,
		Windows:      windows,
		Appointments: appts,
		AuthCache:    authCache,
	}
}

// Register creates a new account and logs it in. Registering with the
// doctor role additionally creates the professional profile, which
// requires a valid specialization.
func (s *Service) Register(req *models.RegisterRequest) (*models.AuthResponse, error) {
	if existing, err := s.Users.GetByEmail(req.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError("email %s is already registered", req.Email)
	}
	if existing, err := s.Users.GetByUsername(req.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError("username %s is already taken", req.Username)
	}
	if req.Role == models.RoleDoctor && !models.IsValidSpecialization(req.Specialty) {
		return nil, models.NewValidationError("unknown specialization %q", req.Specialty)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		NationalCode: req.NationalCode,
		DateOfBirth:  req.DateOfBirth,
		Role:         req.Role,
	}
	if err := s.Users.Create(user); err != nil {
		return nil, err
	}

	var doctor *models.Doctor
	if req.Role == models.RoleDoctor {
		doctor = &models.Doctor{
			ID:             uuid.New().String(),
			UserID:         user.ID,
			Specialization: req.Specialty,
			Phone:          req.Phone,
			Address:        req.Address,
			Experience:     req.Experience,
			Fee:            req.Fee,
		}
		if err := s.Doctors.Create(doctor); err != nil {
			// Roll back the orphaned account so the registration can be
			// retried cleanly.
			_ = s.Users.Delete(user.ID)
			return nil, err
		}
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: *user, Doctor: doctor}, nil
}

// Authenticate verifies credentials and issues a fresh session token. The
// identifier may be a username or an email.
func (s *Service) Authenticate(identifier, password string) (*models.AuthResponse, error) {
	user, err := s.Users.GetByUsername(identifier)
	if err != nil {
		return nil, err
	}
	if user == nil {
		if user, err = s.Users.GetByEmail(identifier); err != nil {
			return nil, err
		}
	}
	if user == nil {
		return nil, models.NewValidationError("invalid username or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, models.NewValidationError("invalid username or password")
	}

	var doctor *models.Doctor
	if user.Role == models.RoleDoctor {
		if doctor, err = s.Doctors.GetByUserID(user.ID); err != nil {
			return nil, err
		}
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: *user, Doctor: doctor}, nil
}

// Logout invalidates the user's current session token and drops its
// cached principal so the session dies immediately.
func (s *Service) Logout(userID string) error {
	user, err := s.Users.GetByID(userID)
	if err != nil {
		return err
	}
	if user != nil {
		s.dropCachedSession(user.TokenHash)
	}
	return s.Users.SetTokenHash(userID, "")
}

// Get retrieves a user by ID.
func (s *Service) Get(userID string) (*models.User, error) {
	user, err := s.Users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("user not found")
	}
	return user, nil
}

// UpdateProfile modifies the principal's own contact and personal fields.
// Identity fields (username, email, role) are immutable here.
func (s *Service) UpdateProfile(p *models.Principal, update *models.User) (*models.User, error) {
	user, err := s.Get(p.UserID)
	if err != nil {
		return nil, err
	}
	user.FirstName = update.FirstName
	user.LastName = update.LastName
	user.Phone = update.Phone
	user.NationalCode = update.NationalCode
	user.DateOfBirth = update.DateOfBirth
	if err := s.Users.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// RemoveDoctor off-boards a doctor: every availability window and
// appointment goes first, then the profile and finally the owning
// account with its session. Staff only.
func (s *Service) RemoveDoctor(p *models.Principal, doctorID string) error {
	if p.Role != models.RoleStaff {
		return models.NewPermissionError("only staff can remove doctors")
	}
	doctor, err := s.Doctors.GetByID(doctorID)
	if err != nil {
		return err
	}
	if doctor == nil {
		return models.NewNotFoundError("doctor not found")
	}

	appts, err := s.Appointments.ListByDoctor(doctorID)
	if err != nil {
		return err
	}
	for i := range appts {
		if err := s.Appointments.Delete(appts[i].ID); err != nil {
			return err
		}
	}
	if err := s.Windows.DeleteByDoctor(doctorID); err != nil {
		return err
	}
	if err := s.Doctors.Delete(doctorID); err != nil {
		return err
	}

	owner, err := s.Users.GetByID(doctor.UserID)
	if err != nil {
		return err
	}
	if owner != nil {
		s.dropCachedSession(owner.TokenHash)
		if err := s.Users.Delete(owner.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) issueToken(user *models.User) (string, error) {
	token, err := utils.GenerateToken(user.ID, user.Email, user.Role, utils.TokenTTL)
	if err != nil {
		return "", err
	}
	// Rotating the hash orphans the previous session; drop its cache
	// entry too so the old token stops working at once.
	s.dropCachedSession(user.TokenHash)
	if err := s.Users.SetTokenHash(user.ID, utils.HashToken(token)); err != nil {
		return "", err
	}
	return token, nil
}

func (s *Service) dropCachedSession(tokenHash string) {
	if s.AuthCache == nil || tokenHash == "" {
		return
	}
	if err := utils.InvalidateAuthPrincipal(s.AuthCache, tokenHash); err != nil {
		zap.L().Warn("failed to invalidate cached session", zap.Error(err))
	}
}
