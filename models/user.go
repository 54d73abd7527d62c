// models/user.go
package models

import "time"

// User roles.
const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleStaff   = "staff"
)

// User represents an account on the platform. Doctors additionally own a
// Doctor profile linked through Doctor.UserID.
type User struct {
	ID           string    `bson:"id" json:"id"`
	Username     string    `bson:"username" json:"username"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	FirstName    string    `bson:"first_name,omitempty" json:"first_name,omitempty"`
	LastName     string    `bson:"last_name,omitempty" json:"last_name,omitempty"`
	Phone        string    `bson:"phone,omitempty" json:"phone,omitempty"`
	NationalCode string    `bson:"national_code,omitempty" json:"national_code,omitempty"`
	DateOfBirth  string    `bson:"date_of_birth,omitempty" json:"date_of_birth,omitempty"` // "2006-01-02"
	Role         string    `bson:"role" json:"role"`
	Verified     bool      `bson:"verified" json:"verified"`
	TokenHash    string    `bson:"token_hash,omitempty" json:"-"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

// FullName joins first and last name for display.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "" && u.LastName == "":
		return u.Username
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Principal is the authenticated identity attached to a request by the auth
// middleware. DoctorID is set only for users with the doctor role.
type Principal struct {
	UserID   string `json:"user_id"`
	Role     string `json:"role"`
	DoctorID string `json:"doctor_id,omitempty"`
}

// RegisterRequest is the payload for account registration. Doctor fields are
// required when role is "doctor".
type RegisterRequest struct {
	Username     string  `json:"username" binding:"required"`
	Password     string  `json:"password" binding:"required"`
	Email        string  `json:"email" binding:"required,email"`
	Role         string  `json:"role" binding:"required,oneof=patient doctor"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Phone        string  `json:"phone"`
	NationalCode string  `json:"national_code"`
	DateOfBirth  string  `json:"date_of_birth"`
	Specialty    string  `json:"specialization"`
	Address      string  `json:"address"`
	Experience   int     `json:"experience"`
	Fee          float64 `json:"fee"`
}

// AuthResponse is returned after a successful login or registration.
type AuthResponse struct {
	Token  string  `json:"token"`
	User   User    `json:"user"`
	Doctor *Doctor `json:"doctor,omitempty"`
}
