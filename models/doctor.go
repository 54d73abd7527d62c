// models/doctor.go
package models

import "time"

// Doctor specializations.
var Specializations = []string{
	"cardiologist",
	"dentist",
	"dermatologist",
	"pediatrician",
	"orthopedist",
	"neurologist",
}

// IsValidSpecialization reports whether s is one of the supported
// specializations.
func IsValidSpecialization(s string) bool {
	for _, known := range Specializations {
		if s == known {
			return true
		}
	}
	return false
}

// Doctor is the professional profile of a user with the doctor role.
// AverageRating and TotalReviews are derived from approved reviews and are
// never persisted.
type Doctor struct {
	ID             string    `bson:"id" json:"id"`
	UserID         string    `bson:"user_id" json:"user_id"`
	Specialization string    `bson:"specialization" json:"specialization"`
	Phone          string    `bson:"phone" json:"phone"`
	Address        string    `bson:"address" json:"address"`
	Experience     int       `bson:"experience" json:"experience"` // years
	Fee            float64   `bson:"fee" json:"fee"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

// DoctorProfile is the public listing view of a doctor, enriched with the
// derived rating statistics.
type DoctorProfile struct {
	Doctor        Doctor  `json:"doctor"`
	Name          string  `json:"name"`
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int     `json:"total_reviews"`
}
