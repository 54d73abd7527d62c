// models/review.go
package models

import "time"

// Review is a patient's rating of a doctor, gated by a completed
// appointment and published only once approved by staff.
type Review struct {
	ID            string    `bson:"id" json:"id"`
	PatientID     string    `bson:"patient_id" json:"patient_id"`
	DoctorID      string    `bson:"doctor_id" json:"doctor_id"`
	AppointmentID string    `bson:"appointment_id" json:"appointment_id"`
	Rating        int       `bson:"rating" json:"rating"` // 1..5
	Comment       string    `bson:"comment,omitempty" json:"comment,omitempty"`
	Approved      bool      `bson:"approved" json:"approved"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}

// ReviewRequest is the payload for submitting a review.
type ReviewRequest struct {
	DoctorID      string `json:"doctor_id" binding:"required"`
	AppointmentID string `json:"appointment_id" binding:"required"`
	Rating        int    `json:"rating" binding:"required,min=1,max=5"`
	Comment       string `json:"comment"`
}

// StarBucket is one row of a rating distribution.
type StarBucket struct {
	Stars      int     `json:"stars"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// RatingStats is the derived rating summary of a doctor, computed over
// approved reviews only.
type RatingStats struct {
	TotalReviews  int          `json:"total_reviews"`
	AverageRating float64      `json:"average_rating"`
	Breakdown     []StarBucket `json:"rating_breakdown"`
}
