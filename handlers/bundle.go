// File: clinicbook/handlers/bundle.go
package handlers

import (
	doctorRepoPkg "clinicbook/database/repository/doctor"
	userRepoPkg "clinicbook/database/repository/user"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct so route
// registration takes a single dependency. The repos are carried for the
// auth middleware.
type HandlerBundle struct {
	UserRepo   userRepoPkg.UserRepository
	DoctorRepo doctorRepoPkg.DoctorRepository

	// Auth endpoints
	Register      gin.HandlerFunc
	Login         gin.HandlerFunc
	Logout        gin.HandlerFunc
	Me            gin.HandlerFunc
	UpdateProfile gin.HandlerFunc

	// Doctor directory endpoints
	ListDoctors   gin.HandlerFunc
	GetDoctor     gin.HandlerFunc
	DoctorReviews gin.HandlerFunc
	DoctorStats   gin.HandlerFunc
	RemoveDoctor  gin.HandlerFunc

	// Availability window endpoints
	AddWindow    gin.HandlerFunc
	UpdateWindow gin.HandlerFunc
	DeleteWindow gin.HandlerFunc
	ListWindows  gin.HandlerFunc
	Availability gin.HandlerFunc

	// Appointment endpoints
	BookAppointment     gin.HandlerFunc
	GetAppointment      gin.HandlerFunc
	ListAppointments    gin.HandlerFunc
	ConfirmAppointment  gin.HandlerFunc
	CancelAppointment   gin.HandlerFunc
	CompleteAppointment gin.HandlerFunc
	NoShowAppointment   gin.HandlerFunc

	// Review endpoints
	SubmitReview  gin.HandlerFunc
	ApproveReview gin.HandlerFunc
	DeleteReview  gin.HandlerFunc
	ListReviews   gin.HandlerFunc

	// Ops endpoints
	Health gin.HandlerFunc
}
