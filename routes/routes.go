package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"clinicbook/handlers"
	"clinicbook/middleware"
	"clinicbook/models"
)

// authn builds the standard auth chain from the bundle's repos.
func authn(hb *handlers.HandlerBundle) gin.HandlerFunc {
	return middleware.JWTAuthMiddleware(hb.UserRepo, hb.DoctorRepo)
}

// RegisterAuthRoutes registers account and session endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.Register)
		api.POST("/login", hb.Login)

		// Protected routes (Require Authentication)
		api.Use(authn(hb))
		api.POST("/logout", hb.Logout)
		api.GET("/me", hb.Me)
		api.PUT("/me", hb.UpdateProfile)
	}
}

// RegisterDoctorRoutes registers the public doctor directory, including
// each doctor's windows, availability, reviews and rating stats.
func RegisterDoctorRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/doctors")
	{
		api.GET("", hb.ListDoctors)
		api.GET("/:doctorId", hb.GetDoctor)
		api.GET("/:doctorId/windows", hb.ListWindows)
		api.GET("/:doctorId/availability", hb.Availability)
		api.GET("/:doctorId/reviews", hb.DoctorReviews)
		api.GET("/:doctorId/stats", hb.DoctorStats)

		// Window management requires the owning doctor or staff.
		api.POST("/:doctorId/windows", authn(hb), hb.AddWindow)

		// Off-boarding is a staff operation.
		api.DELETE("/:doctorId", authn(hb), middleware.RequireRole(models.RoleStaff), hb.RemoveDoctor)
	}
}

// RegisterWindowRoutes registers direct window mutation endpoints.
func RegisterWindowRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/windows")
	{
		api.Use(authn(hb))
		api.PUT("/:id", hb.UpdateWindow)
		api.DELETE("/:id", hb.DeleteWindow)
	}
}

// RegisterAppointmentRoutes registers the booking and lifecycle endpoints.
func RegisterAppointmentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/appointments")
	{
		api.Use(authn(hb))
		api.POST("", hb.BookAppointment)
		api.GET("", hb.ListAppointments)
		api.GET("/:id", hb.GetAppointment)
		api.POST("/:id/confirm", hb.ConfirmAppointment)
		api.POST("/:id/cancel", hb.CancelAppointment)
		api.POST("/:id/complete", hb.CompleteAppointment)
		api.POST("/:id/no-show", hb.NoShowAppointment)
	}
}

// RegisterReviewRoutes registers review submission and moderation.
func RegisterReviewRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/reviews")
	{
		api.Use(authn(hb))
		api.POST("", hb.SubmitReview)
		api.GET("", middleware.RequireRole(models.RoleStaff), hb.ListReviews)
		api.POST("/:id/approve", middleware.RequireRole(models.RoleStaff), hb.ApproveReview)
		api.DELETE("/:id", middleware.RequireRole(models.RoleStaff), hb.DeleteReview)
	}
}

// RegisterHealthRoute registers the health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb)
	RegisterDoctorRoutes(r, hb)
	RegisterWindowRoutes(r, hb)
	RegisterAppointmentRoutes(r, hb)
	RegisterReviewRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
