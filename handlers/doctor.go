package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clinicbook/middleware"
	directoryService "clinicbook/services/directory"
	reviewService "clinicbook/services/review"
	userService "clinicbook/services/user"
	"clinicbook/utils"
)

// ListDoctorsHandler lists public doctor profiles, optionally filtered by
// the "specialization" query parameter.
func ListDoctorsHandler(svc *directoryService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		profiles, err := svc.List(c.Query("specialization"))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, profiles)
	}
}

// GetDoctorHandler returns one doctor's public profile.
func GetDoctorHandler(svc *directoryService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, err := svc.Get(c.Param("doctorId"))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

// RemoveDoctorHandler off-boards a doctor together with their windows,
// appointments and account.
func RemoveDoctorHandler(svc *userService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)
		if err := svc.RemoveDoctor(p, c.Param("doctorId")); err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Doctor removed"})
	}
}

// DoctorReviewsHandler lists a doctor's approved reviews.
func DoctorReviewsHandler(svc *reviewService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviews, err := svc.ListForDoctor(c.Param("doctorId"))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, reviews)
	}
}

// DoctorStatsHandler returns a doctor's rating summary computed over
// approved reviews.
func DoctorStatsHandler(svc *reviewService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.StatsForDoctor(c.Param("doctorId"))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
