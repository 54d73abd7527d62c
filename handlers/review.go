package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clinicbook/middleware"
	"clinicbook/models"
	reviewService "clinicbook/services/review"
	"clinicbook/utils"
)

// SubmitReviewHandler records a patient's review of a doctor, gated by a
// completed appointment.
func SubmitReviewHandler(svc *reviewService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)

		var req models.ReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
			return
		}

		review, err := svc.Submit(c.Request.Context(), p, &req)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, review)
	}
}

// ApproveReviewHandler publishes a pending review. Staff only.
func ApproveReviewHandler(svc *reviewService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)
		review, err := svc.Approve(p, c.Param("id"))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, review)
	}
}

// DeleteReviewHandler removes a review. Staff only.
func DeleteReviewHandler(svc *reviewService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)
		if err := svc.Remove(p, c.Param("id")); err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
	}
}

// ListReviewsHandler lists every review for moderation. Staff only.
func ListReviewsHandler(svc *reviewService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)
		reviews, err := svc.ListAll(p)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, reviews)
	}
}
