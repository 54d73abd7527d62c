package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clinicbook/middleware"
	"clinicbook/models"
	"clinicbook/services/scheduling"
	"clinicbook/utils"
)

// BookAppointmentHandler books a pending appointment for the authenticated
// patient.
func BookAppointmentHandler(engine *scheduling.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)
		p := middleware.GetPrincipal(c)

		var req models.BookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
			return
		}

		appt, err := engine.Book(c.Request.Context(), p, &req)
		if err != nil {
			logger.Info("Booking rejected",
				zap.String("doctor_id", req.DoctorID),
				zap.String("date", req.Date),
				zap.Error(err))
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, appt)
	}
}

// GetAppointmentHandler returns one appointment visible to the principal.
func GetAppointmentHandler(engine *scheduling.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)
		appt, err := engine.Get(c.Request.Context(), p, c.Param("id"))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, appt)
	}
}

// ListAppointmentsHandler lists the appointments visible to the principal.
func ListAppointmentsHandler(engine *scheduling.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)
		appts, err := engine.List(c.Request.Context(), p)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, appts)
	}
}

// ConfirmAppointmentHandler confirms a pending appointment.
func ConfirmAppointmentHandler(engine *scheduling.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)
		appt, err := engine.Confirm(c.Request.Context(), p, c.Param("id"))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, appt)
	}
}

// CancelAppointmentHandler cancels an appointment, honoring the lead-time
// guard. Cancelling twice succeeds without effect.
func CancelAppointmentHandler(engine *scheduling.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)

		var req models.CancelRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
				return
			}
		}

		appt, err := engine.Cancel(c.Request.Context(), p, c.Param("id"), req.Reason)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, appt)
	}
}

// CompleteAppointmentHandler completes a confirmed appointment with the
// doctor's clinical outcome.
func CompleteAppointmentHandler(engine *scheduling.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)

		var req models.CompleteRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
				return
			}
		}

		appt, err := engine.Complete(c.Request.Context(), p, c.Param("id"), &req)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, appt)
	}
}

// NoShowAppointmentHandler flags a missed appointment after its scheduled
// time.
func NoShowAppointmentHandler(engine *scheduling.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)
		appt, err := engine.MarkNoShow(c.Request.Context(), p, c.Param("id"))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, appt)
	}
}
