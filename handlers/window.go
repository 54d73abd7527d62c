package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clinicbook/middleware"
	"clinicbook/models"
	availabilityService "clinicbook/services/availability"
	"clinicbook/utils"
)

// AddWindowHandler creates an availability window for the doctor in the
// path. Only the owning doctor or staff may call it.
func AddWindowHandler(svc *availabilityService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)

		var req models.WindowRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
			return
		}

		window, err := svc.AddWindow(p, c.Param("doctorId"), &req)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, window)
	}
}

// UpdateWindowHandler modifies an existing window.
func UpdateWindowHandler(svc *availabilityService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)

		var req models.WindowRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
			return
		}

		window, err := svc.UpdateWindow(p, c.Param("id"), &req)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, window)
	}
}

// DeleteWindowHandler removes a window.
func DeleteWindowHandler(svc *availabilityService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)
		if err := svc.DeleteWindow(p, c.Param("id")); err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Window deleted"})
	}
}

// ListWindowsHandler lists a doctor's windows.
func ListWindowsHandler(svc *availabilityService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		windows, err := svc.ListWindows(c.Param("doctorId"))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, windows)
	}
}

// AvailabilityHandler reports a doctor's open windows and remaining
// capacity for the "date" query parameter.
func AvailabilityHandler(svc *availabilityService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		date := c.Query("date")
		if date == "" {
			utils.JSONError(c, http.StatusBadRequest, "Invalid request", "date query parameter is required")
			return
		}
		capacities, err := svc.ListAvailableOn(c.Param("doctorId"), date)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, capacities)
	}
}
