package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clinicbook/middleware"
	"clinicbook/models"
	userService "clinicbook/services/user"
	"clinicbook/utils"
)

// RegisterHandler handles account registration for patients and doctors.
func RegisterHandler(svc *userService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		var req models.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
			return
		}

		resp, err := svc.Register(&req)
		if err != nil {
			logger.Warn("Registration failed", zap.String("username", req.Username), zap.Error(err))
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, resp)
	}
}

// LoginHandler authenticates by username or email and returns a session
// token.
func LoginHandler(svc *userService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		var req struct {
			Username string `json:"username"`
			Email    string `json:"email"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
			return
		}
		identifier := req.Username
		if identifier == "" {
			identifier = req.Email
		}

		resp, err := svc.Authenticate(identifier, req.Password)
		if err != nil {
			logger.Warn("Login failed", zap.String("identifier", identifier))
			c.JSON(http.StatusUnauthorized, utils.ErrorResponse{Error: "Invalid credentials"})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// LogoutHandler revokes the principal's session token.
func LogoutHandler(svc *userService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)
		if err := svc.Logout(p.UserID); err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}

// MeHandler returns the principal's own account.
func MeHandler(svc *userService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)
		user, err := svc.Get(p.UserID)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// UpdateProfileHandler updates the principal's own contact details.
func UpdateProfileHandler(svc *userService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)

		var req models.User
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
			return
		}

		user, err := svc.UpdateProfile(p, &req)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
