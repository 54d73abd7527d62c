package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clinicbook/models"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Logger := GetLogger()
				Logger.Error("Unhandled panic", zap.Any("error", err))

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Error:   "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	Logger := GetLogger()
	Logger.Warn(message, zap.String("details", details))
	c.JSON(status, ErrorResponse{Error: message, Details: details})
}

// DomainErrorStatus maps a domain error kind to its HTTP status code.
func DomainErrorStatus(kind string) int {
	switch kind {
	case models.ErrKindValidation, models.ErrKindInvalidTransition:
		return http.StatusBadRequest
	case models.ErrKindConflict:
		return http.StatusConflict
	case models.ErrKindPermission:
		return http.StatusForbidden
	case models.ErrKindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// RespondError writes err as a JSON error response. Domain errors keep
// their kind and message; anything else becomes an opaque 500.
func RespondError(c *gin.Context, err error) {
	var de *models.DomainError
	if !errors.As(err, &de) {
		GetLogger().Error("internal error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Internal Server Error",
		})
		return
	}
	c.JSON(DomainErrorStatus(de.Kind), ErrorResponse{Error: de.Message, Kind: de.Kind})
}
