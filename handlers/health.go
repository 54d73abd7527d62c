package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clinicbook/utils"
)

// HealthHandler reports liveness plus the monitored Mongo and Redis state.
func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		status := utils.GetHealthStatus()
		code := http.StatusOK
		if status.CheckedAt.IsZero() {
			// Monitor has not completed its first pass yet.
			c.JSON(code, status)
			return
		}
		if !status.Mongo {
			code = http.StatusServiceUnavailable
		}
		for _, ok := range status.Redis {
			if !ok {
				code = http.StatusServiceUnavailable
			}
		}
		c.JSON(code, status)
	}
}
