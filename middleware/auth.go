// middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	doctorRepo "clinicbook/database/repository/doctor"
	userRepo "clinicbook/database/repository/user"
	"clinicbook/models"
	"clinicbook/utils"
)

// PrincipalKey is the gin context key holding the authenticated principal.
const PrincipalKey = "principal"

// JWTAuthMiddleware validates the bearer token, checks its hash against the
// stored session hash, and attaches a Principal to the request context. For
// doctors the linked profile ID is resolved so downstream policy checks can
// compare against appointment ownership.
func JWTAuthMiddleware(users userRepo.UserRepository, doctors doctorRepo.DoctorRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		// Validate the token signature and expiration.
		token, err := utils.ValidateToken(tokenString)
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		tokenHash := utils.HashToken(tokenString)

		// Fast path: the principal for this session is cached in the auth
		// redis DB. Logout and token rotation invalidate the entry.
		authCache := utils.GetAuthCacheClient()
		if cached, err := utils.GetCachedAuthPrincipal(authCache, tokenHash); err == nil && cached != nil {
			c.Set(PrincipalKey, cached)
			c.Next()
			return
		}

		// A login or logout rotates the stored hash, so stale tokens fail
		// here even before they expire.
		user, err := users.GetByTokenHash(tokenHash)
		if err != nil || user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token mismatch or session expired"})
			return
		}

		principal := &models.Principal{UserID: user.ID, Role: user.Role}
		if user.Role == models.RoleDoctor {
			doctor, err := doctors.GetByUserID(user.ID)
			if err != nil || doctor == nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Doctor profile not found"})
				return
			}
			principal.DoctorID = doctor.ID
		}

		if err := utils.CacheAuthPrincipal(authCache, tokenHash, principal); err != nil {
			zap.L().Warn("failed to cache auth principal", zap.Error(err))
		}

		c.Set(PrincipalKey, principal)
		c.Next()
	}
}

// GetPrincipal extracts the authenticated principal set by
// JWTAuthMiddleware.
func GetPrincipal(c *gin.Context) *models.Principal {
	v, ok := c.Get(PrincipalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*models.Principal)
	return p
}
