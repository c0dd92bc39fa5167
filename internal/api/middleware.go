package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/volunteer-hours-api/internal/models"
	"github.com/volunteer-hours-api/internal/service"
)

const profileKey = "profile"

// authMiddleware resolves the bearer token to a profile and stores it on the context
func authMiddleware(auth service.AuthService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token format"})
			return
		}

		profile, err := auth.Authenticate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			respondError(c, log, err)
			c.Abort()
			return
		}

		c.Set(profileKey, profile)
		c.Next()
	}
}

// adminOnly rejects callers whose profile does not hold the admin role.
// Services re-check the role against the store on every decision.
func adminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !profileFrom(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}

// profileFrom returns the authenticated profile, or nil on public routes
func profileFrom(c *gin.Context) *models.Profile {
	v, ok := c.Get(profileKey)
	if !ok {
		return nil
	}
	p, _ := v.(*models.Profile)
	return p
}
