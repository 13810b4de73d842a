package middleware

import (
	"net/http"
	"strings"

	"github.com/ErlanBelekov/gym-checkin/internal/domain"
	ctxlog "github.com/ErlanBelekov/gym-checkin/internal/log"
	"github.com/ErlanBelekov/gym-checkin/internal/token"
	"github.com/gin-gonic/gin"
)

const (
	errUnauthorized = "Unauthorized"
	errForbidden    = "Forbidden"

	userIDKey = "userID"
	roleKey   = "role"
)

type tokenVerifier interface {
	Verify(raw string) (token.Claims, error)
}

// Auth validates a Bearer JWT and sets "userID" and "role" in the gin context.
func Auth(verifier tokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		claims, err := verifier.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(roleKey, claims.Role)
		c.Request = c.Request.WithContext(ctxlog.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

// RequireRole rejects authenticated users whose role is not role. Must run after Auth.
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if Role(c) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": errForbidden})
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user's ID, "" outside Auth.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// Role returns the authenticated user's role, "" outside Auth.
func Role(c *gin.Context) domain.Role {
	role, _ := c.Get(roleKey)
	r, _ := role.(domain.Role)
	return r
}
