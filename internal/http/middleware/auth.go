package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"translinka-backend/internal/domain"
)

const (
	userIDKey = "user_id"
	roleKey   = "role"
)

// TokenParser validates a bearer token and returns user id and role.
type TokenParser interface {
	ParseToken(token string) (string, string, error)
}

// Auth requires a valid Bearer token and stores the identity in the
// request context.
func Auth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" || token == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		userID, role, err := parser.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set(userIDKey, userID)
		c.Set(roleKey, role)
		c.Next()
	}
}

// CurrentUserID returns the authenticated user's id, if any.
func CurrentUserID(c *gin.Context) string {
	if v, ok := c.Get(userIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// IsAdmin reports whether the authenticated user has the admin role.
func IsAdmin(c *gin.Context) bool {
	if v, ok := c.Get(roleKey); ok {
		if s, ok := v.(string); ok {
			return s == domain.RoleAdmin
		}
	}
	return false
}
