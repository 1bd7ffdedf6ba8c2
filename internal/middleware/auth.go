package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/duo_finder/internal/security"
	"github.com/mroshb/duo_finder/pkg/errors"
)

const userIDKey = "user_id"

// RequireAuth accepts an HS256 bearer token whose subject is the user id.
// EventSource clients cannot set headers, so a token query parameter is
// accepted as well.
func RequireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abortUnauthorized(c, "missing or invalid token")
			return
		}
		claims, err := security.ValidateJWT(token, secret)
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}
		c.Set(userIDKey, claims.UserID())
		c.Next()
	}
}

// UserID returns the authenticated user, or "" outside RequireAuth.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return c.Query("token")
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{"message": message, "code": errors.ErrCodeUnauthorized},
	})
}
