package jwtmw

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextUserID is the gin context key holding the verified user id.
const ContextUserID = "userID"

const bearerPrefix = "Bearer "

// Verifier verifies a session token and returns its user id.
type Verifier interface {
	Verify(token string) (string, error)
}

// AuthRequired returns a Gin middleware function that validates bearer tokens
// and restricts access to authenticated users only.
func AuthRequired(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get Authorization header
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No token provided"})
			return
		}
		tokenStr := strings.TrimPrefix(auth, bearerPrefix)

		// 2. Verify signature and expiry
		userID, err := v.Verify(tokenStr)
		if err != nil {
			slog.Debug("token verification failed", "error", err, "remote_addr", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		// 3. Pass control to the next handler
		c.Set(ContextUserID, userID)
		c.Next()
	}
}

// UserID returns the user id stored by AuthRequired.
func UserID(c *gin.Context) (string, bool) {
	id := c.GetString(ContextUserID)
	return id, id != ""
}
