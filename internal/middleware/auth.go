package middleware

import (
	"net/http"
	"strings"

	"taskboard-api/internal/auth"

	"github.com/gin-gonic/gin"
)

// Context keys set by SessionAuth.
const (
	KeyUsername  = "username"
	KeyRole      = "role"
	KeySessionID = "session_id"
)

// Authenticator validates a session token.
type Authenticator interface {
	Authenticate(token string) (*auth.Claims, error)
}

// SessionAuth requires a valid token of an open session, taken from the
// Authorization header or, failing that, the "token" query parameter.
func SessionAuth(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization token is required",
				"code":  "UNAUTHORIZED",
			})
			return
		}

		claims, err := a.Authenticate(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired session",
				"code":  "UNAUTHORIZED",
			})
			return
		}

		// Store session info in context for use in handlers
		c.Set(KeyUsername, claims.Username)
		c.Set(KeyRole, string(claims.Role))
		c.Set(KeySessionID, claims.SessionID())

		c.Next()
	}
}

// bearerToken extracts the token from "Bearer <token>".
func bearerToken(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}
