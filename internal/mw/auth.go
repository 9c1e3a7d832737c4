package mw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fleet-tracker-backend/internal/auth"
)

// OperatorKey is the gin context key under which the authenticated
// operator's username is stored.
const OperatorKey = "operator"

// RequireOperator validates the Bearer session token and stores the
// operator identity in the request context. Management routes sit
// behind this; the driver-facing submission endpoints do not.
func RequireOperator(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString := strings.TrimPrefix(header, "Bearer ")
		if header == "" || tokenString == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "bearer token required"})
			return
		}

		claims, err := auth.ParseSession(tokenString, jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}

		c.Set(OperatorKey, claims.Username)
		c.Next()
	}
}
