package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chargeconnect/charge-api/internal/models"
)

// RequireRole gates a route group to one role. Runs after AuthMiddleware.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		got, exists := c.Get(ContextUserRole)
		if !exists || got.(models.Role) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "role_not_allowed"})
			return
		}
		c.Next()
	}
}
