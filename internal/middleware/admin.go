package middleware

import (
	"net/http"

	"github.com/NDQnhat/realestatepro-api/internal/models"
	apperrors "github.com/NDQnhat/realestatepro-api/pkg/errors"
	"github.com/gin-gonic/gin"
)

// RequireRole allows the request through only when the token's role is one
// of roles. It must run after AuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextRole)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apperrors.ErrUnauthorized)
			return
		}
		for _, r := range roles {
			if role == string(r) {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, apperrors.ErrForbidden)
	}
}

// AdminOnly restricts access to admin tokens.
func AdminOnly() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin)
}
