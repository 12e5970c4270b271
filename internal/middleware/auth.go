package middleware

import (
	"net/http"
	"strings"

	"github.com/NDQnhat/realestatepro-api/internal/revocation"
	"github.com/NDQnhat/realestatepro-api/pkg/logger"
	"github.com/NDQnhat/realestatepro-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middlewares.
const (
	ContextUserID = "userId"
	ContextRole   = "role"
	ContextClaims = "claims"
)

func bearerToken(c *gin.Context) string {
	parts := strings.Fields(c.GetHeader("Authorization"))
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// authenticate validates the bearer token and checks it against the
// revocation store. It returns the claims or a client-facing message.
func authenticate(c *gin.Context, store revocation.Store) (*utils.Claims, string) {
	token := bearerToken(c)
	if token == "" {
		return nil, "Không có token"
	}
	claims, err := utils.ValidateToken(token)
	if err != nil {
		return nil, "Token không hợp lệ hoặc đã hết hạn"
	}
	revoked, err := store.IsRevoked(c.Request.Context(), claims.GetJTI())
	if err != nil {
		// an unreachable store must not let revoked tokens through
		logger.Error().Err(err).Msg("Revocation lookup failed")
		return nil, "Không thể xác thực token"
	}
	if revoked {
		return nil, "Token đã bị thu hồi"
	}
	return claims, ""
}

func setIdentity(c *gin.Context, claims *utils.Claims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextRole, claims.Role)
	c.Set(ContextClaims, claims)
}

// AuthMiddleware rejects requests without a valid, unrevoked session token.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, msg := authenticate(c, revocation.Default)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msg})
			return
		}
		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware sets the identity only when a valid token is
// present. Missing, invalid and revoked tokens all continue as anonymous.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, _ := authenticate(c, revocation.Default); claims != nil {
			setIdentity(c, claims)
		}
		c.Next()
	}
}
