package utils

import (
	"errors"
	"time"

	"github.com/NDQnhat/realestatepro-api/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "realestatepro-api"

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims carries the subject id and role of a session token. The token is
// self-contained: no server-side session table is consulted to decode it.
type Claims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// GetJTI returns the token's unique id, the key used for revocation.
func (c *Claims) GetJTI() string {
	return c.ID
}

// ExpiresAtTime returns the absolute expiry of the token.
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

func sessionTTL() time.Duration {
	if config.AppConfig != nil && config.AppConfig.SessionTTL > 0 {
		return config.AppConfig.SessionTTL
	}
	return 30 * time.Minute
}

func jwtSecret() []byte {
	if config.AppConfig == nil {
		return []byte(config.Default().JWTSecret)
	}
	return []byte(config.AppConfig.JWTSecret)
}

// GenerateToken signs a short-lived session token for the given identity.
func GenerateToken(userID, role string) (string, error) {
	return generateToken(userID, role, sessionTTL())
}

func generateToken(userID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// ValidateToken checks signature, issuer and expiry.
func ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return jwtSecret(), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
