package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NDQnhat/realestatepro-api/internal/config"
	"github.com/NDQnhat/realestatepro-api/internal/models"
	"github.com/NDQnhat/realestatepro-api/internal/revocation"
	apperrors "github.com/NDQnhat/realestatepro-api/pkg/errors"
	"github.com/NDQnhat/realestatepro-api/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func setup(t *testing.T) *revocation.MemoryStore {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.AppConfig = config.Default()
	config.AppConfig.JWTSecret = "test_secret_key_12345"

	store := revocation.NewMemoryStore(0)
	prev := revocation.Default
	revocation.Default = store
	t.Cleanup(func() { revocation.Default = prev })
	return store
}

func whoAmI(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"id": c.GetString(ContextUserID), "role": c.GetString(ContextRole)})
}

func do(r http.Handler, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func messageOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	msg, _ := body["message"].(string)
	return msg
}

func TestAuthMiddleware(t *testing.T) {
	store := setup(t)
	r := gin.New()
	r.GET("/", AuthMiddleware(), whoAmI)

	w := do(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, messageOf(t, w))

	assert.Equal(t, http.StatusUnauthorized, do(r, "garbage").Code)

	token, err := utils.GenerateToken("user-1", "user")
	require.NoError(t, err)
	w = do(r, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"user-1"`)

	claims, err := utils.ValidateToken(token)
	require.NoError(t, err)
	require.NoError(t, store.Revoke(context.Background(), claims.GetJTI(), claims.ExpiresAtTime()))
	assert.Equal(t, http.StatusUnauthorized, do(r, token).Code)
}

func TestOptionalAuthMiddleware(t *testing.T) {
	store := setup(t)
	r := gin.New()
	r.GET("/", OptionalAuthMiddleware(), whoAmI)

	w := do(r, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":""`)

	token, _ := utils.GenerateToken("user-1", "admin")
	w = do(r, token)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)

	claims, _ := utils.ValidateToken(token)
	require.NoError(t, store.Revoke(context.Background(), claims.GetJTI(), time.Now().Add(time.Hour)))
	w = do(r, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":""`)
}

func TestRequireRole(t *testing.T) {
	setup(t)
	r := gin.New()
	r.GET("/", AuthMiddleware(), RequireRole(models.RoleAdmin), whoAmI)

	user, _ := utils.GenerateToken("u", "user")
	admin, _ := utils.GenerateToken("a", "admin")

	w := do(r, user)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apperrors.ErrForbidden.Message, messageOf(t, w))
	assert.Equal(t, http.StatusOK, do(r, admin).Code)
}

func TestErrorHandlerMiddleware(t *testing.T) {
	setup(t)
	r := gin.New()
	r.Use(ErrorHandlerMiddleware())
	r.GET("/banned", func(c *gin.Context) { _ = c.Error(apperrors.Banned()) })
	r.GET("/boom", func(c *gin.Context) { _ = c.Error(errors.New("pq: connection refused")) })
	r.GET("/panic", func(c *gin.Context) { panic("bad") })

	serve := func(path string) *httptest.ResponseRecorder {
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := serve("/banned")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"message":"`+apperrors.BannedMessage+`","isBanned":true}`, w.Body.String())

	w = serve("/boom")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "pq:")

	w = serve("/panic")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apperrors.ErrInternalServer.Message, messageOf(t, w))
}

func TestRateLimitMiddleware(t *testing.T) {
	setup(t)
	limiter := NewIPRateLimiter(rate.Limit(0.001), 2)
	r := gin.New()
	r.GET("/", RateLimitMiddleware(limiter), whoAmI)

	assert.Equal(t, http.StatusOK, do(r, "").Code)
	assert.Equal(t, http.StatusOK, do(r, "").Code)
	w := do(r, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, apperrors.ErrRateLimit.Message, messageOf(t, w))

	limiter.evictIdle(time.Now().Add(time.Hour))
	assert.Equal(t, http.StatusOK, do(r, "").Code)
}

func TestRateLimitMiddleware_KeysByUser(t *testing.T) {
	setup(t)
	limiter := NewIPRateLimiter(rate.Limit(0.001), 1)
	r := gin.New()
	r.GET("/", OptionalAuthMiddleware(), RateLimitMiddleware(limiter), whoAmI)

	alice, _ := utils.GenerateToken("alice", "user")
	bob, _ := utils.GenerateToken("bob", "user")

	assert.Equal(t, http.StatusOK, do(r, alice).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, alice).Code)
	// same IP, different account
	assert.Equal(t, http.StatusOK, do(r, bob).Code)
	assert.Equal(t, http.StatusOK, do(r, "").Code)
}
