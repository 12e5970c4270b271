package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NDQnhat/realestatepro-api/internal/config"
	"github.com/NDQnhat/realestatepro-api/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestAllowedOrigins(t *testing.T) {
	cfg := config.Default()
	cfg.FrontendURL = "https://realestatepro.vn/"
	cfg.CORSOrigins = " https://admin.realestatepro.vn, http://localhost:5173,,https://realestatepro.vn"

	assert.Equal(t, []string{
		"http://localhost:5173",
		"https://realestatepro.vn",
		"https://admin.realestatepro.vn",
	}, allowedOrigins(cfg))

	assert.Equal(t, []string{devOrigin}, allowedOrigins(nil))
}

func TestSecurityHeaders(t *testing.T) {
	setup(t)
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/", whoAmI)

	w := do(r, "")
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
	assert.Empty(t, w.Header().Get("Cache-Control"))

	w = do(r, "anything")
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	config.AppConfig.Env = "production"
	r = gin.New()
	r.Use(SecurityHeaders())
	r.GET("/", whoAmI)
	assert.NotEmpty(t, do(r, "").Header().Get("Strict-Transport-Security"))
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	setup(t)
	r := gin.New()
	r.Use(LoggingMiddleware())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextRequestID))
	})

	w := do(r, "")
	generated := w.Header().Get(RequestIDHeader)
	assert.True(t, utils.IsUUID(generated))
	assert.Equal(t, generated, w.Body.String())

	inbound := utils.GenerateID()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, inbound)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, inbound, w.Header().Get(RequestIDHeader))

	req, _ = http.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "not-an-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "not-an-id", w.Header().Get(RequestIDHeader))
}
