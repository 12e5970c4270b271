package middleware

import (
	"github.com/NDQnhat/realestatepro-api/internal/config"
	"github.com/gin-gonic/gin"
)

var apiHeaders = [][2]string{
	{"X-Frame-Options", "DENY"},
	{"X-Content-Type-Options", "nosniff"},
	{"Referrer-Policy", "strict-origin-when-cross-origin"},
	{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
	{"Permissions-Policy", "geolocation=(), microphone=(), camera=()"},
}

// SecurityHeaders hardens every JSON response. HSTS is only sent in
// production, where the API sits behind TLS.
func SecurityHeaders() gin.HandlerFunc {
	hsts := config.AppConfig != nil && config.AppConfig.Env == "production"
	return func(c *gin.Context) {
		for _, h := range apiHeaders {
			c.Header(h[0], h[1])
		}
		if hsts {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		// session-scoped answers (inbox, profile) must not be cached by proxies
		if c.GetHeader("Authorization") != "" {
			c.Header("Cache-Control", "no-store")
		}
		c.Next()
	}
}
