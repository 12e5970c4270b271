package middleware

import (
	"strings"
	"time"

	"github.com/NDQnhat/realestatepro-api/internal/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const devOrigin = "http://localhost:5173"

// allowedOrigins merges the dev frontend, FRONTEND_URL and the comma
// separated CORS_ORIGINS list, dropping duplicates and trailing slashes.
func allowedOrigins(cfg *config.Config) []string {
	candidates := []string{devOrigin}
	if cfg != nil {
		candidates = append(candidates, cfg.FrontendURL)
		candidates = append(candidates, strings.Split(cfg.CORSOrigins, ",")...)
	}

	seen := make(map[string]bool, len(candidates))
	origins := make([]string, 0, len(candidates))
	for _, o := range candidates {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" || seen[o] {
			continue
		}
		seen[o] = true
		origins = append(origins, o)
	}
	return origins
}

func CORSMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(config.AppConfig),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
