package routes

import (
	"github.com/NDQnhat/realestatepro-api/internal/handlers"
	"github.com/NDQnhat/realestatepro-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the engine with the global middleware chain, every API
// group under /api and the health probe.
func NewRouter() *gin.Engine {
	r := gin.New()

	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.ErrorHandlerMiddleware())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.GeneralRateLimit())

	api := r.Group("/api")
	{
		RegisterAuthRoutes(api)
		RegisterUserRoutes(api)
		RegisterAgentRoutes(api)
		RegisterPropertyRoutes(api)
		RegisterMessageRoutes(api)
	}

	r.GET("/health", handlers.Health)
	return r
}
