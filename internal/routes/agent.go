package routes

import (
	"github.com/NDQnhat/realestatepro-api/internal/handlers"
	"github.com/NDQnhat/realestatepro-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterAgentRoutes(r gin.IRouter) {
	agents := r.Group("/agents")
	{
		agents.GET("", handlers.ListAgents)
		agents.GET("/by-email", handlers.GetAgentByEmail)
		agents.GET("/:id", handlers.GetAgent)

		agents.POST("", middleware.AuthMiddleware(), handlers.CreateAgent)
		agents.PUT("/:id", middleware.AuthMiddleware(), handlers.UpdateAgent)
		agents.DELETE("/:id", middleware.AuthMiddleware(), handlers.DeleteAgent)
	}
}
