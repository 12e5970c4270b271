package routes

import (
	"github.com/NDQnhat/realestatepro-api/internal/handlers"
	"github.com/NDQnhat/realestatepro-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterPropertyRoutes(r gin.IRouter) {
	properties := r.Group("/properties")
	{
		// owner=me and admin moderation filters need the identity when present
		properties.GET("", middleware.OptionalAuthMiddleware(), handlers.ListProperties)
		properties.GET("/:id", handlers.GetProperty)

		protected := properties.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.POST("", handlers.CreateProperty)
			protected.PUT("/:id", handlers.UpdateProperty)
			protected.DELETE("/:id", handlers.DeleteProperty)
			protected.PATCH("/:id/status", handlers.PatchPropertyStatus)
		}
	}
}
