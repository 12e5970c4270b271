package routes

import (
	"github.com/NDQnhat/realestatepro-api/internal/handlers"
	"github.com/NDQnhat/realestatepro-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterUserRoutes(r gin.IRouter) {
	users := r.Group("/users")
	{
		users.GET("", handlers.ListUsers)
		users.POST("", handlers.CreateUser)

		// Specific paths before /:id
		protected := users.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.PUT("/profile/me", handlers.UpdateProfile)
			protected.GET("/password/current", handlers.GetCurrentPassword)
			protected.POST("/password/verify", handlers.VerifyPassword)
			protected.PUT("/password/change", handlers.ChangePassword)
			protected.POST("/password/change", handlers.ChangePassword)

			protected.PUT("/:id", middleware.AdminOnly(), handlers.UpdateUser)
		}
	}
}
