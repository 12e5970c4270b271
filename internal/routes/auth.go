package routes

import (
	"github.com/NDQnhat/realestatepro-api/internal/handlers"
	"github.com/NDQnhat/realestatepro-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterAuthRoutes(r gin.IRouter) {
	auth := r.Group("/auth")
	auth.Use(middleware.AuthRateLimit())
	{
		auth.POST("/register", handlers.Register)
		auth.POST("/login", handlers.Login)
		auth.POST("/remember", handlers.RememberLogin)
		// logout needs the claims to revoke the jti
		auth.POST("/logout", middleware.AuthMiddleware(), handlers.Logout)
		auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
	}
}
