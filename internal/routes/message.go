package routes

import (
	"github.com/NDQnhat/realestatepro-api/internal/handlers"
	"github.com/NDQnhat/realestatepro-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterMessageRoutes(r gin.IRouter) {
	messages := r.Group("/messages")
	{
		protected := messages.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.POST("", middleware.MessageRateLimit(), handlers.SendMessage)
			protected.GET("/my-messages", handlers.GetMyMessages)
			protected.PATCH("/:id/read", handlers.MarkMessageRead)
			protected.DELETE("/:id", handlers.DeleteMessage)
		}

		// Agent tools authenticate by agent email
		messages.POST("/from-agent", middleware.MessageRateLimit(), handlers.SendMessageFromAgent)
		messages.GET("/sent-by-agent", handlers.GetMessagesSentByAgent)
		messages.GET("/agent-contacts", handlers.GetAgentContacts)
		messages.GET("/for-agent", handlers.GetMessagesForAgent)
		messages.DELETE("/agent/:id", handlers.DeleteMessageByAgent)
	}
}
