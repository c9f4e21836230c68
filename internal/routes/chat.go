package routes

import (
	"github.com/esteban572/first-responder-connect-sub000/internal/handlers"
	"github.com/esteban572/first-responder-connect-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterChatRoutes(r gin.IRouter) {
	chat := r.Group("/chat")
	chat.Use(middleware.AuthMiddleware())
	{
		chat.GET("/conversations", handlers.GetConversations)
		chat.GET("/messages", handlers.GetMessages) // ?userId=...
		chat.POST("/messages", middleware.ChatRateLimit(), handlers.SendMessage)
		chat.POST("/read/:counterpartId", handlers.MarkThreadRead)
		chat.GET("/unread-count", handlers.GetUnreadMessageCount)
	}
}
