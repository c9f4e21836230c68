package routes

import (
	"github.com/esteban572/first-responder-connect-sub000/internal/handlers"
	"github.com/esteban572/first-responder-connect-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterNotificationRoutes(r gin.IRouter) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())
	{
		notifications.GET("", handlers.GetNotifications)
		notifications.GET("/unread-count", handlers.GetUnreadCount)
		notifications.GET("/aggregate", handlers.GetAggregateBadges)
		notifications.PUT("/:id/read", handlers.MarkNotificationRead)
		notifications.PUT("/read-all", handlers.MarkAllNotificationsRead)
		notifications.DELETE("", handlers.ClearAllNotifications)
		notifications.DELETE("/:id", handlers.DeleteNotification)
	}
}
