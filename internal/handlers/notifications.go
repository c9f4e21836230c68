package handlers

import (
	"net/http"
	"time"

	"github.com/esteban572/first-responder-connect-sub000/internal/middleware"
	"github.com/esteban572/first-responder-connect-sub000/internal/services"
	"github.com/esteban572/first-responder-connect-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
)

// GetNotifications GET /notifications
func GetNotifications(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	notifications, err := services.ListNotifications(userID, 50)
	if err != nil {
		logger.Warn().Err(err).Msg("notifications unavailable")
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// GetUnreadCount GET /notifications/unread-count
func GetUnreadCount(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	count, err := services.CountUnreadNotifications(userID)
	if err != nil {
		logger.Warn().Err(err).Msg("notification count unavailable")
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// GetAggregateBadges GET /notifications/aggregate
func GetAggregateBadges(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	badges := services.AggregateBadges(userID, time.Now())

	c.JSON(http.StatusOK, gin.H{
		"notifications": badges.UnreadNotifications,
		"messages":      badges.UnreadMessages,
		"credentials":   badges.ExpiringCredentials,
		"requests":      badges.PendingRequests,
		"total":         badges.Total,
	})
}

// MarkNotificationRead PUT /notifications/:id/read
func MarkNotificationRead(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	notificationID := c.Param("id")

	if err := services.MarkNotificationRead(userID, notificationID); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Marked as read"})
}

// MarkAllNotificationsRead PUT /notifications/read-all
func MarkAllNotificationsRead(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	marked, err := services.MarkAllNotificationsRead(userID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"markedRead": marked})
}

// ClearAllNotifications DELETE /notifications
func ClearAllNotifications(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	cleared, err := services.ClearAllNotifications(userID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cleared": cleared})
}

// DeleteNotification DELETE /notifications/:id
func DeleteNotification(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	notificationID := c.Param("id")

	if err := services.DeleteNotification(userID, notificationID); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}
