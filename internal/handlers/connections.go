package handlers

import (
	"net/http"

	"github.com/esteban572/first-responder-connect-sub000/internal/database"
	"github.com/esteban572/first-responder-connect-sub000/internal/middleware"
	"github.com/esteban572/first-responder-connect-sub000/internal/models"
	"github.com/esteban572/first-responder-connect-sub000/internal/services"
	"github.com/esteban572/first-responder-connect-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
)

// RequestConnection POST /users/:id/connect
func RequestConnection(c *gin.Context) {
	senderID := c.MustGet("userId").(string)
	receiverID := c.Param("id")

	conn, err := services.RequestConnection(senderID, receiverID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Connection request sent", "connection": conn})
}

// AcceptConnection POST /users/connection-requests/:id/accept
func AcceptConnection(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	connectionID := c.Param("id")

	if err := services.AcceptConnection(userID, connectionID); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request accepted"})
}

// RejectConnection POST /users/connection-requests/:id/reject
func RejectConnection(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	connectionID := c.Param("id")

	if err := services.RejectConnection(userID, connectionID); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request rejected"})
}

// RemoveConnection DELETE /users/:id/connect
func RemoveConnection(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	otherID := c.Param("id")

	if err := services.RemoveConnection(userID, otherID); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Connection removed"})
}

// CheckConnection GET /users/:id/connect/status
func CheckConnection(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	otherID := c.Param("id")

	state, err := services.CheckConnection(userID, otherID)
	if err != nil {
		logger.Warn().Err(err).Msg("connection status unavailable")
	}

	c.JSON(http.StatusOK, gin.H{"status": state, "connected": state == services.ConnectionStateConnected})
}

// ListConnections GET /users/connections
func ListConnections(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	users, err := services.ListConnections(userID)
	if err != nil {
		logger.Warn().Err(err).Msg("connections unavailable")
	}

	c.JSON(http.StatusOK, gin.H{"connections": users})
}

// ListConnectionRequests GET /users/connection-requests
func ListConnectionRequests(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	requests, err := services.ListPendingRequests(userID)
	if err != nil {
		logger.Warn().Err(err).Msg("connection requests unavailable")
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// BlockUser POST /users/:id/block
func BlockUser(c *gin.Context) {
	blockerID := c.MustGet("userId").(string)
	targetID := c.Param("id")

	if blockerID == targetID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot block yourself"})
		return
	}

	block := models.UserBlock{
		BlockerID: blockerID,
		BlockedID: targetID,
	}
	if err := database.DB.Create(&block).Error; err != nil {
		// The unique pair index makes a repeat block a no-op.
		c.JSON(http.StatusOK, gin.H{"message": "User already blocked"})
		return
	}

	// Blocking severs any existing connection in either direction.
	database.DB.Delete(&models.Connection{},
		"(user_id = ? AND connected_user_id = ?) OR (user_id = ? AND connected_user_id = ?)",
		blockerID, targetID, targetID, blockerID)

	c.JSON(http.StatusOK, gin.H{"message": "User blocked"})
}

// UnblockUser DELETE /users/:id/block
func UnblockUser(c *gin.Context) {
	blockerID := c.MustGet("userId").(string)
	targetID := c.Param("id")

	if err := database.DB.Delete(&models.UserBlock{}, "blocker_id = ? AND blocked_id = ?", blockerID, targetID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unblock user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User unblocked"})
}

// GetBlockedUsers GET /users/blocks
func GetBlockedUsers(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var blocks []models.UserBlock
	if err := database.DB.Where("blocker_id = ?", userID).Find(&blocks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch blocked users"})
		return
	}

	blockedIDs := make([]string, len(blocks))
	for i, b := range blocks {
		blockedIDs[i] = b.BlockedID
	}

	blockedUsers := []models.User{}
	if len(blockedIDs) > 0 {
		database.DB.Where("id IN ?", blockedIDs).Find(&blockedUsers)
	}

	c.JSON(http.StatusOK, gin.H{"blocked": blockedUsers})
}

// GetOnlineUsers GET /users/online
func GetOnlineUsers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"online": database.OnlineUsers()})
}
