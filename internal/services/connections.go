package services

import (
	"github.com/esteban572/first-responder-connect-sub000/internal/database"
	"github.com/esteban572/first-responder-connect-sub000/internal/models"
	"github.com/esteban572/first-responder-connect-sub000/internal/realtime"
	apperrors "github.com/esteban572/first-responder-connect-sub000/pkg/errors"
	"gorm.io/gorm"
)

// Connection check results.
const (
	ConnectionStateConnected = "connected"
	ConnectionStatePending   = "pending"
	ConnectionStateNone      = "none"
)

// RequestConnection creates the pending edge from sender to receiver and
// fans out the request notification in the same transaction.
func RequestConnection(senderID, receiverID string) (*models.Connection, error) {
	if senderID == receiverID {
		return nil, apperrors.Validation("Cannot connect with yourself")
	}

	if blocked, err := IsBlockedPair(senderID, receiverID); err != nil {
		return nil, err
	} else if blocked {
		return nil, apperrors.Forbidden("Cannot connect with this user")
	}

	var receiver models.User
	if err := database.DB.Select("id").First(&receiver, "id = ?", receiverID).Error; err != nil {
		return nil, apperrors.NotFound("User not found")
	}

	var existing models.Connection
	err := database.DB.
		Where("(user_id = ? AND connected_user_id = ?) OR (user_id = ? AND connected_user_id = ?)",
			senderID, receiverID, receiverID, senderID).
		First(&existing).Error
	if err == nil {
		if existing.Status == models.ConnectionAccepted {
			return nil, apperrors.Conflict("Already connected")
		}
		return nil, apperrors.Conflict("Connection request already pending")
	}
	if err != gorm.ErrRecordNotFound {
		return nil, apperrors.Transient("connection store unreachable")
	}

	var sender models.User
	if err := database.DB.Select("id", "name", "username").First(&sender, "id = ?", senderID).Error; err != nil {
		return nil, apperrors.NotAuthenticated("Unknown sender")
	}

	conn := models.Connection{
		UserID:          senderID,
		ConnectedUserID: receiverID,
		Status:          models.ConnectionPending,
	}

	var created *models.Notification
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&conn).Error; err != nil {
			return err
		}
		n, err := Emit(tx, ConnectionRequested{
			SenderID:   senderID,
			SenderName: displayName(sender),
			ReceiverID: receiverID,
		})
		if err != nil {
			return err
		}
		created = n
		return nil
	})
	if err != nil {
		return nil, apperrors.Transient("Failed to create connection request")
	}

	if created != nil {
		realtime.PublishNotification(created.UserID, created)
	}
	return &conn, nil
}

// AcceptConnection mutates the pending edge in place; no second edge is
// ever created. The conditional update keeps concurrent accepts
// idempotent.
func AcceptConnection(userID, connectionID string) error {
	var conn models.Connection
	if err := database.DB.First(&conn, "id = ?", connectionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.NotFound("Connection request not found")
		}
		return apperrors.Transient("connection store unreachable")
	}
	if conn.ConnectedUserID != userID {
		return apperrors.Forbidden("Not your connection request")
	}
	if conn.Status != models.ConnectionPending {
		return apperrors.Conflict("Request already handled")
	}

	var accepter models.User
	if err := database.DB.Select("id", "name", "username").First(&accepter, "id = ?", userID).Error; err != nil {
		return apperrors.NotAuthenticated("Unknown user")
	}

	var created *models.Notification
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Connection{}).
			Where("id = ? AND status = ?", connectionID, models.ConnectionPending).
			Update("status", models.ConnectionAccepted)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Raced with another accept; nothing more to do.
			return nil
		}
		n, err := Emit(tx, ConnectionAccepted{
			AccepterID:   userID,
			AccepterName: displayName(accepter),
			RequesterID:  conn.UserID,
		})
		if err != nil {
			return err
		}
		created = n
		return nil
	})
	if err != nil {
		return apperrors.Transient("Failed to accept connection request")
	}

	if created != nil {
		realtime.PublishNotification(created.UserID, created)
	}
	return nil
}

// RejectConnection deletes a pending edge addressed to the user.
func RejectConnection(userID, connectionID string) error {
	var conn models.Connection
	if err := database.DB.First(&conn, "id = ?", connectionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.NotFound("Connection request not found")
		}
		return apperrors.Transient("connection store unreachable")
	}
	if conn.ConnectedUserID != userID {
		return apperrors.Forbidden("Not your connection request")
	}
	if conn.Status != models.ConnectionPending {
		return apperrors.Conflict("Request already handled")
	}
	if err := database.DB.Delete(&conn).Error; err != nil {
		return apperrors.Transient("Failed to reject connection request")
	}
	return nil
}

// RemoveConnection deletes the accepted edge between two users,
// whichever direction it was created in. Idempotent.
func RemoveConnection(userID, otherID string) error {
	err := database.DB.
		Where("((user_id = ? AND connected_user_id = ?) OR (user_id = ? AND connected_user_id = ?)) AND status = ?",
			userID, otherID, otherID, userID, models.ConnectionAccepted).
		Delete(&models.Connection{}).Error
	if err != nil {
		return apperrors.Transient("Failed to remove connection")
	}
	return nil
}

// CheckConnection reports the relationship between two users. Symmetric:
// CheckConnection(a, b) equals CheckConnection(b, a).
func CheckConnection(a, b string) (string, error) {
	var conn models.Connection
	err := database.DB.
		Where("(user_id = ? AND connected_user_id = ?) OR (user_id = ? AND connected_user_id = ?)", a, b, b, a).
		First(&conn).Error
	if err == gorm.ErrRecordNotFound {
		return ConnectionStateNone, nil
	}
	if err != nil {
		return ConnectionStateNone, apperrors.Transient("connection store unreachable")
	}
	if conn.Status == models.ConnectionAccepted {
		return ConnectionStateConnected, nil
	}
	return ConnectionStatePending, nil
}

// ListConnections returns the user's accepted counterparts.
func ListConnections(userID string) ([]models.User, error) {
	var conns []models.Connection
	err := database.DB.Preload("User").Preload("ConnectedUser").
		Where("(user_id = ? OR connected_user_id = ?) AND status = ?", userID, userID, models.ConnectionAccepted).
		Order("updated_at DESC").
		Find(&conns).Error
	if err != nil {
		return []models.User{}, apperrors.Transient("connection store unreachable")
	}

	users := make([]models.User, 0, len(conns))
	for _, c := range conns {
		other := c.ConnectedUser
		if c.ConnectedUserID == userID {
			other = c.User
		}
		other.Password = ""
		users = append(users, other)
	}
	return users, nil
}

// ListPendingRequests returns requests addressed to the user.
func ListPendingRequests(userID string) ([]models.Connection, error) {
	var conns []models.Connection
	err := database.DB.Preload("User").
		Where("connected_user_id = ? AND status = ?", userID, models.ConnectionPending).
		Order("created_at DESC").
		Find(&conns).Error
	if err != nil {
		return []models.Connection{}, apperrors.Transient("connection store unreachable")
	}
	return conns, nil
}
