package services

import (
	"fmt"

	"github.com/esteban572/first-responder-connect-sub000/internal/database"
	"github.com/esteban572/first-responder-connect-sub000/internal/models"
	apperrors "github.com/esteban572/first-responder-connect-sub000/pkg/errors"
	"gorm.io/gorm"
)

// NotificationEvent is a tagged variant over the domain events that feed
// the fan-out engine. Each variant resolves its own recipient, title and
// related-id fields.
type NotificationEvent interface {
	isNotificationEvent()
}

type PostLiked struct {
	PostID      string
	PostOwnerID string
	PostTitle   string
	ActorID     string
	ActorName   string
}

type PostCommented struct {
	PostID      string
	PostOwnerID string
	PostTitle   string
	CommentID   string
	ActorID     string
	ActorName   string
}

type ConnectionRequested struct {
	SenderID   string
	SenderName string
	ReceiverID string
}

type ConnectionAccepted struct {
	AccepterID   string
	AccepterName string
	RequesterID  string
}

type MessageSent struct {
	MessageID   string
	SenderID    string
	SenderName  string
	RecipientID string
}

type CredentialTransitioned struct {
	CredentialID string
	OwnerID      string
	Name         string
	Status       models.CredentialStatus
}

func (PostLiked) isNotificationEvent()              {}
func (PostCommented) isNotificationEvent()          {}
func (ConnectionRequested) isNotificationEvent()    {}
func (ConnectionAccepted) isNotificationEvent()     {}
func (MessageSent) isNotificationEvent()            {}
func (CredentialTransitioned) isNotificationEvent() {}

// Emit converts one domain event into a notification row for the
// relevant recipient, inside the caller's transaction so fan-out stays
// synchronous with the triggering write. Returns nil without error when
// the event should not notify: the actor acting on their own resource,
// or a like that would duplicate an unread like notification for the
// same (recipient, post, actor) triple. Callers publish the returned row
// to the realtime hub after their transaction commits.
func Emit(tx *gorm.DB, event NotificationEvent) (*models.Notification, error) {
	var n models.Notification

	switch ev := event.(type) {
	case PostLiked:
		if ev.ActorID == ev.PostOwnerID {
			return nil, nil
		}
		duplicate, err := hasUnreadLike(tx, ev.PostOwnerID, ev.PostID, ev.ActorID)
		if err != nil {
			return nil, err
		}
		if duplicate {
			return nil, nil
		}
		n = models.Notification{
			UserID:        ev.PostOwnerID,
			Type:          models.NotificationTypeLike,
			Title:         fmt.Sprintf("%s liked your post", ev.ActorName),
			Description:   ev.PostTitle,
			RelatedPostID: &ev.PostID,
			RelatedUserID: &ev.ActorID,
		}

	case PostCommented:
		if ev.ActorID == ev.PostOwnerID {
			return nil, nil
		}
		n = models.Notification{
			UserID:        ev.PostOwnerID,
			Type:          models.NotificationTypeComment,
			Title:         fmt.Sprintf("%s commented on your post", ev.ActorName),
			Description:   ev.PostTitle,
			RelatedPostID: &ev.PostID,
			RelatedUserID: &ev.ActorID,
		}

	case ConnectionRequested:
		if ev.SenderID == ev.ReceiverID {
			return nil, nil
		}
		n = models.Notification{
			UserID:        ev.ReceiverID,
			Type:          models.NotificationTypeConnection,
			Title:         fmt.Sprintf("%s wants to connect with you", ev.SenderName),
			RelatedUserID: &ev.SenderID,
		}

	case ConnectionAccepted:
		if ev.AccepterID == ev.RequesterID {
			return nil, nil
		}
		n = models.Notification{
			UserID:        ev.RequesterID,
			Type:          models.NotificationTypeConnection,
			Title:         fmt.Sprintf("%s accepted your connection request", ev.AccepterName),
			RelatedUserID: &ev.AccepterID,
		}

	case MessageSent:
		if ev.SenderID == ev.RecipientID {
			return nil, nil
		}
		n = models.Notification{
			UserID:        ev.RecipientID,
			Type:          models.NotificationTypeMessage,
			Title:         fmt.Sprintf("New message from %s", ev.SenderName),
			RelatedUserID: &ev.SenderID,
		}

	case CredentialTransitioned:
		switch ev.Status {
		case models.CredentialExpiringSoon:
			n = models.Notification{
				UserID:              ev.OwnerID,
				Type:                models.NotificationTypeCredentialExpiring,
				Title:               fmt.Sprintf("%s is expiring soon", ev.Name),
				Description:         "Renew it before it lapses.",
				RelatedCredentialID: &ev.CredentialID,
			}
		case models.CredentialExpired:
			n = models.Notification{
				UserID:              ev.OwnerID,
				Type:                models.NotificationTypeCredentialExpired,
				Title:               fmt.Sprintf("%s has expired", ev.Name),
				Description:         "Update your records or renew the credential.",
				RelatedCredentialID: &ev.CredentialID,
			}
		default:
			return nil, nil
		}

	default:
		return nil, fmt.Errorf("notify: unknown event %T", event)
	}

	if err := tx.Create(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// hasUnreadLike reports whether an unread like notification already
// exists for the (recipient, post, actor) triple. Rapid like/unlike
// toggling therefore never stacks more than one unread row.
func hasUnreadLike(tx *gorm.DB, recipientID, postID, actorID string) (bool, error) {
	var count int64
	err := tx.Model(&models.Notification{}).
		Where("user_id = ? AND type = ? AND related_post_id = ? AND related_user_id = ? AND is_read = ?",
			recipientID, models.NotificationTypeLike, postID, actorID, false).
		Count(&count).Error
	return count > 0, err
}

// ListNotifications returns the owner's notifications, newest first.
func ListNotifications(userID string, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	var notifications []models.Notification
	err := database.DB.Preload("RelatedUser").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return []models.Notification{}, apperrors.Transient("notification store unreachable")
	}
	return notifications, nil
}

// MarkNotificationRead flips the read flag on one notification. Only the
// owner may do so.
func MarkNotificationRead(userID, notificationID string) error {
	var n models.Notification
	if err := database.DB.First(&n, "id = ?", notificationID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.NotFound("Notification not found")
		}
		return apperrors.Transient("notification store unreachable")
	}
	if n.UserID != userID {
		return apperrors.Forbidden("Not your notification")
	}
	err := database.DB.Model(&models.Notification{}).
		Where("id = ? AND is_read = ?", notificationID, false).
		Update("is_read", true).Error
	if err != nil {
		return apperrors.Transient("Failed to mark notification read")
	}
	return nil
}

// MarkAllNotificationsRead is owner-scoped and idempotent; the
// conditional update cannot touch other users' rows even under
// concurrent invocation.
func MarkAllNotificationsRead(userID string) (int64, error) {
	result := database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, apperrors.Transient("Failed to mark notifications read")
	}
	return result.RowsAffected, nil
}

// ClearAllNotifications deletes every notification owned by the user.
func ClearAllNotifications(userID string) (int64, error) {
	result := database.DB.Where("user_id = ?", userID).Delete(&models.Notification{})
	if result.Error != nil {
		return 0, apperrors.Transient("Failed to clear notifications")
	}
	return result.RowsAffected, nil
}

// DeleteNotification removes a single notification owned by the user.
func DeleteNotification(userID, notificationID string) error {
	var n models.Notification
	if err := database.DB.First(&n, "id = ?", notificationID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.NotFound("Notification not found")
		}
		return apperrors.Transient("notification store unreachable")
	}
	if n.UserID != userID {
		return apperrors.Forbidden("Not your notification")
	}
	if err := database.DB.Delete(&n).Error; err != nil {
		return apperrors.Transient("Failed to delete notification")
	}
	return nil
}

// CountUnreadNotifications counts the owner's unread notifications.
func CountUnreadNotifications(userID string) (int64, error) {
	var count int64
	err := database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Transient("notification store unreachable")
	}
	return count, nil
}
