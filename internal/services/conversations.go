package services

import (
	"sort"
	"strings"
	"time"

	"github.com/esteban572/first-responder-connect-sub000/internal/database"
	"github.com/esteban572/first-responder-connect-sub000/internal/models"
	"github.com/esteban572/first-responder-connect-sub000/internal/realtime"
	apperrors "github.com/esteban572/first-responder-connect-sub000/pkg/errors"
	"github.com/esteban572/first-responder-connect-sub000/pkg/logger"
	"gorm.io/gorm"
)

// Conversation is a derived per-counterpart grouping of messages. It is
// never persisted; every read recomputes it from the message table so it
// cannot drift from the underlying rows.
type Conversation struct {
	User        models.User    `json:"user"`
	LastMessage models.Message `json:"lastMessage"`
	UnreadCount int64          `json:"unreadCount"`
}

// ListConversations returns the user's conversations ordered by most
// recent message, most recent first. Stateless and safe to re-run at any
// time. An empty result is valid; a store failure returns an empty slice
// plus a retryable error.
func ListConversations(userID string) ([]Conversation, error) {
	var msgs []models.Message
	err := database.DB.
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	if err != nil {
		return []Conversation{}, apperrors.Transient("conversation store unreachable")
	}

	type group struct {
		last   models.Message
		unread int64
	}
	byCounterpart := make(map[string]*group)
	order := make([]string, 0)

	for _, m := range msgs {
		counterpart := m.SenderID
		if counterpart == userID {
			counterpart = m.RecipientID
		}
		g, ok := byCounterpart[counterpart]
		if !ok {
			g = &group{}
			byCounterpart[counterpart] = g
			order = append(order, counterpart)
		}
		// Rows arrive in (created_at, id) order, so the running value is
		// always the latest message with deterministic tie-breaking.
		g.last = m
		if m.RecipientID == userID && !m.IsRead {
			g.unread++
		}
	}

	users := counterpartSnapshots(order)

	conversations := make([]Conversation, 0, len(byCounterpart))
	for _, counterpart := range order {
		g := byCounterpart[counterpart]
		conversations = append(conversations, Conversation{
			User:        users[counterpart],
			LastMessage: g.last,
			UnreadCount: g.unread,
		})
	}

	sort.SliceStable(conversations, func(i, j int) bool {
		a, b := conversations[i].LastMessage, conversations[j].LastMessage
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})

	return conversations, nil
}

func counterpartSnapshots(ids []string) map[string]models.User {
	snapshots := make(map[string]models.User, len(ids))
	if len(ids) == 0 {
		return snapshots
	}
	var users []models.User
	if err := database.DB.Where("id IN ?", ids).Find(&users).Error; err != nil {
		logger.Warn().Err(err).Msg("failed to load conversation counterparts")
		return snapshots
	}
	for _, u := range users {
		u.Password = ""
		snapshots[u.ID] = u
	}
	return snapshots
}

// ListThread returns the full message history between two users, oldest
// first.
func ListThread(userID, otherID string) ([]models.Message, error) {
	var msgs []models.Message
	err := database.DB.
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userID, otherID, otherID, userID).
		Order("created_at ASC, id ASC").
		Preload("Sender").Preload("Recipient").
		Find(&msgs).Error
	if err != nil {
		return []models.Message{}, apperrors.Transient("message store unreachable")
	}
	return msgs, nil
}

// SendMessage persists a message and fans out its notification in the
// same transaction, so a confirmed send implies the notification row is
// durable. The realtime push happens after commit.
func SendMessage(senderID, recipientID, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.Validation("Message content cannot be empty")
	}
	if recipientID == "" {
		return nil, apperrors.Validation("Recipient is required")
	}
	if senderID == recipientID {
		return nil, apperrors.Validation("Cannot message yourself")
	}

	if blocked, err := IsBlockedPair(senderID, recipientID); err != nil {
		return nil, err
	} else if blocked {
		return nil, apperrors.Forbidden("Cannot message this user")
	}

	var sender models.User
	if err := database.DB.Select("id", "name", "username").First(&sender, "id = ?", senderID).Error; err != nil {
		return nil, apperrors.NotAuthenticated("Unknown sender")
	}

	msg := models.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
		CreatedAt:   time.Now(),
	}

	var created *models.Notification
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&msg).Error; err != nil {
			return err
		}
		n, err := Emit(tx, MessageSent{
			MessageID:   msg.ID,
			SenderID:    senderID,
			SenderName:  displayName(sender),
			RecipientID: recipientID,
		})
		if err != nil {
			return err
		}
		created = n
		return nil
	})
	if err != nil {
		return nil, apperrors.Transient("Failed to send message")
	}

	database.DB.Preload("Sender").Preload("Recipient").First(&msg, "id = ?", msg.ID)

	realtime.PublishMessage(recipientID, msg)
	if created != nil {
		realtime.PublishNotification(created.UserID, created)
	}

	return &msg, nil
}

// MarkThreadRead flips the read flag on every unread message from
// counterpart to user. The conditional update only touches rows matching
// the predicate at execution time, so a message arriving mid-update is
// never silently marked read. Idempotent; returns rows affected.
func MarkThreadRead(userID, counterpartID string) (int64, error) {
	now := time.Now()
	result := database.DB.Model(&models.Message{}).
		Where("sender_id = ? AND recipient_id = ? AND is_read = ?", counterpartID, userID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": &now,
		})
	if result.Error != nil {
		return 0, apperrors.Transient("Failed to mark thread read")
	}
	return result.RowsAffected, nil
}

// CountUnreadMessages counts messages addressed to the user that have
// not been read, across all conversations.
func CountUnreadMessages(userID string) (int64, error) {
	var count int64
	err := database.DB.Model(&models.Message{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Transient("message store unreachable")
	}
	return count, nil
}

// IsBlockedPair reports whether either user has blocked the other.
func IsBlockedPair(a, b string) (bool, error) {
	var count int64
	err := database.DB.Model(&models.UserBlock{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&count).Error
	if err != nil {
		return false, apperrors.Transient("block store unreachable")
	}
	return count > 0, nil
}

func displayName(u models.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}
