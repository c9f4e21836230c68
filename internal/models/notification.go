package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTypeLike               NotificationType = "like"
	NotificationTypeComment            NotificationType = "comment"
	NotificationTypeConnection         NotificationType = "connection"
	NotificationTypeMessage            NotificationType = "message"
	NotificationTypeCredentialExpiring NotificationType = "credential_expiring"
	NotificationTypeCredentialExpired  NotificationType = "credential_expired"
)

// Notification is a fan-out record for exactly one recipient. The type
// determines which related-id fields are populated and how a client
// routes a click. Only the read flag is mutable, and only by the owner.
type Notification struct {
	ID          string           `gorm:"primaryKey;type:text" json:"id"`
	UserID      string           `gorm:"index;type:text;not null" json:"userId"` // recipient
	Type        NotificationType `gorm:"type:varchar(30);not null" json:"type"`
	Title       string           `gorm:"type:text;not null" json:"title"`
	Description string           `gorm:"type:text" json:"description,omitempty"`

	RelatedPostID       *string `gorm:"index;type:text" json:"relatedPostId,omitempty"`
	RelatedUserID       *string `gorm:"index;type:text" json:"relatedUserId,omitempty"`
	RelatedCredentialID *string `gorm:"index;type:text" json:"relatedCredentialId,omitempty"`

	IsRead    bool      `gorm:"default:false" json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`

	RelatedUser *User `gorm:"foreignKey:RelatedUserID" json:"relatedUser,omitempty"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	return
}
