package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is a direct message between two users. Rows are immutable once
// created except for the read flag, which only ever flips false -> true
// and only by the recipient.
type Message struct {
	ID          string     `gorm:"primaryKey;type:text" json:"id"`
	SenderID    string     `gorm:"index" json:"senderId"`
	Sender      User       `gorm:"foreignKey:SenderID" json:"sender"`
	RecipientID string     `gorm:"index" json:"recipientId"`
	Recipient   User       `gorm:"foreignKey:RecipientID" json:"recipient"`
	Content     string     `gorm:"type:text" json:"content"`
	IsRead      bool       `gorm:"default:false" json:"isRead"`
	ReadAt      *time.Time `json:"readAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	return
}
