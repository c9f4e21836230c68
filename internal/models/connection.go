package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
)

// Connection is a directed request edge from UserID to ConnectedUserID.
// Acceptance mutates the status in place; a second edge is never created
// and the relationship is symmetric once accepted.
type Connection struct {
	ID              string           `gorm:"primaryKey;type:text" json:"id"`
	UserID          string           `gorm:"uniqueIndex:idx_connection_pair" json:"userId"`
	User            User             `gorm:"foreignKey:UserID" json:"user"`
	ConnectedUserID string           `gorm:"uniqueIndex:idx_connection_pair" json:"connectedUserId"`
	ConnectedUser   User             `gorm:"foreignKey:ConnectedUserID" json:"connectedUser"`
	Status          ConnectionStatus `gorm:"type:text;default:'pending'" json:"status"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

func (c *Connection) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

// UserBlock represents one user blocking another. Blocked pairs cannot
// connect or message each other.
type UserBlock struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	BlockerID string    `gorm:"uniqueIndex:idx_blocker_blocked" json:"blockerId"`
	BlockedID string    `gorm:"uniqueIndex:idx_blocker_blocked" json:"blockedId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (ub *UserBlock) BeforeCreate(tx *gorm.DB) (err error) {
	if ub.ID == "" {
		ub.ID = uuid.New().String()
	}
	return
}
