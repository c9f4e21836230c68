package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User is a first responder profile. Profile editing itself is handled by
// the CRUD surface; the engine only reads these rows for counterpart
// snapshots and notification actors.
type User struct {
	ID        string         `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name       string `json:"name"`
	Email      string `gorm:"uniqueIndex" json:"email"`
	Username   string `gorm:"uniqueIndex" json:"username"`
	Image      string `json:"image"`
	Bio        string `json:"bio"`
	Department string `json:"department"` // e.g. "Austin Fire Department"
	Rank       string `json:"rank"`       // e.g. "Captain", "Paramedic II"

	Role Role `gorm:"type:text;default:'USER'" json:"role"`

	Password string `json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}
