package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CredentialStatus string

const (
	CredentialValid        CredentialStatus = "valid"
	CredentialExpiringSoon CredentialStatus = "expiring_soon"
	CredentialExpired      CredentialStatus = "expired"
)

// DefaultNotificationDays is the lead time applied when a credential is
// created without one.
const DefaultNotificationDays = 90

// Credential is a certification or license held by a first responder,
// e.g. an EMT-P license or a hazmat technician cert. Status is never
// stored; it is always computed from the expiration date, the lead time
// and the current time.
type Credential struct {
	ID               string     `gorm:"primaryKey;type:text" json:"id"`
	UserID           string     `gorm:"index;not null" json:"userId"`
	Type             string     `json:"type"` // e.g. "certification", "license"
	Name             string     `gorm:"not null" json:"name"`
	IssuingOrg       string     `json:"issuingOrg"`
	IssueDate        time.Time  `json:"issueDate"`
	ExpirationDate   *time.Time `json:"expirationDate,omitempty"`
	NotificationDays int        `gorm:"default:90" json:"notificationDays"`
	Public           bool       `gorm:"default:true" json:"public"`
	DocumentURL      string     `json:"documentUrl,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func (c *Credential) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.NotificationDays <= 0 {
		c.NotificationDays = DefaultNotificationDays
	}
	return
}

// StatusAt computes the lifecycle state at the given instant. A credential
// without an expiration date is always valid.
func (c *Credential) StatusAt(now time.Time) CredentialStatus {
	if c.ExpirationDate == nil {
		return CredentialValid
	}
	exp := *c.ExpirationDate
	if exp.Before(now) {
		return CredentialExpired
	}
	window := now.AddDate(0, 0, c.NotificationDays)
	if !exp.After(window) {
		return CredentialExpiringSoon
	}
	return CredentialValid
}
