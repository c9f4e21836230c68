package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportStatus string

const (
	ReportPending     ReportStatus = "pending"
	ReportReviewed    ReportStatus = "reviewed"
	ReportDismissed   ReportStatus = "dismissed"
	ReportActionTaken ReportStatus = "action_taken"
)

// ValidTransition reports whether a report may move from its current
// status to next. Transitions only move forward; dismissed and
// action_taken are terminal.
func (s ReportStatus) ValidTransition(next ReportStatus) bool {
	switch s {
	case ReportPending:
		return next == ReportReviewed
	case ReportReviewed:
		return next == ReportDismissed || next == ReportActionTaken
	default:
		return false
	}
}

// Report is a moderation report filed against a user or a post.
type Report struct {
	ID         string       `gorm:"primaryKey;type:text" json:"id"`
	ReporterID string       `gorm:"index" json:"reporterId"`
	Reporter   User         `gorm:"foreignKey:ReporterID" json:"reporter"`
	TargetID   string       `gorm:"index" json:"targetId"`
	TargetType string       `json:"targetType"` // "user" or "post"
	Reason     string       `gorm:"type:text" json:"reason"`
	Status     ReportStatus `gorm:"type:text;default:'pending'" json:"status"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}
