package services

import (
	"time"

	"github.com/esteban572/first-responder-connect-sub000/internal/database"
	"github.com/esteban572/first-responder-connect-sub000/internal/models"
	"github.com/esteban572/first-responder-connect-sub000/pkg/logger"
)

// Badges is the read-only projection behind the navigation counters.
// Always recomputed from the source tables, never cached.
type Badges struct {
	UnreadMessages      int64 `json:"unreadMessages"`
	UnreadNotifications int64 `json:"unreadNotifications"`
	ExpiringCredentials int64 `json:"expiringCredentials"`
	PendingRequests     int64 `json:"pendingRequests"`
	Total               int64 `json:"total"`
}

// AggregateBadges computes every badge count for the user in one call.
// Each count degrades to zero on a transient store failure so one flaky
// read never blanks the rest of the navigation.
func AggregateBadges(userID string, now time.Time) Badges {
	var b Badges

	if n, err := CountUnreadMessages(userID); err == nil {
		b.UnreadMessages = n
	} else {
		logger.Warn().Err(err).Msg("badge: unread messages unavailable")
	}

	if n, err := CountUnreadNotifications(userID); err == nil {
		b.UnreadNotifications = n
	} else {
		logger.Warn().Err(err).Msg("badge: unread notifications unavailable")
	}

	if n, err := CountExpiringOrExpired(userID, now); err == nil {
		b.ExpiringCredentials = n
	} else {
		logger.Warn().Err(err).Msg("badge: credential count unavailable")
	}

	var pending int64
	if err := database.DB.Model(&models.Connection{}).
		Where("connected_user_id = ? AND status = ?", userID, models.ConnectionPending).
		Count(&pending).Error; err == nil {
		b.PendingRequests = pending
	} else {
		logger.Warn().Err(err).Msg("badge: pending requests unavailable")
	}

	b.Total = b.UnreadMessages + b.UnreadNotifications + b.ExpiringCredentials + b.PendingRequests
	return b
}
