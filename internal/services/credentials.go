package services

import (
	"time"

	"github.com/esteban572/first-responder-connect-sub000/internal/database"
	"github.com/esteban572/first-responder-connect-sub000/internal/models"
	"github.com/esteban572/first-responder-connect-sub000/internal/realtime"
	apperrors "github.com/esteban572/first-responder-connect-sub000/pkg/errors"
	"github.com/esteban572/first-responder-connect-sub000/pkg/logger"
	"gorm.io/gorm"
)

// DeleteBlob removes a stored document by URL. Swapped out in tests.
// Failures are logged and never fatal to the primary row delete.
var DeleteBlob = func(url string) error { return nil }

// CredentialView is a credential plus its computed lifecycle status.
// Status is never stored; it is recomputed on every read.
type CredentialView struct {
	models.Credential
	Status models.CredentialStatus `json:"status"`
}

// ListCredentials returns the owner's credentials with computed status.
// When viewerID differs from ownerID, private credentials are filtered
// out.
func ListCredentials(ownerID, viewerID string, now time.Time) ([]CredentialView, error) {
	q := database.DB.Where("user_id = ?", ownerID)
	if viewerID != ownerID {
		q = q.Where("public = ?", true)
	}

	var creds []models.Credential
	if err := q.Order("created_at DESC").Find(&creds).Error; err != nil {
		return []CredentialView{}, apperrors.Transient("credential store unreachable")
	}

	views := make([]CredentialView, 0, len(creds))
	for _, c := range creds {
		views = append(views, CredentialView{Credential: c, Status: c.StatusAt(now)})
	}
	return views, nil
}

func CreateCredential(c *models.Credential) error {
	if c.Name == "" {
		return apperrors.Validation("Credential name is required")
	}
	if c.UserID == "" {
		return apperrors.NotAuthenticated("Owner is required")
	}
	if err := database.DB.Create(c).Error; err != nil {
		return apperrors.Transient("Failed to create credential")
	}
	return nil
}

// UpdateCredential applies the patch to an owned credential. The bumped
// updated_at timestamp invalidates older transition notifications, so a
// credential renewed to a later date will re-notify when it degrades
// again.
func UpdateCredential(ownerID, credentialID string, patch map[string]interface{}) (*models.Credential, error) {
	var c models.Credential
	if err := database.DB.First(&c, "id = ?", credentialID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Credential not found")
		}
		return nil, apperrors.Transient("credential store unreachable")
	}
	if c.UserID != ownerID {
		return nil, apperrors.Forbidden("Not your credential")
	}
	if err := database.DB.Model(&c).Updates(patch).Error; err != nil {
		return nil, apperrors.Transient("Failed to update credential")
	}
	return &c, nil
}

// DeleteCredential removes the row, then attempts document cleanup.
// Blob failures are logged, never fatal.
func DeleteCredential(ownerID, credentialID string) error {
	var c models.Credential
	if err := database.DB.First(&c, "id = ?", credentialID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.NotFound("Credential not found")
		}
		return apperrors.Transient("credential store unreachable")
	}
	if c.UserID != ownerID {
		return apperrors.Forbidden("Not your credential")
	}
	if err := database.DB.Delete(&c).Error; err != nil {
		return apperrors.Transient("Failed to delete credential")
	}
	if c.DocumentURL != "" {
		if err := DeleteBlob(c.DocumentURL); err != nil {
			logger.Warn().Err(err).Str("credential", c.ID).Msg("credential document cleanup failed")
		}
	}
	return nil
}

// SweepUserCredentials re-evaluates every credential the user owns and
// hands newly crossed transitions to the fan-out engine. Re-evaluation
// is idempotent: a transition that has already been notified since the
// credential's last edit does not fire again. Returns the number of
// notifications created.
func SweepUserCredentials(userID string, now time.Time) (int, error) {
	var creds []models.Credential
	if err := database.DB.Where("user_id = ?", userID).Find(&creds).Error; err != nil {
		return 0, apperrors.Transient("credential store unreachable")
	}

	fired := 0
	for i := range creds {
		n, err := sweepOne(&creds[i], now)
		if err != nil {
			return fired, err
		}
		if n != nil {
			realtime.PublishNotification(n.UserID, n)
			fired++
		}
	}
	return fired, nil
}

// SweepAllCredentials runs the monitor across every owner with at least
// one credential. Driven by the server's periodic ticker.
func SweepAllCredentials(now time.Time) (int, error) {
	var owners []string
	if err := database.DB.Model(&models.Credential{}).Distinct("user_id").Pluck("user_id", &owners).Error; err != nil {
		return 0, apperrors.Transient("credential store unreachable")
	}

	total := 0
	for _, owner := range owners {
		n, err := SweepUserCredentials(owner, now)
		if err != nil {
			logger.Warn().Err(err).Str("user", owner).Msg("credential sweep failed for user")
			continue
		}
		total += n
	}
	return total, nil
}

func sweepOne(c *models.Credential, now time.Time) (*models.Notification, error) {
	status := c.StatusAt(now)

	var notifType models.NotificationType
	switch status {
	case models.CredentialExpiringSoon:
		notifType = models.NotificationTypeCredentialExpiring
	case models.CredentialExpired:
		notifType = models.NotificationTypeCredentialExpired
	default:
		return nil, nil
	}

	// Edge detection is derived from existing notification rows rather
	// than a stored "last notified" column: a transition counts as
	// already notified only if a matching notification postdates the
	// credential's last edit.
	var count int64
	err := database.DB.Model(&models.Notification{}).
		Where("related_credential_id = ? AND type = ? AND created_at >= ?", c.ID, notifType, c.UpdatedAt).
		Count(&count).Error
	if err != nil {
		return nil, apperrors.Transient("notification store unreachable")
	}
	if count > 0 {
		return nil, nil
	}

	var created *models.Notification
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		n, err := Emit(tx, CredentialTransitioned{
			CredentialID: c.ID,
			OwnerID:      c.UserID,
			Name:         c.Name,
			Status:       status,
		})
		if err != nil {
			return err
		}
		created = n
		return nil
	})
	if err != nil {
		return nil, apperrors.Transient("Failed to record credential transition")
	}
	return created, nil
}

// CountExpiringOrExpired counts the user's credentials currently in
// expiring_soon or expired, for the UI badge. Visibility-independent:
// private credentials still count for their own owner.
func CountExpiringOrExpired(userID string, now time.Time) (int64, error) {
	var creds []models.Credential
	err := database.DB.
		Select("id", "expiration_date", "notification_days").
		Where("user_id = ? AND expiration_date IS NOT NULL", userID).
		Find(&creds).Error
	if err != nil {
		return 0, apperrors.Transient("credential store unreachable")
	}

	var count int64
	for _, c := range creds {
		if s := c.StatusAt(now); s == models.CredentialExpiringSoon || s == models.CredentialExpired {
			count++
		}
	}
	return count, nil
}
