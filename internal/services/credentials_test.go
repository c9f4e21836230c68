package services

import (
	"testing"
	"time"

	"github.com/esteban572/first-responder-connect-sub000/internal/database"
	"github.com/esteban572/first-responder-connect-sub000/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCredentialStatusAt(t *testing.T) {
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

	noExpiry := models.Credential{Name: "CPR Instructor"}
	assert.Equal(t, models.CredentialValid, noExpiry.StatusAt(now))

	farOut := now.AddDate(0, 0, 31)
	c := models.Credential{Name: "EMT-P", ExpirationDate: &farOut, NotificationDays: 30}
	assert.Equal(t, models.CredentialValid, c.StatusAt(now))

	// Exactly on the lead-time boundary counts as expiring.
	boundary := now.AddDate(0, 0, 30)
	c.ExpirationDate = &boundary
	assert.Equal(t, models.CredentialExpiringSoon, c.StatusAt(now))

	// At the expiration instant itself the credential is not yet expired.
	c.ExpirationDate = &now
	assert.Equal(t, models.CredentialExpiringSoon, c.StatusAt(now))

	past := now.Add(-time.Second)
	c.ExpirationDate = &past
	assert.Equal(t, models.CredentialExpired, c.StatusAt(now))
}

func TestSweep_FiresOncePerTransition(t *testing.T) {
	SetupTestDB()
	seedUser("medic", "Medic")

	exp := time.Now().AddDate(0, 0, 10)
	cred := &models.Credential{UserID: "medic", Name: "Hazmat Technician", ExpirationDate: &exp, NotificationDays: 30}
	assert.NoError(t, CreateCredential(cred))

	fired, err := SweepUserCredentials("medic", time.Now())
	assert.NoError(t, err)
	assert.Equal(t, 1, fired)

	var notifications []models.Notification
	database.DB.Where("user_id = ?", "medic").Find(&notifications)
	assert.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationTypeCredentialExpiring, notifications[0].Type)
	assert.Equal(t, cred.ID, *notifications[0].RelatedCredentialID)

	// Re-running the monitor is a no-op while the state is unchanged.
	fired, err = SweepUserCredentials("medic", time.Now())
	assert.NoError(t, err)
	assert.Equal(t, 0, fired)
}

func TestSweep_ExpiredAfterExpiring(t *testing.T) {
	SetupTestDB()
	seedUser("medic", "Medic")

	exp := time.Now().AddDate(0, 0, 10)
	cred := &models.Credential{UserID: "medic", Name: "ACLS", ExpirationDate: &exp, NotificationDays: 30}
	assert.NoError(t, CreateCredential(cred))

	fired, _ := SweepUserCredentials("medic", time.Now())
	assert.Equal(t, 1, fired)

	// Time passes the expiration date: a distinct transition, so it
	// fires again even though the expiring notice already exists.
	fired, err := SweepUserCredentials("medic", time.Now().AddDate(0, 0, 11))
	assert.NoError(t, err)
	assert.Equal(t, 1, fired)

	var types []models.NotificationType
	database.DB.Model(&models.Notification{}).
		Where("user_id = ?", "medic").Order("created_at ASC").
		Pluck("type", &types)
	assert.Equal(t, []models.NotificationType{
		models.NotificationTypeCredentialExpiring,
		models.NotificationTypeCredentialExpired,
	}, types)
}

func TestSweep_RenewalResetsEdgeDetection(t *testing.T) {
	SetupTestDB()
	seedUser("medic", "Medic")

	exp := time.Now().AddDate(0, 0, 10)
	cred := &models.Credential{UserID: "medic", Name: "PALS", ExpirationDate: &exp, NotificationDays: 30}
	assert.NoError(t, CreateCredential(cred))

	fired, _ := SweepUserCredentials("medic", time.Now())
	assert.Equal(t, 1, fired)

	// Renewing pushes updated_at past the earlier notification, so a
	// later slide back into expiring_soon notifies afresh.
	time.Sleep(10 * time.Millisecond)
	renewed := time.Now().AddDate(1, 0, 0)
	_, err := UpdateCredential("medic", cred.ID, map[string]interface{}{"expiration_date": renewed})
	assert.NoError(t, err)

	fired, err = SweepUserCredentials("medic", time.Now())
	assert.NoError(t, err)
	assert.Equal(t, 0, fired)

	fired, err = SweepUserCredentials("medic", renewed.AddDate(0, 0, -5))
	assert.NoError(t, err)
	assert.Equal(t, 1, fired)
}

func TestCountExpiringOrExpired(t *testing.T) {
	SetupTestDB()
	seedUser("medic", "Medic")

	now := time.Now()
	okExp := now.AddDate(1, 0, 0)
	soonExp := now.AddDate(0, 0, 5)
	pastExp := now.AddDate(0, 0, -5)

	assert.NoError(t, CreateCredential(&models.Credential{UserID: "medic", Name: "Fine", ExpirationDate: &okExp, NotificationDays: 30}))
	assert.NoError(t, CreateCredential(&models.Credential{UserID: "medic", Name: "Soon", ExpirationDate: &soonExp, NotificationDays: 30}))
	assert.NoError(t, CreateCredential(&models.Credential{UserID: "medic", Name: "Late", ExpirationDate: &pastExp, NotificationDays: 30}))
	assert.NoError(t, CreateCredential(&models.Credential{UserID: "medic", Name: "Forever"}))

	count, err := CountExpiringOrExpired("medic", now)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestListCredentials_VisibilityFilter(t *testing.T) {
	SetupTestDB()
	seedUser("medic", "Medic")
	seedUser("viewer", "Viewer")

	pub := time.Now().AddDate(1, 0, 0)
	assert.NoError(t, CreateCredential(&models.Credential{UserID: "medic", Name: "Public cert", ExpirationDate: &pub, Public: true}))
	assert.NoError(t, CreateCredential(&models.Credential{UserID: "medic", Name: "Private cert", Public: false}))

	mine, err := ListCredentials("medic", "medic", time.Now())
	assert.NoError(t, err)
	assert.Len(t, mine, 2)

	theirs, err := ListCredentials("medic", "viewer", time.Now())
	assert.NoError(t, err)
	assert.Len(t, theirs, 1)
	assert.Equal(t, "Public cert", theirs[0].Credential.Name)
	assert.Equal(t, models.CredentialValid, theirs[0].Status)
}

func TestDeleteCredential_BlobCleanupIsBestEffort(t *testing.T) {
	SetupTestDB()
	seedUser("medic", "Medic")

	cred := &models.Credential{UserID: "medic", Name: "With doc", DocumentURL: "https://blobs.example/doc.pdf"}
	assert.NoError(t, CreateCredential(cred))

	original := DeleteBlob
	defer func() { DeleteBlob = original }()
	var attempted string
	DeleteBlob = func(url string) error {
		attempted = url
		return assert.AnError
	}

	// Blob deletion failing must not block the row deletion.
	assert.NoError(t, DeleteCredential("medic", cred.ID))
	assert.Equal(t, "https://blobs.example/doc.pdf", attempted)

	var count int64
	database.DB.Model(&models.Credential{}).Where("id = ?", cred.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}
