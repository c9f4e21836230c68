package services

import (
	"testing"

	"github.com/esteban572/first-responder-connect-sub000/internal/database"
	"github.com/esteban572/first-responder-connect-sub000/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestConnectionLifecycle(t *testing.T) {
	SetupTestDB()
	seedUser("david", "David")
	seedUser("erin", "Erin")

	conn, err := RequestConnection("david", "erin")
	assert.NoError(t, err)
	assert.Equal(t, models.ConnectionPending, conn.Status)

	// Pending reads the same from both sides.
	state, _ := CheckConnection("david", "erin")
	assert.Equal(t, ConnectionStatePending, state)
	state, _ = CheckConnection("erin", "david")
	assert.Equal(t, ConnectionStatePending, state)

	assert.NoError(t, AcceptConnection("erin", conn.ID))

	state, _ = CheckConnection("david", "erin")
	assert.Equal(t, ConnectionStateConnected, state)
	state, _ = CheckConnection("erin", "david")
	assert.Equal(t, ConnectionStateConnected, state)

	// Acceptance mutates the pending edge; it never creates a second row.
	var count int64
	database.DB.Model(&models.Connection{}).Count(&count)
	assert.Equal(t, int64(1), count)

	// Erin's acceptance notifies David, not Erin.
	var notifications []models.Notification
	database.DB.Where("type = ?", models.NotificationTypeConnection).Find(&notifications)
	assert.Len(t, notifications, 2) // request to erin + acceptance to david
	davidUnread, _ := CountUnreadNotifications("david")
	assert.Equal(t, int64(1), davidUnread)
}

func TestRequestConnection_Rejections(t *testing.T) {
	SetupTestDB()
	seedUser("david", "David")
	seedUser("erin", "Erin")
	seedUser("walled", "Walled")

	_, err := RequestConnection("david", "david")
	assert.Error(t, err)

	_, err = RequestConnection("david", "erin")
	assert.NoError(t, err)

	// Duplicate request, either direction, is a conflict.
	_, err = RequestConnection("david", "erin")
	assert.Error(t, err)
	_, err = RequestConnection("erin", "david")
	assert.Error(t, err)

	database.DB.Create(&models.UserBlock{BlockerID: "walled", BlockedID: "david"})
	_, err = RequestConnection("david", "walled")
	assert.Error(t, err)
}

func TestAcceptConnection_OnlyReceiverAndOnlyPending(t *testing.T) {
	SetupTestDB()
	seedUser("david", "David")
	seedUser("erin", "Erin")

	conn, _ := RequestConnection("david", "erin")

	// The sender cannot accept their own request.
	assert.Error(t, AcceptConnection("david", conn.ID))

	assert.NoError(t, AcceptConnection("erin", conn.ID))

	// A second accept finds no pending row.
	assert.Error(t, AcceptConnection("erin", conn.ID))
}

func TestRejectConnection_RemovesEdge(t *testing.T) {
	SetupTestDB()
	seedUser("david", "David")
	seedUser("erin", "Erin")

	conn, _ := RequestConnection("david", "erin")
	assert.NoError(t, RejectConnection("erin", conn.ID))

	state, _ := CheckConnection("david", "erin")
	assert.Equal(t, ConnectionStateNone, state)

	// The slate is clean: a fresh request goes through.
	_, err := RequestConnection("david", "erin")
	assert.NoError(t, err)
}

func TestListConnections_AcceptedOnly(t *testing.T) {
	SetupTestDB()
	seedUser("me", "Me")
	seedUser("friend", "Friend")
	seedUser("maybe", "Maybe")

	conn, _ := RequestConnection("friend", "me")
	AcceptConnection("me", conn.ID)
	RequestConnection("maybe", "me")

	connections, err := ListConnections("me")
	assert.NoError(t, err)
	assert.Len(t, connections, 1)
	assert.Equal(t, "friend", connections[0].ID)

	pending, err := ListPendingRequests("me")
	assert.NoError(t, err)
	assert.Len(t, pending, 1)
	assert.Equal(t, "maybe", pending[0].UserID)
}

func TestRemoveConnection(t *testing.T) {
	SetupTestDB()
	seedUser("me", "Me")
	seedUser("friend", "Friend")

	conn, _ := RequestConnection("friend", "me")
	AcceptConnection("me", conn.ID)

	assert.NoError(t, RemoveConnection("me", "friend"))

	state, _ := CheckConnection("me", "friend")
	assert.Equal(t, ConnectionStateNone, state)
}
