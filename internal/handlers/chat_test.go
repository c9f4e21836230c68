package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/esteban572/first-responder-connect-sub000/internal/database"
	"github.com/esteban572/first-responder-connect-sub000/internal/models"
	"github.com/esteban572/first-responder-connect-sub000/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGetConversations(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	me := models.User{ID: "me_chat", Name: "Me", Username: "me_chat", Email: "me_chat@example.com"}
	u1 := models.User{ID: "u1_chat", Name: "User One", Username: "u1_chat", Email: "u1_chat@example.com"}
	u2 := models.User{ID: "u2_chat", Name: "User Two", Username: "u2_chat", Email: "u2_chat@example.com"}
	database.DB.Create(&me)
	database.DB.Create(&u1)
	database.DB.Create(&u2)

	database.DB.Create(&models.Message{ID: "m1", SenderID: "u1_chat", RecipientID: "me_chat", Content: "Old", CreatedAt: time.Now().Add(-2 * time.Hour)})
	database.DB.Create(&models.Message{ID: "m2", SenderID: "me_chat", RecipientID: "u2_chat", Content: "Recent", CreatedAt: time.Now().Add(-time.Minute)})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/api/chat/conversations", nil)
	c.Set("userId", "me_chat")

	GetConversations(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Conversations []services.Conversation `json:"conversations"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)

	assert.Len(t, response.Conversations, 2)
	if len(response.Conversations) >= 2 {
		assert.Equal(t, "u2_chat", response.Conversations[0].User.ID)
		assert.Equal(t, "u1_chat", response.Conversations[1].User.ID)
		assert.Equal(t, int64(1), response.Conversations[1].UnreadCount)
	}
}

func TestSendMessageHandler(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	database.DB.Create(&models.User{ID: "sender", Name: "Sender", Username: "sender", Email: "sender@example.com"})
	database.DB.Create(&models.User{ID: "receiver", Name: "Receiver", Username: "receiver", Email: "receiver@example.com"})

	body, _ := json.Marshal(gin.H{"recipientId": "receiver", "content": "on my way"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("POST", "/api/chat/messages", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("userId", "sender")

	SendMessage(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	database.DB.Model(&models.Message{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSendMessageHandler_RejectsSelf(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	database.DB.Create(&models.User{ID: "sender", Name: "Sender", Username: "sender", Email: "sender@example.com"})

	body, _ := json.Marshal(gin.H{"recipientId": "sender", "content": "note to self"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("POST", "/api/chat/messages", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("userId", "sender")

	SendMessage(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMarkThreadReadHandler(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	database.DB.Create(&models.User{ID: "me", Name: "Me", Username: "me", Email: "me@example.com"})
	database.DB.Create(&models.User{ID: "peer", Name: "Peer", Username: "peer", Email: "peer@example.com"})
	database.DB.Create(&models.Message{ID: "m1", SenderID: "peer", RecipientID: "me", Content: "hi"})
	database.DB.Create(&models.Message{ID: "m2", SenderID: "peer", RecipientID: "me", Content: "hello?"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("POST", "/api/chat/read/peer", nil)
	c.Params = gin.Params{{Key: "counterpartId", Value: "peer"}}
	c.Set("userId", "me")

	MarkThreadRead(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		MarkedRead int64 `json:"markedRead"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, int64(2), response.MarkedRead)

	var unread int64
	database.DB.Model(&models.Message{}).Where("recipient_id = ? AND is_read = ?", "me", false).Count(&unread)
	assert.Equal(t, int64(0), unread)
}
