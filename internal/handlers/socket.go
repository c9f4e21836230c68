package handlers

import (
	"net/http"

	"github.com/esteban572/first-responder-connect-sub000/internal/database"
	"github.com/esteban572/first-responder-connect-sub000/internal/realtime"
	"github.com/esteban572/first-responder-connect-sub000/pkg/logger"
	"github.com/esteban572/first-responder-connect-sub000/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS GET /ws?token=... upgrades the client to a websocket and
// streams message and notification inserts for the authenticated user.
// After a reconnect the client re-runs its list/count calls to
// resynchronize; the stream itself is purely incremental.
func ServeWS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	claims, err := utils.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}
	userID := claims.UserID

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	conn := realtime.NewConnection(userID, ws)
	conn.Start()

	forward := func(ev realtime.Event) {
		if err := conn.SendEvent(ev); err != nil {
			logger.Debug().Err(err).Str("user", userID).Msg("websocket push dropped")
		}
	}

	msgSub := realtime.DefaultHub.Subscribe(userID, realtime.KindMessages, forward)
	notifSub := realtime.DefaultHub.Subscribe(userID, realtime.KindNotifications, forward)

	database.MarkOnline(userID)
	logger.Info().Str("user", userID).Str("session", conn.ID).Msg("websocket connected")

	go func() {
		conn.Wait()
		msgSub.Unsubscribe()
		notifSub.Unsubscribe()
		database.MarkOffline(userID)
		logger.Info().Str("user", userID).Str("session", conn.ID).Msg("websocket disconnected")
	}()

	conn.ReadLoop()
}
