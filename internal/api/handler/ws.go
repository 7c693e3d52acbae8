package handler

import (
	"net/http"

	"lovesync/backend/internal/models"
	"lovesync/backend/internal/roomhub"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Lock down in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SubscribeRoom GET /rooms/:code/ws upgrades the connection and streams full
// room snapshots: the current document immediately, then one message per
// remote change, then a JSON null if the room is destroyed.
func (h *Handler) SubscribeRoom(c *gin.Context) {
	code := roomCode(c)
	data, err := h.Storage.GetRoom(code)
	if err != nil {
		h.fail(c, err)
		return
	}
	if data == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	client := &roomhub.WebSocketClient{
		Hub:      h.Hub,
		UserID:   anonID(c),
		RoomCode: code,
		Conn:     conn,
		Send:     make(chan models.RoomEvent, 256),
	}

	// Seed the stream with the current snapshot before live events arrive.
	client.Send <- models.RoomEvent{Code: code, Room: data}

	h.Hub.RegisterCh <- client
	client.Run()
}
