package handler

import (
	"github.com/gin-gonic/gin"

	"lovesync/backend/internal/room"
	"lovesync/backend/internal/roomhub"
	"lovesync/backend/internal/storage"
)

// Handler wires HTTP requests to the room service and the subscription hub.
type Handler struct {
	Rooms     *room.Service
	Hub       *roomhub.ManagerService
	Storage   storage.Storage
	JWTSecret []byte
}

func NewHandler(rooms *room.Service, hub *roomhub.ManagerService, s storage.Storage, jwtSecret []byte) *Handler {
	return &Handler{
		Rooms:     rooms,
		Hub:       hub,
		Storage:   s,
		JWTSecret: jwtSecret,
	}
}

// roomCode reads the :code path parameter in its canonical form.
func roomCode(c *gin.Context) string {
	return room.NormalizeCode(c.Param("code"))
}
