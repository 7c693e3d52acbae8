package handler

import (
	"errors"
	"log"
	"net/http"

	"lovesync/backend/internal/config"
	"lovesync/backend/internal/models"
	"lovesync/backend/internal/room"
	"lovesync/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

type createRoomRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateRoom POST /rooms
func (h *Handler) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	code, err := h.Rooms.CreateRoom(anonID(c), req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"code": code})
}

type joinRoomRequest struct {
	Name string `json:"name" binding:"required"`
}

// JoinRoom POST /rooms/:code/join
func (h *Handler) JoinRoom(c *gin.Context) {
	var req joinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	ok, err := h.Rooms.JoinRoom(roomCode(c), anonID(c), req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"joined": true})
}

// GetRoom GET /rooms/:code serves a one-shot snapshot for clients that cannot
// hold the WebSocket open.
func (h *Handler) GetRoom(c *gin.Context) {
	data, err := h.Storage.GetRoom(roomCode(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	if data == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}
	c.JSON(http.StatusOK, data)
}

type logMoodRequest struct {
	Mood   models.Mood        `json:"mood"`
	Note   string             `json:"note"`
	Name   string             `json:"name" binding:"required"`
	Action *room.ActionConfig `json:"action"`
}

// LogMood POST /rooms/:code/logs
func (h *Handler) LogMood(c *gin.Context) {
	var req logMoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid log payload"})
		return
	}
	logID, err := h.Rooms.LogMood(roomCode(c), anonID(c), req.Name, req.Mood, req.Note, req.Action)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"log_id": logID})
}

type batteryRequest struct {
	Level *int `json:"level" binding:"required"`
}

// UpdateSocialBattery PUT /rooms/:code/battery
func (h *Handler) UpdateSocialBattery(c *gin.Context) {
	var req batteryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "level is required"})
		return
	}
	if err := h.Rooms.UpdateSocialBattery(roomCode(c), anonID(c), *req.Level); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type interactionRequest struct {
	Type models.InteractionType `json:"type" binding:"required"`
	Name string                 `json:"name" binding:"required"`
}

// SendInteraction POST /rooms/:code/interactions
func (h *Handler) SendInteraction(c *gin.Context) {
	var req interactionRequest
	if err := c.ShouldBindJSON(&req); err != nil || !models.ValidInteraction(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid interaction"})
		return
	}
	if err := h.Rooms.SendInteraction(roomCode(c), anonID(c), req.Name, req.Type); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DismissInteraction DELETE /rooms/:code/interactions
func (h *Handler) DismissInteraction(c *gin.Context) {
	if err := h.Rooms.DismissInteraction(roomCode(c), anonID(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type startConversationRequest struct {
	Topic       string         `json:"topic"`
	Trigger     models.Trigger `json:"trigger" binding:"required"`
	SourceLogID string         `json:"source_log_id"`
}

// StartConversation POST /rooms/:code/conversation
func (h *Handler) StartConversation(c *gin.Context) {
	var req startConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation payload"})
		return
	}
	if err := h.Rooms.StartConversation(roomCode(c), req.Topic, req.Trigger, req.SourceLogID); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type chatMessageRequest struct {
	Text string `json:"text" binding:"required"`
	Name string `json:"name" binding:"required"`
}

// SendChatMessage POST /rooms/:code/conversation/messages
func (h *Handler) SendChatMessage(c *gin.Context) {
	var req chatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	// UI-boundary cap; the core does not enforce a message length.
	if len([]rune(req.Text)) > config.MaxChatMessageLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message too long"})
		return
	}
	msgID, err := h.Rooms.SendChatMessage(roomCode(c), anonID(c), req.Name, req.Text)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message_id": msgID})
}

// EndConversation DELETE /rooms/:code/conversation
func (h *Handler) EndConversation(c *gin.Context) {
	if err := h.Rooms.EndConversation(roomCode(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type spaceModeRequest struct {
	Minutes int    `json:"minutes" binding:"required,gt=0"`
	Reason  string `json:"reason"`
	Name    string `json:"name" binding:"required"`
}

// ActivateSpaceMode POST /rooms/:code/space
func (h *Handler) ActivateSpaceMode(c *gin.Context) {
	var req spaceModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid space mode payload"})
		return
	}
	if err := h.Rooms.ActivateSpaceMode(roomCode(c), anonID(c), req.Name, req.Minutes, req.Reason); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// EndSpaceMode DELETE /rooms/:code/space
func (h *Handler) EndSpaceMode(c *gin.Context) {
	if err := h.Rooms.EndSpaceMode(roomCode(c), anonID(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ClearRoomLogs DELETE /rooms/:code/logs
func (h *Handler) ClearRoomLogs(c *gin.Context) {
	if err := h.Rooms.ClearRoomLogs(roomCode(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteRoom DELETE /rooms/:code
func (h *Handler) DeleteRoom(c *gin.Context) {
	if err := h.Rooms.DeleteRoom(roomCode(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type notifyBindingRequest struct {
	ChatID int64 `json:"chat_id" binding:"required"`
}

// BindNotifications POST /rooms/:code/notify links the caller's device to a
// telegram chat so the notification bridge can reach it.
func (h *Handler) BindNotifications(c *gin.Context) {
	var req notifyBindingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chat_id is required"})
		return
	}
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
	if !data.IsMember(anonID(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a member of this room"})
		return
	}
	if err := h.Storage.SaveNotifyBinding(code, anonID(c), req.ChatID); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// fail maps service errors onto HTTP responses.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
	case errors.Is(err, room.ErrRoomFull):
		c.JSON(http.StatusConflict, gin.H{"error": "Room is full"})
	case errors.Is(err, room.ErrNotMember):
		c.JSON(http.StatusForbidden, gin.H{"error": "not a member of this room"})
	case errors.Is(err, room.ErrNotInitiator):
		c.JSON(http.StatusForbidden, gin.H{"error": "only the initiator can end space mode"})
	case errors.Is(err, room.ErrConversationActive):
		c.JSON(http.StatusConflict, gin.H{"error": "a conversation is already active"})
	case errors.Is(err, room.ErrNoConversation):
		c.JSON(http.StatusConflict, gin.H{"error": "no active conversation"})
	default:
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong, please retry"})
	}
}
