package room

import (
	"errors"

	"lovesync/backend/internal/config"
	"lovesync/backend/internal/models"
	"lovesync/backend/internal/patch"
	"lovesync/backend/internal/storage"
)

var (
	// ErrConversationActive rejects a second StartConversation instead of
	// silently clobbering the running transcript.
	ErrConversationActive = errors.New("a conversation is already active")
	// ErrNoConversation guards chat operations while no conversation runs.
	ErrNoConversation = errors.New("no active conversation")
)

// StartConversation opens the shared conversation zone triggered by a rough
// or needs log entry. sourceLogID may be empty when the originating entry is
// unknown (e.g. the client restarted between trigger and start).
func (s *Service) StartConversation(code, topic string, trigger models.Trigger, sourceLogID string) error {
	data, err := s.Storage.GetRoom(code)
	if err != nil {
		return err
	}
	if data == nil {
		return storage.ErrRoomNotFound
	}
	if data.ConversationActive {
		return ErrConversationActive
	}
	p := patch.New().
		Set("conversationActive", true).
		Set("conversationTopic", topic).
		Set("conversationTrigger", trigger).
		Set("messages", []models.ChatMessage{})
	if sourceLogID != "" {
		p.Set("conversationSourceLogId", sourceLogID)
	} else {
		p.Set("conversationSourceLogId", nil)
	}
	return s.Storage.ApplyPatch(code, p)
}

// SendChatMessage appends one message to the active conversation and returns
// its id.
func (s *Service) SendChatMessage(code, userID, userName, text string) (string, error) {
	data, err := s.Storage.GetRoom(code)
	if err != nil {
		return "", err
	}
	if data == nil {
		return "", storage.ErrRoomNotFound
	}
	if !data.IsMember(userID) {
		return "", ErrNotMember
	}
	if !data.ConversationActive {
		return "", ErrNoConversation
	}
	msg := models.ChatMessage{
		ID:         s.newID(),
		SenderID:   userID,
		SenderName: userName,
		Text:       text,
		Timestamp:  s.nowMillis(),
	}
	if err := s.Storage.ApplyPatch(code, patch.New().Append("messages", msg)); err != nil {
		return "", err
	}
	return msg.ID, nil
}

// EndConversation closes the conversation zone and folds the transcript back
// into the log entry it originated from. Target resolution, in priority
// order: the exact source entry; the most recent action entry whose category
// matches the trigger; a brand-new standalone entry when messages exist; or
// nothing. The lookup runs on a snapshot, so a concurrent append by the
// partner can leave it working on a stale index; accepted.
func (s *Service) EndConversation(code string) error {
	data, err := s.Storage.GetRoom(code)
	if err != nil {
		return err
	}
	if data == nil {
		return storage.ErrRoomNotFound
	}
	if !data.ConversationActive {
		return nil
	}

	p := patch.New()
	target := resolveArchiveTarget(data)
	if target >= 0 {
		logs := make([]models.LogEntry, len(data.Logs))
		copy(logs, data.Logs)
		entry := &logs[target]
		entry.Type = models.LogTypeConversation
		entry.UserID = models.SharedOwner
		entry.UserName = archiveTitle(data.ConversationTrigger)
		entry.Messages = data.Messages
		if data.ConversationTopic != "" {
			entry.Note = data.ConversationTopic
		}
		p.Set("logs", logs)
	} else if len(data.Messages) > 0 {
		p.Append("logs", models.LogEntry{
			ID:        s.newID(),
			UserID:    models.SharedOwner,
			UserName:  archiveTitle(data.ConversationTrigger),
			Type:      models.LogTypeConversation,
			Note:      data.ConversationTopic,
			Messages:  data.Messages,
			Timestamp: s.nowMillis(),
		})
	}

	p.Set("conversationActive", false).
		Set("conversationTopic", "").
		Set("conversationSourceLogId", nil).
		Set("messages", []models.ChatMessage{})
	return s.Storage.ApplyPatch(code, p)
}

// resolveArchiveTarget returns the index of the log entry the transcript
// attaches to, or -1. Exact id match first, then a scan from the end for the
// newest action entry of the triggering category. When several unresolved
// rough/needs entries exist the heuristic can attach to the wrong one;
// flagged, not fixed.
func resolveArchiveTarget(data *models.RoomData) int {
	if data.ConversationSourceLogID != nil {
		for i := range data.Logs {
			if data.Logs[i].ID == *data.ConversationSourceLogID {
				return i
			}
		}
	}
	for i := len(data.Logs) - 1; i >= 0; i-- {
		entry := &data.Logs[i]
		if entry.Type == models.LogTypeAction && entry.Category == models.ActionCategory(data.ConversationTrigger) {
			return i
		}
	}
	return -1
}

func archiveTitle(trigger models.Trigger) string {
	if trigger == models.TriggerNeeds {
		return config.ConversationTitleNeeds
	}
	return config.ConversationTitleRough
}
