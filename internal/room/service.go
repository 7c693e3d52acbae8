// Package room implements the room repository: every read and write against
// the shared room documents, the two-slot host/guest membership model, and
// the conversation and space-mode session state machines layered on top.
package room

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"lovesync/backend/internal/config"
	"lovesync/backend/internal/models"
	"lovesync/backend/internal/patch"
	"lovesync/backend/internal/storage"

	"github.com/google/uuid"
)

var (
	// ErrRoomFull is the one hard, caller-visible join failure.
	ErrRoomFull = errors.New("room is full")
	// ErrNotMember guards operations issued by a device that holds neither slot.
	ErrNotMember = errors.New("not a member of this room")
	// ErrCodeExhausted means CreateRoom kept colliding with existing codes.
	ErrCodeExhausted = errors.New("could not allocate a unique room code")
)

// ActionConfig describes a quick-action log entry (the "rough"/"needs" grid).
type ActionConfig struct {
	Category models.ActionCategory `json:"category"`
	Icon     string                `json:"icon"`
	Label    string                `json:"label"`
}

// Service owns all room document operations.
type Service struct {
	Storage storage.Storage
	// Now is the clock; overridable in tests.
	Now func() time.Time
}

func NewService(s storage.Storage) *Service {
	return &Service{Storage: s, Now: time.Now}
}

func (s *Service) nowMillis() int64 { return s.Now().UnixMilli() }

func (s *Service) newID() string { return uuid.New().String() }

// NormalizeCode upper-cases and trims a code before lookup; comparison is
// case-insensitive at the join boundary.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func initialUserState(name string, now int64) models.UserState {
	return models.UserState{
		Name:          name,
		Mood:          models.Mood(config.DefaultMood),
		Note:          config.InitialNote,
		SocialBattery: config.InitialBattery,
		LastUpdated:   now,
	}
}

// CreateRoom writes a brand-new room document with the caller as host and the
// guest slot in its waiting state, and returns the generated code. Codes that
// collide with an existing room are re-rolled a few times before giving up.
func (s *Service) CreateRoom(userID, userName string) (string, error) {
	now := s.nowMillis()
	for attempt := 0; attempt < config.RoomCodeAttempts; attempt++ {
		code := GenerateCode()
		exists, err := s.Storage.RoomExists(code)
		if err != nil {
			return "", err
		}
		if exists {
			log.Printf("Room code collision on %s, retrying", code)
			continue
		}
		data := &models.RoomData{
			HostID:     userID,
			HostState:  initialUserState(userName, now),
			GuestState: initialUserState(config.WaitingPartnerName, now),
			CreatedAt:  now,
			Logs:       []models.LogEntry{},
			Messages:   []models.ChatMessage{},
		}
		if err := s.Storage.CreateRoom(code, data); err != nil {
			return "", err
		}
		return code, nil
	}
	return "", ErrCodeExhausted
}

// JoinRoom claims the guest slot. Returns false when no room backs the code.
// Re-entry by either existing participant succeeds as a no-op; a third
// identity gets ErrRoomFull. The empty-slot claim is re-checked under the row
// lock, so of two racing joiners the first writer wins and the second fails.
func (s *Service) JoinRoom(code, userID, userName string) (bool, error) {
	code = NormalizeCode(code)
	data, err := s.Storage.GetRoom(code)
	if err != nil {
		return false, err
	}
	if data == nil {
		return false, nil
	}
	if data.HostID == userID || data.GuestID == userID {
		return true, nil
	}
	if data.GuestID != "" {
		return false, ErrRoomFull
	}

	err = s.Storage.UpdateRoom(code, func(current *models.RoomData) (*patch.Patch, error) {
		if current.HostID == userID || current.GuestID == userID {
			return nil, nil
		}
		if current.GuestID != "" {
			return nil, ErrRoomFull
		}
		return patch.New().
			Set("guestId", userID).
			Set("guestState.name", userName).
			Set("guestState.lastUpdated", s.nowMillis()), nil
	})
	if errors.Is(err, storage.ErrRoomNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// LogMood appends a log entry and returns its id. A genuine mood entry also
// refreshes the acting participant's state snapshot; quick actions do not.
func (s *Service) LogMood(code, userID, userName string, mood models.Mood, note string, action *ActionConfig) (string, error) {
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

	now := s.nowMillis()
	entry := models.LogEntry{
		ID:        s.newID(),
		UserID:    userID,
		UserName:  userName,
		Note:      note,
		Timestamp: now,
	}
	isMoodEntry := mood != "" && action == nil
	if isMoodEntry {
		entry.Type = models.LogTypeMood
		entry.Mood = mood
	} else {
		entry.Type = models.LogTypeAction
		if action != nil {
			entry.Category = action.Category
			entry.Icon = action.Icon
			if entry.Note == "" {
				entry.Note = action.Label
			}
		}
	}

	p := patch.New().Append("logs", entry)
	if isMoodEntry {
		prefix := s.statePrefix(data, userID)
		p.Set(prefix+".mood", mood).
			Set(prefix+".note", note).
			Set(prefix+".lastUpdated", now)
	}
	if err := s.Storage.ApplyPatch(code, p); err != nil {
		return "", err
	}
	return entry.ID, nil
}

// UpdateSocialBattery writes only the acting participant's battery level.
func (s *Service) UpdateSocialBattery(code, userID string, level int) error {
	data, err := s.Storage.GetRoom(code)
	if err != nil {
		return err
	}
	if data == nil {
		return storage.ErrRoomNotFound
	}
	if !data.IsMember(userID) {
		return ErrNotMember
	}
	if level < 0 {
		level = 0
	} else if level > 100 {
		level = 100
	}
	prefix := s.statePrefix(data, userID)
	return s.Storage.ApplyPatch(code, patch.New().
		Set(prefix+".socialBattery", level).
		Set(prefix+".lastUpdated", s.nowMillis()))
}

// SendInteraction drops an interaction into the partner's single-slot
// mailbox, displacing anything already pending there, and records the event
// as a needs-category log entry so it survives dismissal.
func (s *Service) SendInteraction(code, senderID, senderName string, itype models.InteractionType) error {
	data, err := s.Storage.GetRoom(code)
	if err != nil {
		return err
	}
	if data == nil {
		return storage.ErrRoomNotFound
	}
	if !data.IsMember(senderID) {
		return ErrNotMember
	}
	partnerID := data.PartnerID(senderID)
	if partnerID == "" {
		// No guest yet; nobody to deliver to.
		return ErrNotMember
	}

	now := s.nowMillis()
	interaction := models.Interaction{
		Type:       itype,
		SenderID:   senderID,
		SenderName: senderName,
		Timestamp:  now,
	}
	echo := models.LogEntry{
		ID:        s.newID(),
		UserID:    senderID,
		UserName:  senderName,
		Type:      models.LogTypeAction,
		Category:  models.CategoryNeeds,
		Icon:      "Heart",
		Note:      fmt.Sprintf("Sent a %s", itype),
		Timestamp: now,
	}
	prefix := s.statePrefix(data, partnerID)
	return s.Storage.ApplyPatch(code, patch.New().
		Set(prefix+".pendingInteraction", interaction).
		Append("logs", echo))
}

// DismissInteraction clears the caller's own mailbox. Dismissing an empty
// mailbox is a no-op.
func (s *Service) DismissInteraction(code, userID string) error {
	data, err := s.Storage.GetRoom(code)
	if err != nil {
		return err
	}
	if data == nil {
		return storage.ErrRoomNotFound
	}
	state := data.StateOf(userID)
	if state == nil {
		return ErrNotMember
	}
	if state.PendingInteraction == nil {
		return nil
	}
	prefix := s.statePrefix(data, userID)
	return s.Storage.ApplyPatch(code, patch.New().Set(prefix+".pendingInteraction", nil))
}

// ClearRoomLogs performs the in-place room reset: empty logs, fresh-start
// moods for both participants, inactive sessions. Membership and names stay.
func (s *Service) ClearRoomLogs(code string) error {
	data, err := s.Storage.GetRoom(code)
	if err != nil {
		return err
	}
	if data == nil {
		return storage.ErrRoomNotFound
	}
	now := s.nowMillis()
	p := patch.New().
		Set("logs", []models.LogEntry{}).
		Set("conversationActive", false).
		Set("conversationTopic", "").
		Set("conversationSourceLogId", nil).
		Set("messages", []models.ChatMessage{}).
		Set("spaceMode", models.SpaceModeState{IsActive: false})
	for _, prefix := range []string{"hostState", "guestState"} {
		p.Set(prefix+".mood", models.Mood(config.DefaultMood)).
			Set(prefix+".note", config.FreshStartNote).
			Set(prefix+".lastUpdated", now)
	}
	if err := s.Storage.ApplyPatch(code, p); err != nil {
		return err
	}
	return s.Storage.ClearSpaceActive(code)
}

// DeleteRoom destroys the document; subscribers observe the null sentinel.
func (s *Service) DeleteRoom(code string) error {
	if err := s.Storage.ClearSpaceActive(code); err != nil {
		log.Printf("ERROR: Failed to clear space marker for %s: %v", code, err)
	}
	return s.Storage.DeleteRoom(code)
}

// statePrefix resolves the field-path prefix of the slot owned by userID.
// Callers must have verified membership.
func (s *Service) statePrefix(data *models.RoomData, userID string) string {
	if data.IsHost(userID) {
		return "hostState"
	}
	return "guestState"
}
