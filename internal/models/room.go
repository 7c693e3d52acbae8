package models

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// Trigger marks what kind of log entry opened a conversation.
type Trigger string

const (
	TriggerRough Trigger = "rough"
	TriggerNeeds Trigger = "needs"
)

// UserState is one participant's current snapshot inside the room document.
type UserState struct {
	Name string `json:"name"`
	Mood Mood   `json:"mood"`
	Note string `json:"note"`
	// SocialBattery is a 0-100 self-reported capacity gauge, read-only to the partner.
	SocialBattery int   `json:"socialBattery"`
	LastUpdated   int64 `json:"lastUpdated"`
	// PendingInteraction is a single-slot mailbox: at most one interaction in
	// flight, newest wins, cleared only by the recipient.
	PendingInteraction *Interaction `json:"pendingInteraction"`
}

// SpaceModeState is the transient do-not-disturb session.
type SpaceModeState struct {
	IsActive      bool   `json:"isActive"`
	InitiatorID   string `json:"initiatorId"`
	InitiatorName string `json:"initiatorName"`
	EndTime       int64  `json:"endTime"`
	Reason        string `json:"reason,omitempty"`
}

// RoomData is the full shared room document, keyed by a 6-character code.
// JSON field names are the wire contract and must match stored documents
// field-for-field.
type RoomData struct {
	HostID     string    `json:"hostId"`
	GuestID    string    `json:"guestId,omitempty"`
	HostState  UserState `json:"hostState"`
	GuestState UserState `json:"guestState"`
	CreatedAt  int64     `json:"createdAt"`

	// Logs is append-only; insertion order is the only ordering authority.
	Logs []LogEntry `json:"logs"`

	// Conversation session fields, meaningful only while ConversationActive.
	ConversationActive      bool          `json:"conversationActive"`
	ConversationTopic       string        `json:"conversationTopic"`
	ConversationTrigger     Trigger       `json:"conversationTrigger,omitempty"`
	ConversationSourceLogID *string       `json:"conversationSourceLogId"`
	Messages                []ChatMessage `json:"messages"`

	SpaceMode *SpaceModeState `json:"spaceMode,omitempty"`
}

// IsMember reports whether userID holds one of the two participant slots.
func (r *RoomData) IsMember(userID string) bool {
	return r.HostID == userID || (r.GuestID != "" && r.GuestID == userID)
}

// IsHost reports whether userID holds the host slot.
func (r *RoomData) IsHost(userID string) bool {
	return r.HostID == userID
}

// PartnerID returns the other participant's id, or "" if the guest slot is
// still empty or userID is not a member.
func (r *RoomData) PartnerID(userID string) string {
	switch userID {
	case r.HostID:
		return r.GuestID
	case r.GuestID:
		return r.HostID
	}
	return ""
}

// StateOf returns the UserState slot owned by userID, or nil for non-members.
func (r *RoomData) StateOf(userID string) *UserState {
	switch userID {
	case r.HostID:
		return &r.HostState
	case r.GuestID:
		if r.GuestID != "" {
			return &r.GuestState
		}
	}
	return nil
}

// SpaceModeActive reports whether a space-mode window is currently open as of
// the given time.
func (r *RoomData) SpaceModeActive(now time.Time) bool {
	return r.SpaceMode != nil && r.SpaceMode.IsActive && r.SpaceMode.EndTime > now.UnixMilli()
}

// RoomRecord is the persistence row holding one room document as JSON.
type RoomRecord struct {
	Code     string `gorm:"primaryKey"`
	Document []byte `gorm:"type:jsonb;not null"`
	// Participants mirrors hostId/guestId out of the document so rooms can be
	// looked up by member without parsing every blob.
	Participants pq.StringArray `gorm:"type:text[]"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Decode unmarshals the stored document.
func (r *RoomRecord) Decode() (*RoomData, error) {
	var data RoomData
	if err := json.Unmarshal(r.Document, &data); err != nil {
		return nil, err
	}
	return &data, nil
}
