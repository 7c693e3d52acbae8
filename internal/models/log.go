package models

// LogType tags the variants of a LogEntry.
type LogType string

const (
	LogTypeMood         LogType = "mood"
	LogTypeAction       LogType = "action"
	LogTypeConversation LogType = "conversation"
)

// ActionCategory classifies quick-action entries. Older stored rooms may also
// carry the legacy "self_care" value, which is read but never written.
type ActionCategory string

const (
	CategoryRough    ActionCategory = "rough"
	CategoryNeeds    ActionCategory = "needs"
	CategorySelfCare ActionCategory = "self_care"
)

// SharedOwner is the sentinel userId on log entries owned jointly by both
// participants (archived conversations). It is part of the wire contract, so
// it stays a string rather than a separate field.
const SharedOwner = "SHARED"

// LogEntry is one history record in the room's append-only log. Entries are
// immutable once appended, except that closing a conversation may rewrite its
// source entry in place (type promoted action -> conversation).
type LogEntry struct {
	ID       string         `json:"id"`
	UserID   string         `json:"userId"`
	UserName string         `json:"userName"`
	Type     LogType        `json:"type"`
	Mood     Mood           `json:"mood,omitempty"`
	Category ActionCategory `json:"category,omitempty"`
	Icon     string         `json:"icon,omitempty"`
	Note     string         `json:"note"`
	Messages []ChatMessage  `json:"messages,omitempty"`
	// Timestamp is epoch millis; display layers re-sort by it descending.
	Timestamp int64 `json:"timestamp"`
}

// IsShared reports whether the entry is jointly owned.
func (e *LogEntry) IsShared() bool { return e.UserID == SharedOwner }

// ChatMessage is one line of an active conversation. Messages are append-only
// while the conversation runs and are copied into the archived log entry when
// it closes.
type ChatMessage struct {
	ID         string `json:"id"`
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
	Text       string `json:"text"`
	Timestamp  int64  `json:"timestamp"`
}

// InteractionType is a one-shot emotive signal.
type InteractionType string

const (
	InteractionHug  InteractionType = "hug"
	InteractionKiss InteractionType = "kiss"
	InteractionPoke InteractionType = "poke"
	InteractionLove InteractionType = "love"
)

// ValidInteraction reports whether t is one of the deployed interaction types.
func ValidInteraction(t InteractionType) bool {
	switch t {
	case InteractionHug, InteractionKiss, InteractionPoke, InteractionLove:
		return true
	}
	return false
}

// Interaction is the payload of a participant's pending-interaction slot.
type Interaction struct {
	Type       InteractionType `json:"type"`
	SenderID   string          `json:"senderId"`
	SenderName string          `json:"senderName"`
	Timestamp  int64           `json:"timestamp"`
}
