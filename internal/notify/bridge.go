// Package notify derives "new event since last seen" notifications from room
// snapshots. It diffs consecutive snapshots of a room (log length, pending
// interaction timestamps) and forwards title/body pairs to a delivery
// channel. Space mode suppresses delivery to the initiator while active.
package notify

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"lovesync/backend/internal/models"
	"lovesync/backend/internal/storage"
)

// Notifier displays a system notification for one linked chat.
type Notifier interface {
	Notify(chatID int64, title, body string) error
}

// Event is one derived notification for a specific recipient.
type Event struct {
	Code        string
	RecipientID string
	Title       string
	Body        string
}

// Diff compares two snapshots of the same room and derives the notifications
// the newer one implies. A nil prev is the baseline snapshot and yields
// nothing. now feeds the space-mode suppression check.
func Diff(code string, prev, next *models.RoomData, now time.Time) []Event {
	if prev == nil || next == nil {
		return nil
	}
	var events []Event

	// New log entries announce themselves to the author's partner.
	if len(next.Logs) > len(prev.Logs) {
		for _, entry := range next.Logs[len(prev.Logs):] {
			recipient := next.PartnerID(entry.UserID)
			if recipient == "" || suppressed(next, recipient, now) {
				continue
			}
			events = append(events, Event{
				Code:        code,
				RecipientID: recipient,
				Title:       entry.UserName,
				Body:        logBody(&entry),
			})
		}
	}

	// A fresh pending interaction notifies the slot owner.
	events = appendInteractionEvent(events, code, next, next.HostID, &prev.HostState, &next.HostState, now)
	events = appendInteractionEvent(events, code, next, next.GuestID, &prev.GuestState, &next.GuestState, now)
	return events
}

func appendInteractionEvent(events []Event, code string, next *models.RoomData, owner string, prevState, nextState *models.UserState, now time.Time) []Event {
	cur := nextState.PendingInteraction
	if cur == nil || owner == "" {
		return events
	}
	if old := prevState.PendingInteraction; old != nil && old.Timestamp == cur.Timestamp {
		return events
	}
	if suppressed(next, owner, now) {
		return events
	}
	return append(events, Event{
		Code:        code,
		RecipientID: owner,
		Title:       cur.SenderName,
		Body:        fmt.Sprintf("Sent you a %s", cur.Type),
	})
}

// suppressed reports whether notifications to recipient are muted: the
// space-mode initiator hears nothing while their window is open.
func suppressed(data *models.RoomData, recipient string, now time.Time) bool {
	return data.SpaceModeActive(now) && data.SpaceMode.InitiatorID == recipient
}

func logBody(entry *models.LogEntry) string {
	switch entry.Type {
	case models.LogTypeMood:
		if entry.Note != "" {
			return fmt.Sprintf("Feeling %s: %s", entry.Mood, entry.Note)
		}
		return fmt.Sprintf("Feeling %s", entry.Mood)
	default:
		return entry.Note
	}
}

// Bridge subscribes to room events and pushes derived notifications through
// the configured Notifier, using the per-room device->chat bindings.
type Bridge struct {
	Storage  storage.Storage
	Notifier Notifier

	lastSeen map[string]*models.RoomData
}

func NewBridge(s storage.Storage, n Notifier) *Bridge {
	return &Bridge{
		Storage:  s,
		Notifier: n,
		lastSeen: make(map[string]*models.RoomData),
	}
}

// Run consumes the room event stream. It keeps the last snapshot per room and
// diffs each new one against it.
func (b *Bridge) Run() {
	pubsub := b.Storage.SubscribeRooms()
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var event models.RoomEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("Error unmarshalling room event: %v", err)
			continue
		}
		b.Handle(event)
	}
}

// Handle processes one room event.
func (b *Bridge) Handle(event models.RoomEvent) {
	if event.Deleted {
		delete(b.lastSeen, event.Code)
		return
	}
	prev := b.lastSeen[event.Code]
	b.lastSeen[event.Code] = event.Room

	events := Diff(event.Code, prev, event.Room, time.Now())
	if len(events) == 0 {
		return
	}
	bindings, err := b.Storage.NotifyBindings(event.Code)
	if err != nil {
		log.Printf("ERROR: Failed to load notify bindings for %s: %v", event.Code, err)
		return
	}
	for _, ev := range events {
		chatID, ok := bindings[ev.RecipientID]
		if !ok {
			continue
		}
		if err := b.Notifier.Notify(chatID, ev.Title, ev.Body); err != nil {
			log.Printf("ERROR: Failed to deliver notification for %s: %v", event.Code, err)
		}
	}
}
