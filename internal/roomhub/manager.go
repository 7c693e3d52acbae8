// Package roomhub fans room document snapshots out to subscribed clients.
// Every document write lands on a per-room redis channel; the hub listens to
// all of them and pushes each event to the clients observing that room.
package roomhub

import (
	"encoding/json"
	"log"

	"lovesync/backend/internal/models"
	"lovesync/backend/internal/storage"
)

// ManagerService is the central dispatcher for room subscriptions.
type ManagerService struct {
	// Clients holds every live subscription. A device observes at most one
	// room at a time, so subscriptions are keyed by user id and a newer
	// subscription displaces the older one.
	Clients map[string]Client

	RegisterCh   chan Client
	UnregisterCh chan Client
	// PubSubCh receives room events decoded from redis.
	PubSubCh chan models.RoomEvent

	Storage storage.Storage
}

func NewManagerService(s storage.Storage) *ManagerService {
	return &ManagerService{
		Clients:      make(map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		PubSubCh:     make(chan models.RoomEvent, 64),
		Storage:      s,
	}
}

// StartPubSubListener runs the goroutine feeding redis room events into the
// hub's main loop.
func (m *ManagerService) StartPubSubListener() {
	pubsub := m.Storage.SubscribeRooms()
	go func() {
		defer pubsub.Close()
		for msg := range pubsub.Channel() {
			var event models.RoomEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("Error unmarshalling room event: %v", err)
				continue
			}
			m.PubSubCh <- event
		}
	}()
}

// Run is the hub's main loop. Register/unregister and dispatch all happen on
// this single goroutine, so the Clients map needs no locking. The caller
// starts the pub/sub listener separately.
func (m *ManagerService) Run() {
	for {
		select {
		case client := <-m.RegisterCh:
			if previous, ok := m.Clients[client.GetUserID()]; ok && previous != client {
				previous.Close()
			}
			m.Clients[client.GetUserID()] = client

		case client := <-m.UnregisterCh:
			if current, ok := m.Clients[client.GetUserID()]; ok && current == client {
				delete(m.Clients, client.GetUserID())
			}

		case event := <-m.PubSubCh:
			m.dispatch(event)
		}
	}
}

func (m *ManagerService) dispatch(event models.RoomEvent) {
	for userID, client := range m.Clients {
		if client.GetRoomCode() != event.Code {
			continue
		}
		select {
		case client.GetSendChannel() <- event:
		default:
			// Slow consumer; drop the subscription rather than block the hub.
			log.Printf("Dropping slow subscriber %s for room %s", userID, event.Code)
			client.Close()
			delete(m.Clients, userID)
		}
	}
}
