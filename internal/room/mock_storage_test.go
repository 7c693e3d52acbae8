package room_test

import (
	"encoding/json"

	"lovesync/backend/internal/models"
	"lovesync/backend/internal/patch"
	"lovesync/backend/internal/storage"

	"github.com/redis/go-redis/v9"
)

// memStore is an in-memory Storage with the same semantics as the real one:
// documents are JSON maps, each patch applies as one atomic write, and every
// write publishes a snapshot (recorded in Events for assertions).
type memStore struct {
	docs        map[string]map[string]any
	spaceActive map[string]bool
	bindings    map[string]map[string]int64
	Events      []models.RoomEvent
}

func newMemStore() *memStore {
	return &memStore{
		docs:        make(map[string]map[string]any),
		spaceActive: make(map[string]bool),
		bindings:    make(map[string]map[string]int64),
	}
}

func (m *memStore) CreateRoom(code string, data *models.RoomData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	doc := make(map[string]any)
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	m.docs[code] = doc
	return m.PublishSnapshot(code, data)
}

func (m *memStore) GetRoom(code string) (*models.RoomData, error) {
	doc, ok := m.docs[code]
	if !ok {
		return nil, nil
	}
	return decodeDoc(doc)
}

func (m *memStore) RoomExists(code string) (bool, error) {
	_, ok := m.docs[code]
	return ok, nil
}

func (m *memStore) ApplyPatch(code string, p *patch.Patch) error {
	if p.IsEmpty() {
		return nil
	}
	doc, ok := m.docs[code]
	if !ok {
		return storage.ErrRoomNotFound
	}
	if err := p.Apply(doc); err != nil {
		return err
	}
	data, err := decodeDoc(doc)
	if err != nil {
		return err
	}
	return m.PublishSnapshot(code, data)
}

func (m *memStore) UpdateRoom(code string, build func(*models.RoomData) (*patch.Patch, error)) error {
	doc, ok := m.docs[code]
	if !ok {
		return storage.ErrRoomNotFound
	}
	current, err := decodeDoc(doc)
	if err != nil {
		return err
	}
	p, err := build(current)
	if err != nil {
		return err
	}
	if p == nil || p.IsEmpty() {
		return nil
	}
	if err := p.Apply(doc); err != nil {
		return err
	}
	data, err := decodeDoc(doc)
	if err != nil {
		return err
	}
	return m.PublishSnapshot(code, data)
}

func (m *memStore) DeleteRoom(code string) error {
	if _, ok := m.docs[code]; !ok {
		return storage.ErrRoomNotFound
	}
	delete(m.docs, code)
	delete(m.bindings, code)
	m.Events = append(m.Events, models.RoomEvent{Code: code, Deleted: true})
	return nil
}

func (m *memStore) ListRoomCodes() ([]string, error) {
	codes := make([]string, 0, len(m.docs))
	for code := range m.docs {
		codes = append(codes, code)
	}
	return codes, nil
}

func (m *memStore) PublishSnapshot(code string, data *models.RoomData) error {
	m.Events = append(m.Events, models.RoomEvent{Code: code, Room: data})
	return nil
}

func (m *memStore) SubscribeRooms() *redis.PubSub { return nil }

func (m *memStore) MarkSpaceActive(code string) error {
	m.spaceActive[code] = true
	return nil
}

func (m *memStore) ClearSpaceActive(code string) error {
	delete(m.spaceActive, code)
	return nil
}

func (m *memStore) SpaceActiveRooms() ([]string, error) {
	codes := make([]string, 0, len(m.spaceActive))
	for code := range m.spaceActive {
		codes = append(codes, code)
	}
	return codes, nil
}

func (m *memStore) SaveNotifyBinding(code, userID string, chatID int64) error {
	if m.bindings[code] == nil {
		m.bindings[code] = make(map[string]int64)
	}
	m.bindings[code][userID] = chatID
	return nil
}

func (m *memStore) NotifyBindings(code string) (map[string]int64, error) {
	return m.bindings[code], nil
}

func decodeDoc(doc map[string]any) (*models.RoomData, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var data models.RoomData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return &data, nil
}
