package storage

import (
	"encoding/json"
	"errors"
	"log"
	"strconv"

	"lovesync/backend/internal/models"
	"lovesync/backend/internal/patch"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	roomChannelPrefix = "room:"
	spaceActiveKey    = "space_active"
	notifyKeyPrefix   = "notify:"
)

// RoomChannel returns the pub/sub channel name for a room code.
func RoomChannel(code string) string { return roomChannelPrefix + code }

// CreateRoom writes a brand-new room document and publishes its first snapshot.
func (s *Service) CreateRoom(code string, data *models.RoomData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	rec := models.RoomRecord{
		Code:         code,
		Document:     raw,
		Participants: participantsOf(data),
	}
	if err := s.DB.Create(&rec).Error; err != nil {
		log.Printf("ERROR: Failed to create room %s: %v", code, err)
		return err
	}
	return s.PublishSnapshot(code, data)
}

// GetRoom loads a room document. Returns (nil, nil) when the room is absent,
// so callers can apply soft-failure semantics.
func (s *Service) GetRoom(code string) (*models.RoomData, error) {
	var rec models.RoomRecord
	err := s.DB.First(&rec, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("ERROR: Failed to get room %s: %v", code, err)
		return nil, err
	}
	return rec.Decode()
}

func (s *Service) RoomExists(code string) (bool, error) {
	var count int64
	if err := s.DB.Model(&models.RoomRecord{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ApplyPatch locks the room row, applies the patch to the document map as one
// write, and publishes the resulting snapshot to subscribers.
func (s *Service) ApplyPatch(code string, p *patch.Patch) error {
	if p.IsEmpty() {
		return nil
	}
	var snapshot *models.RoomData
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		rec, doc, err := lockRoom(tx, code)
		if err != nil {
			return err
		}
		if err := p.Apply(doc); err != nil {
			return err
		}
		return saveRoom(tx, rec, doc, &snapshot)
	})
	if err != nil {
		return err
	}
	return s.PublishSnapshot(code, snapshot)
}

// UpdateRoom lets the caller inspect the current document under the row lock
// and decide what to write. A nil or empty patch commits nothing.
func (s *Service) UpdateRoom(code string, build func(*models.RoomData) (*patch.Patch, error)) error {
	var snapshot *models.RoomData
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		rec, doc, err := lockRoom(tx, code)
		if err != nil {
			return err
		}
		current, err := rec.Decode()
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
		return saveRoom(tx, rec, doc, &snapshot)
	})
	if err != nil {
		return err
	}
	if snapshot == nil {
		return nil
	}
	return s.PublishSnapshot(code, snapshot)
}

// DeleteRoom removes the document and propagates the null sentinel to all
// subscribers.
func (s *Service) DeleteRoom(code string) error {
	res := s.DB.Delete(&models.RoomRecord{}, "code = ?", code)
	if res.Error != nil {
		log.Printf("ERROR: Failed to delete room %s: %v", code, res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRoomNotFound
	}
	if err := s.Redis.Del(s.Ctx, notifyKeyPrefix+code).Err(); err != nil {
		log.Printf("ERROR: Failed to drop notify bindings for %s: %v", code, err)
	}
	return s.publish(code, models.RoomEvent{Code: code, Deleted: true})
}

func (s *Service) ListRoomCodes() ([]string, error) {
	var codes []string
	if err := s.DB.Model(&models.RoomRecord{}).Pluck("code", &codes).Error; err != nil {
		log.Printf("ERROR: Failed to list room codes: %v", err)
		return nil, err
	}
	return codes, nil
}

// PublishSnapshot pushes the full document to the room's pub/sub channel.
func (s *Service) PublishSnapshot(code string, data *models.RoomData) error {
	return s.publish(code, models.RoomEvent{Code: code, Room: data})
}

func (s *Service) publish(code string, event models.RoomEvent) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, RoomChannel(code), string(raw)).Err()
}

// SubscribeRooms subscribes to document changes for every room.
func (s *Service) SubscribeRooms() *redis.PubSub {
	return s.Redis.PSubscribe(s.Ctx, roomChannelPrefix+"*")
}

func (s *Service) MarkSpaceActive(code string) error {
	return s.Redis.SAdd(s.Ctx, spaceActiveKey, code).Err()
}

func (s *Service) ClearSpaceActive(code string) error {
	return s.Redis.SRem(s.Ctx, spaceActiveKey, code).Err()
}

// SpaceActiveRooms returns every room with an open space-mode window.
func (s *Service) SpaceActiveRooms() ([]string, error) {
	return s.Redis.SMembers(s.Ctx, spaceActiveKey).Result()
}

func (s *Service) SaveNotifyBinding(code, userID string, chatID int64) error {
	return s.Redis.HSet(s.Ctx, notifyKeyPrefix+code, userID, chatID).Err()
}

func (s *Service) NotifyBindings(code string) (map[string]int64, error) {
	raw, err := s.Redis.HGetAll(s.Ctx, notifyKeyPrefix+code).Result()
	if err != nil {
		return nil, err
	}
	bindings := make(map[string]int64, len(raw))
	for userID, chat := range raw {
		id, err := strconv.ParseInt(chat, 10, 64)
		if err != nil {
			log.Printf("ERROR: Bad notify binding for %s/%s: %v", code, userID, err)
			continue
		}
		bindings[userID] = id
	}
	return bindings, nil
}

func lockRoom(tx *gorm.DB, code string) (*models.RoomRecord, map[string]any, error) {
	var rec models.RoomRecord
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&rec, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	doc := make(map[string]any)
	if err := json.Unmarshal(rec.Document, &doc); err != nil {
		return nil, nil, err
	}
	return &rec, doc, nil
}

func saveRoom(tx *gorm.DB, rec *models.RoomRecord, doc map[string]any, snapshot **models.RoomData) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var data models.RoomData
	if err := json.Unmarshal(raw, &data); err != nil {
		return err
	}
	rec.Document = raw
	rec.Participants = participantsOf(&data)
	if err := tx.Save(rec).Error; err != nil {
		log.Printf("ERROR: Failed to save room %s: %v", rec.Code, err)
		return err
	}
	*snapshot = &data
	return nil
}

func participantsOf(data *models.RoomData) pq.StringArray {
	participants := pq.StringArray{data.HostID}
	if data.GuestID != "" {
		participants = append(participants, data.GuestID)
	}
	return participants
}
