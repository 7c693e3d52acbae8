package storage

import (
	"context"
	"errors"

	"lovesync/backend/internal/models"
	"lovesync/backend/internal/patch"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ErrRoomNotFound is returned when an operation targets a code with no
// backing document. Callers decide whether it surfaces softly or hard.
var ErrRoomNotFound = errors.New("room not found")

type Storage interface {
	CreateRoom(code string, data *models.RoomData) error
	GetRoom(code string) (*models.RoomData, error)
	RoomExists(code string) (bool, error)
	// ApplyPatch applies one partial update as a single atomic document write
	// and publishes the resulting snapshot.
	ApplyPatch(code string, p *patch.Patch) error
	// UpdateRoom builds a patch from the current document while the row is
	// locked. Used where a conditional write is required (guest-slot claim).
	UpdateRoom(code string, build func(*models.RoomData) (*patch.Patch, error)) error
	DeleteRoom(code string) error
	ListRoomCodes() ([]string, error)

	PublishSnapshot(code string, data *models.RoomData) error
	SubscribeRooms() *redis.PubSub

	// Space-mode sweep work list
	MarkSpaceActive(code string) error
	ClearSpaceActive(code string) error
	SpaceActiveRooms() ([]string, error)

	// Notification bridge bindings: device id -> telegram chat id, per room.
	SaveNotifyBinding(code, userID string, chatID int64) error
	NotifyBindings(code string) (map[string]int64, error)
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}
