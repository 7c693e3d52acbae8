// Package scheduler runs the periodic space-mode expiry sweep. Expiry is a
// polled, one-way transition rather than a precise timer: the sweep compares
// each open window's deadline to the current time and flips the flag, which
// is safe to race because flipping an already-closed window is a no-op.
package scheduler

import (
	"log"
	"time"

	"lovesync/backend/internal/room"
	"lovesync/backend/internal/storage"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cron    *cron.Cron
	rooms   *room.Service
	storage storage.Storage
}

func New(rooms *room.Service, s storage.Storage) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		rooms:   rooms,
		storage: s,
	}
}

// Start registers the sweep under the given cron spec (e.g. "@every 1m") and
// starts the scheduler.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.SweepSpaceMode); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("Scheduler started, space-mode sweep on %q", spec)
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Scheduler stopped")
}

// SweepSpaceMode walks every room with an open space-mode window and expires
// the elapsed ones.
func (s *Scheduler) SweepSpaceMode() {
	codes, err := s.storage.SpaceActiveRooms()
	if err != nil {
		log.Printf("ERROR: Failed to list space-mode rooms: %v", err)
		return
	}
	for _, code := range codes {
		if err := s.rooms.ExpireSpaceMode(code); err != nil {
			log.Printf("ERROR: Failed to expire space mode for %s: %v", code, err)
		}
	}
}
