package room

import (
	"errors"
	"time"

	"lovesync/backend/internal/config"
	"lovesync/backend/internal/models"
	"lovesync/backend/internal/patch"
	"lovesync/backend/internal/storage"
)

// ErrNotInitiator rejects an early space-mode termination by anyone other
// than the participant who started it.
var ErrNotInitiator = errors.New("only the initiator can end space mode early")

// ActivateSpaceMode opens a timed do-not-disturb window and records the event
// as a rough action entry so it stays visible in history after the window
// closes.
func (s *Service) ActivateSpaceMode(code, userID, userName string, minutes int, reason string) error {
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

	now := s.nowMillis()
	note := reason
	if note == "" {
		note = config.SpaceModeDefaultNote
	}
	state := models.SpaceModeState{
		IsActive:      true,
		InitiatorID:   userID,
		InitiatorName: userName,
		EndTime:       now + int64(minutes)*time.Minute.Milliseconds(),
		Reason:        reason,
	}
	entry := models.LogEntry{
		ID:        s.newID(),
		UserID:    userID,
		UserName:  userName,
		Type:      models.LogTypeAction,
		Category:  models.CategoryRough,
		Icon:      config.SpaceModeIcon,
		Note:      note,
		Timestamp: now,
	}
	err = s.Storage.ApplyPatch(code, patch.New().
		Set("spaceMode", state).
		Append("logs", entry))
	if err != nil {
		return err
	}
	return s.Storage.MarkSpaceActive(code)
}

// EndSpaceMode terminates the window early. Only the initiator may do this;
// ending an already-inactive window is a safe no-op.
func (s *Service) EndSpaceMode(code, userID string) error {
	data, err := s.Storage.GetRoom(code)
	if err != nil {
		return err
	}
	if data == nil {
		return storage.ErrRoomNotFound
	}
	if data.SpaceMode == nil || !data.SpaceMode.IsActive {
		return nil
	}
	if data.SpaceMode.InitiatorID != userID {
		return ErrNotInitiator
	}
	if err := s.Storage.ApplyPatch(code, patch.New().Set("spaceMode.isActive", false)); err != nil {
		return err
	}
	return s.Storage.ClearSpaceActive(code)
}

// ExpireSpaceMode flips an elapsed window to inactive. Several sweepers or
// clients may race to call this; flipping an already-false flag writes
// nothing, so the transition is idempotent.
func (s *Service) ExpireSpaceMode(code string) error {
	data, err := s.Storage.GetRoom(code)
	if err != nil {
		return err
	}
	if data == nil {
		// Room destroyed since it was marked; drop the marker.
		return s.Storage.ClearSpaceActive(code)
	}
	if data.SpaceMode == nil || !data.SpaceMode.IsActive {
		return s.Storage.ClearSpaceActive(code)
	}
	if data.SpaceMode.EndTime > s.nowMillis() {
		return nil
	}
	if err := s.Storage.ApplyPatch(code, patch.New().Set("spaceMode.isActive", false)); err != nil {
		return err
	}
	return s.Storage.ClearSpaceActive(code)
}
