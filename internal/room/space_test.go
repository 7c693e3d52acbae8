package room_test

import (
	"testing"
	"time"

	"lovesync/backend/internal/config"
	"lovesync/backend/internal/models"
	"lovesync/backend/internal/room"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivateSpaceMode(t *testing.T) {
	svc, store := newTestService()
	code := createJoinedRoom(t, svc)

	start := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return start }

	require.NoError(t, svc.ActivateSpaceMode(code, guestID, "Sam", 30, "Need to decompress"))

	data, _ := store.GetRoom(code)
	require.NotNil(t, data.SpaceMode)
	assert.True(t, data.SpaceMode.IsActive)
	assert.Equal(t, guestID, data.SpaceMode.InitiatorID)
	assert.Equal(t, "Sam", data.SpaceMode.InitiatorName)
	assert.Equal(t, start.Add(30*time.Minute).UnixMilli(), data.SpaceMode.EndTime)
	assert.Equal(t, "Need to decompress", data.SpaceMode.Reason)

	// The activation leaves a visible trace in the shared history.
	require.Len(t, data.Logs, 1)
	entry := data.Logs[0]
	assert.Equal(t, models.LogTypeAction, entry.Type)
	assert.Equal(t, models.CategoryRough, entry.Category)
	assert.Equal(t, config.SpaceModeIcon, entry.Icon)
	assert.Equal(t, "Need to decompress", entry.Note)

	assert.True(t, store.spaceActive[code], "room enters the sweep set")
}

func TestActivateSpaceModeDefaultNote(t *testing.T) {
	svc, store := newTestService()
	code := createJoinedRoom(t, svc)

	require.NoError(t, svc.ActivateSpaceMode(code, hostID, "Alex", 15, ""))

	data, _ := store.GetRoom(code)
	assert.Equal(t, config.SpaceModeDefaultNote, data.Logs[0].Note)
	assert.Empty(t, data.SpaceMode.Reason)
}

func TestActivateSpaceModeNonMember(t *testing.T) {
	svc, _ := newTestService()
	code := createJoinedRoom(t, svc)

	err := svc.ActivateSpaceMode(code, "device-stranger", "Mallory", 30, "")
	assert.ErrorIs(t, err, room.ErrNotMember)
}

func TestSpaceModeActiveWindow(t *testing.T) {
	svc, store := newTestService()
	code := createJoinedRoom(t, svc)

	start := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return start }
	require.NoError(t, svc.ActivateSpaceMode(code, hostID, "Alex", 30, ""))

	data, _ := store.GetRoom(code)
	assert.True(t, data.SpaceModeActive(start.Add(29*time.Minute)))
	assert.False(t, data.SpaceModeActive(start.Add(31*time.Minute)))
}

func TestEndSpaceModeInitiatorOnly(t *testing.T) {
	svc, store := newTestService()
	code := createJoinedRoom(t, svc)
	require.NoError(t, svc.ActivateSpaceMode(code, hostID, "Alex", 30, ""))

	err := svc.EndSpaceMode(code, guestID)
	assert.ErrorIs(t, err, room.ErrNotInitiator)

	require.NoError(t, svc.EndSpaceMode(code, hostID))
	data, _ := store.GetRoom(code)
	assert.False(t, data.SpaceMode.IsActive)
	assert.False(t, store.spaceActive[code])

	// Once inactive, anyone may call end without effect or error.
	assert.NoError(t, svc.EndSpaceMode(code, guestID))
}

func TestExpireSpaceMode(t *testing.T) {
	svc, store := newTestService()
	code := createJoinedRoom(t, svc)

	start := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return start }
	require.NoError(t, svc.ActivateSpaceMode(code, hostID, "Alex", 30, ""))

	// Before the deadline the sweep leaves everything in place.
	svc.Now = func() time.Time { return start.Add(29 * time.Minute) }
	require.NoError(t, svc.ExpireSpaceMode(code))
	data, _ := store.GetRoom(code)
	assert.True(t, data.SpaceMode.IsActive)
	assert.True(t, store.spaceActive[code])

	// After the deadline the window flips and the marker is dropped.
	svc.Now = func() time.Time { return start.Add(31 * time.Minute) }
	require.NoError(t, svc.ExpireSpaceMode(code))
	data, _ = store.GetRoom(code)
	assert.False(t, data.SpaceMode.IsActive)
	assert.False(t, store.spaceActive[code])

	// Re-running the sweep against the flipped window stays quiet.
	require.NoError(t, svc.ExpireSpaceMode(code))
}

func TestExpireSpaceModeRoomGone(t *testing.T) {
	svc, store := newTestService()
	code := createJoinedRoom(t, svc)
	require.NoError(t, svc.ActivateSpaceMode(code, hostID, "Alex", 30, ""))
	require.NoError(t, svc.DeleteRoom(code))

	require.NoError(t, svc.ExpireSpaceMode(code))
	assert.False(t, store.spaceActive[code], "stale marker cleaned up")
}
