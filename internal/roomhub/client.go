package roomhub

import "lovesync/backend/internal/models"

// Client is the interface for one active room subscription, whatever the
// transport underneath. The hub pushes full-document snapshots through it and
// a deleted sentinel when the room is destroyed.
type Client interface {
	// GetUserID returns the stable anonymous device id behind the subscription.
	GetUserID() string
	// GetRoomCode returns the code of the room this client observes.
	GetRoomCode() string

	// GetSendChannel returns the channel the hub pushes room events into.
	GetSendChannel() chan<- models.RoomEvent

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts down the client's connection and channels.
	Close()
}
