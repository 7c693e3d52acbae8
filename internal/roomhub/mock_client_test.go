package roomhub_test

import (
	"lovesync/backend/internal/models"
)

type MockClient struct {
	userID      string
	roomCode    string
	closed      bool
	RecvChannel chan models.RoomEvent
}

func newMockClient(userID, roomCode string) *MockClient {
	return &MockClient{
		userID:      userID,
		roomCode:    roomCode,
		RecvChannel: make(chan models.RoomEvent, 10),
	}
}

func (c *MockClient) GetUserID() string {
	return c.userID
}

func (c *MockClient) GetRoomCode() string {
	return c.roomCode
}

func (c *MockClient) GetSendChannel() chan<- models.RoomEvent {
	return c.RecvChannel
}

func (c *MockClient) Run() {
	// Not needed for testing
}

func (c *MockClient) Close() {
	c.closed = true
}
