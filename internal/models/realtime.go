package models

// RoomEvent is the envelope published on the per-room pub/sub channel after
// every document write. Deleted events carry no Room and tell subscribers the
// room was destroyed.
type RoomEvent struct {
	Code    string    `json:"code"`
	Deleted bool      `json:"deleted,omitempty"`
	Room    *RoomData `json:"room,omitempty"`
}
