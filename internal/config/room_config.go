package config

const (
	// Room codes: 32 symbols, no I/1/O/0, fixed length 6.
	RoomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	RoomCodeLength   = 6
	// CreateRoom re-rolls on a code collision this many times before failing.
	RoomCodeAttempts = 5

	// Initial participant state
	DefaultMood        = "happy"
	InitialNote        = "Just joined!"
	WaitingPartnerName = "Waiting for partner..."
	InitialBattery     = 100

	// ClearRoomLogs resets both moods to this fixed fresh-start value.
	FreshStartNote = "Fresh start!"

	// Conversation archive titles by trigger
	ConversationTitleNeeds = "Game Plan"
	ConversationTitleRough = "Heart-to-Heart"

	// Space-mode history entry
	SpaceModeIcon        = "Ghost"
	SpaceModeDefaultNote = "Taking some space"

	// Chat message cap enforced at the API boundary, not a core guarantee.
	MaxChatMessageLen = 100
)
