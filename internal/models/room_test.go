package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"lovesync/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storedDocument is the shape clients already persist; decoding it must keep
// working across refactors.
const storedDocument = `{
	"hostId": "device-host",
	"guestId": "device-guest",
	"hostState": {
		"name": "Alex",
		"mood": "stressed",
		"note": "long day",
		"socialBattery": 40,
		"lastUpdated": 1700000000000,
		"pendingInteraction": {
			"type": "hug",
			"senderId": "device-guest",
			"senderName": "Sam",
			"timestamp": 1700000001000
		}
	},
	"guestState": {
		"name": "Sam",
		"mood": "happy",
		"note": "Just joined!",
		"socialBattery": 100,
		"lastUpdated": 1700000000000,
		"pendingInteraction": null
	},
	"createdAt": 1699999999000,
	"logs": [
		{
			"id": "l1",
			"userId": "SHARED",
			"userName": "Heart-to-Heart",
			"type": "conversation",
			"note": "Bad Meeting",
			"messages": [
				{"id": "m1", "senderId": "device-host", "senderName": "Alex", "text": "hey", "timestamp": 1700000002000}
			],
			"timestamp": 1700000000500
		},
		{
			"id": "l2",
			"userId": "device-host",
			"userName": "Alex",
			"type": "action",
			"category": "self_care",
			"icon": "Bath",
			"note": "Long Bath",
			"timestamp": 1700000003000
		}
	],
	"conversationActive": false,
	"conversationTopic": "",
	"conversationSourceLogId": null,
	"messages": [],
	"spaceMode": {
		"isActive": true,
		"initiatorId": "device-guest",
		"initiatorName": "Sam",
		"endTime": 1700000600000,
		"reason": "Need quiet"
	}
}`

func TestDecodeStoredDocument(t *testing.T) {
	var data models.RoomData
	require.NoError(t, json.Unmarshal([]byte(storedDocument), &data))

	assert.Equal(t, "device-host", data.HostID)
	assert.Equal(t, "device-guest", data.GuestID)
	assert.True(t, data.IsMember("device-guest"))
	assert.Equal(t, "device-host", data.PartnerID("device-guest"))

	require.NotNil(t, data.HostState.PendingInteraction)
	assert.Equal(t, models.InteractionHug, data.HostState.PendingInteraction.Type)
	assert.Nil(t, data.GuestState.PendingInteraction)

	require.Len(t, data.Logs, 2)
	assert.True(t, data.Logs[0].IsShared())
	assert.Len(t, data.Logs[0].Messages, 1)
	// Legacy category values stay readable.
	assert.Equal(t, models.CategorySelfCare, data.Logs[1].Category)

	assert.True(t, data.SpaceModeActive(time.UnixMilli(1700000599999)))
	assert.False(t, data.SpaceModeActive(time.UnixMilli(1700000600001)))
}

func TestRoomDataRoundTripKeepsNullSource(t *testing.T) {
	var data models.RoomData
	require.NoError(t, json.Unmarshal([]byte(storedDocument), &data))

	out, err := json.Marshal(&data)
	require.NoError(t, err)

	// The source-id key must stay present as an explicit null, not vanish.
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &raw))
	val, ok := raw["conversationSourceLogId"]
	require.True(t, ok)
	assert.Equal(t, "null", string(val))
}

func TestStateOf(t *testing.T) {
	data := &models.RoomData{HostID: "h", GuestID: "g"}
	data.HostState.Name = "Alex"

	require.NotNil(t, data.StateOf("h"))
	assert.Equal(t, "Alex", data.StateOf("h").Name)
	assert.NotNil(t, data.StateOf("g"))
	assert.Nil(t, data.StateOf("stranger"))
}
