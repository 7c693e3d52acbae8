package room_test

import (
	"strings"
	"testing"

	"lovesync/backend/internal/config"
	"lovesync/backend/internal/room"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCodeLengthAndAlphabet(t *testing.T) {
	for i := 0; i < 200; i++ {
		code := room.GenerateCode()
		assert.Len(t, code, config.RoomCodeLength)
		for _, r := range code {
			assert.Contains(t, config.RoomCodeAlphabet, string(r),
				"code %q contains a character outside the alphabet", code)
		}
	}
}

func TestGenerateCodeAvoidsAmbiguousCharacters(t *testing.T) {
	for _, forbidden := range []string{"I", "1", "O", "0"} {
		assert.NotContains(t, config.RoomCodeAlphabet, forbidden)
	}
	assert.Len(t, config.RoomCodeAlphabet, 32)
}

func TestGenerateCodeVariety(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		seen[room.GenerateCode()] = true
	}
	// 32^6 codes; 100 draws colliding would mean a broken generator.
	assert.Greater(t, len(seen), 95)
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "AB23CD", room.NormalizeCode("  ab23cd "))
	assert.Equal(t, "AB23CD", room.NormalizeCode("AB23CD"))
	assert.True(t, strings.EqualFold(room.NormalizeCode("ab23cd"), "ab23cd"))
}
