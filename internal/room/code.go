package room

import (
	"crypto/rand"
	"math/big"

	"lovesync/backend/internal/config"
)

// GenerateCode produces a 6-character human-shareable room code. The alphabet
// drops I, 1, O and 0 so codes survive being read aloud or handwritten.
func GenerateCode() string {
	alphabet := config.RoomCodeAlphabet
	code := make([]byte, config.RoomCodeLength)
	max := big.NewInt(int64(len(alphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken.
			panic(err)
		}
		code[i] = alphabet[n.Int64()]
	}
	return string(code)
}
