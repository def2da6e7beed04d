package a2a

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

const (
	messageIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	messageIDLength   = 24
)

// NewMessageID returns a random 24-character [a-z0-9] token.
func NewMessageID() string {
	buf := make([]byte, messageIDLength)
	max := big.NewInt(int64(len(messageIDAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand does not fail on supported platforms.
			panic(err)
		}
		buf[i] = messageIDAlphabet[n.Int64()]
	}
	return string(buf)
}

func orNewUUID(id string) string {
	if id != "" {
		return id
	}
	return uuid.New().String()
}
