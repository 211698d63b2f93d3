package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// tokenBytes is the entropy drawn per token; hex encoding doubles the
// printable length.
const tokenBytes = 32

type Generator interface {
	Generate() (string, error)
}

type generator struct{}

func NewGenerator() Generator {
	return &generator{}
}

// Generate returns a 64-character hex token backed by 256 bits of
// crypto/rand entropy. The token carries no information about the event,
// organizer or issuing time.
func (g *generator) Generate() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
