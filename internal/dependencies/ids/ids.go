package ids

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/google/uuid"
)

// Generator produces identifiers that can be mocked for testing
type Generator interface {
	// NewID returns a new unique record identifier
	NewID() string

	// NewToken returns an unguessable session token
	NewToken() string
}

// UUIDGenerator issues random UUIDs for records and crypto/rand tokens
type UUIDGenerator struct{}

// New creates a new UUIDGenerator
func New() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() string {
	return uuid.NewString()
}

func (g *UUIDGenerator) NewToken() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return "sess_" + base64.RawURLEncoding.EncodeToString(b)
}
