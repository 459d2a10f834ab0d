package utils

import "github.com/google/uuid"

// UUIDGenerator mints the identifiers handed to sessions, messages and
// connections. UUIDv7 keeps them time-ordered, which makes persisted
// sessions index-friendly and never reuses an identifier within a server
// lifetime.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a fresh UUIDv7 string, degrading to random v4 when the
// system clock source fails.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
