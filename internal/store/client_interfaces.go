package store

import (
	"context"

	"github.com/chatthy/chatthy/models"
)

// TranscriptRepository is the client-side local transcript cache. The client
// mirrors session metadata and finalized messages into it as they arrive, so
// past conversations can be browsed without a round trip to the server.
//
// The cache is best-effort: the server remains the source of truth and every
// write failure is logged and tolerated.
type TranscriptRepository interface {
	// SaveSession upserts the cached session row.
	SaveSession(ctx context.Context, meta models.SessionMeta) error

	// SaveMessages upserts a batch of finalized messages.
	SaveMessages(ctx context.Context, msgs []models.Message) error

	// GetSession loads a cached session with its full ordered history.
	// Fails with ErrSessionNotFound when the session is not cached.
	GetSession(ctx context.Context, id string) (models.Session, error)

	// ListSessions returns cached session metadata, most recently active
	// first.
	ListSessions(ctx context.Context) ([]models.SessionMeta, error)

	// DeleteSession removes the cached session and its messages.
	DeleteSession(ctx context.Context, id string) error
}
