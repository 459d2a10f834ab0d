package store

import (
	"context"
	"fmt"

	"github.com/chatthy/chatthy/internal/config"
	"github.com/chatthy/chatthy/internal/logger"
)

// Storages groups the server-side storage layer into a single value that can
// be passed around the service layer.
type Storages struct {
	// Sessions is the authoritative in-memory session store.
	Sessions SessionStore

	// Repository is the optional durable persistence backend. Nil when the
	// server runs in memory-only mode (no database DSN configured).
	Repository SessionRepository
}

// NewStorages initialises the server storage layer using the supplied
// configuration and logger. It performs the following steps:
//  1. Constructs the in-memory session store sized by the configured writer
//     queue depth.
//  2. When a database DSN is configured, opens the PostgreSQL connection,
//     runs pending schema migrations via [DB.Migrate], and wires a
//     [SessionRepository] on top of it.
//
// Returns an error if the database connection cannot be established or if
// migration fails. An empty DSN is not an error: the server runs without
// durable persistence.
func NewStorages(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) (*Storages, error) {
	log.Info().Msg("creating new storages...")

	storages := &Storages{
		Sessions: NewMemoryStore(cfg.Server.WriterQueueDepth, log),
	}

	if cfg.Storage.DB.DSN == "" {
		log.Warn().Msg("no database DSN configured, running in memory-only mode")
		return storages, nil
	}

	db, err := NewConnectPostgres(ctx, cfg.Storage.DB, log)
	if err != nil {
		return nil, fmt.Errorf("postgres connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	storages.Repository = NewSessionRepository(db, log)

	return storages, nil
}
