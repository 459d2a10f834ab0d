package store

import (
	"context"
	"fmt"

	"github.com/chatthy/chatthy/internal/config"
	"github.com/chatthy/chatthy/internal/logger"
)

// ClientStorages groups all client-side storage repositories into a single
// value that can be passed around the client. Currently it holds only
// [TranscriptRepository]; additional repositories can be added here as the
// feature set grows.
type ClientStorages struct {
	// Transcripts is the SQLite-backed local transcript cache. Nil when
	// the cache is disabled (no database path configured).
	Transcripts TranscriptRepository
}

// NewClientStorages initialises the client storage layer using the supplied
// configuration and logger. It opens an SQLite connection to the configured
// file path, creating the database file and schema if they do not yet exist.
//
// An empty DBPath disables the cache and is not an error.
func NewClientStorages(cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	if cfg.DBPath == "" {
		logger.Debug().Msg("transcript cache disabled")
		return &ClientStorages{}, nil
	}

	db, err := NewConnectSQLite(context.Background(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	return &ClientStorages{
		Transcripts: NewTranscriptRepository(db, logger),
	}, nil
}
