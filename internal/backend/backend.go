// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The chatthy Authors

// Package backend defines the pluggable responder interface and its
// implementations. A backend receives a session's conversation history and
// produces the assistant reply as an incremental stream of text chunks.
package backend

import (
	"context"

	"github.com/chatthy/chatthy/models"
)

// Request carries everything a backend needs to produce one reply.
type Request struct {
	// SessionID identifies the originating session, for logging only.
	SessionID string

	// Messages is the ordered conversation history, ending with the user
	// message that triggered the generation.
	Messages []models.Message
}

// Backend is a pluggable responder. Implementations must be safe for
// concurrent use; one Backend value serves all sessions.
type Backend interface {
	// Handle returns the selector under which the backend is registered.
	Handle() models.BackendHandle

	// Stream starts a generation and returns the chunk stream. Cancelling
	// ctx stops the generation; the stream then surfaces ctx's error.
	Stream(ctx context.Context, req Request) (Stream, error)
}

// Stream is the incremental reply produced by a [Backend].
type Stream interface {
	// Next returns the next text chunk. It returns io.EOF after the final
	// chunk, or the normalized backend error on failure.
	Next() (string, error)

	// Close releases the stream's resources. Safe to call at any point;
	// an unfinished generation is aborted.
	Close() error
}
