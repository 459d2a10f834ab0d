package service

import (
	"context"
	"time"

	"github.com/chatthy/chatthy/models"
)

// SessionService implements session lifecycle operations: creation,
// resolution of the "new" sentinel, on-demand loading from the repository,
// listing, renaming, deletion, and explicit checkpointing.
type SessionService interface {
	// Create allocates a fresh session on the given backend selector.
	// An empty selector picks the server default; an unknown one fails
	// with [backend.ErrUnknownBackend].
	Create(ctx context.Context, title string, handle models.BackendHandle) (models.SessionMeta, error)

	// Resolve maps a client-supplied session identifier to a live session.
	// The "new" sentinel (or an empty identifier) creates a fresh session;
	// an identifier absent from memory is loaded from the repository when
	// one is configured.
	Resolve(ctx context.Context, id string, handle models.BackendHandle) (models.SessionMeta, error)

	// List returns the metadata of all known sessions, live and persisted,
	// most recently active first.
	List(ctx context.Context) ([]models.SessionMeta, error)

	// History returns the session's full ordered message history, loading
	// the session on demand.
	History(ctx context.Context, id string) ([]models.Message, error)

	// Rename changes the session title.
	Rename(ctx context.Context, id, title string) error

	// Delete evicts the session from memory and removes its persisted
	// state.
	Delete(ctx context.Context, id string) error

	// Checkpoint forces the session's current state to the repository.
	// Fails with [ErrPersistenceFailure] when the write does not land.
	Checkpoint(ctx context.Context, id string) error

	// EvictIdle checkpoints and evicts sessions idle longer than ttl,
	// returning the evicted identifiers.
	EvictIdle(ctx context.Context, ttl time.Duration) []string
}

// DispatchRequest carries one user message through a full generation.
type DispatchRequest struct {
	// SessionID is the resolved target session (never the "new" sentinel).
	SessionID string

	// RequestID is the client correlation identifier echoed on error and
	// warning envelopes raised by the generation.
	RequestID string

	// Content is the user message text.
	Content string

	// Backend optionally overrides the session's active backend for this
	// generation only.
	Backend models.BackendHandle
}

// Dispatcher runs the generation state machine: it appends the user message
// under the session's writer token, streams the backend reply chunk by chunk
// through the connection registry, finalizes the assistant message, and
// persists the completed turn.
type Dispatcher interface {
	// Dispatch runs one generation to completion. The passed context
	// scopes the generation to the server lifetime, not to any client
	// connection; delivery outlives disconnects via the registry buffers.
	Dispatch(ctx context.Context, req DispatchRequest) error

	// Cancel requests cooperative cancellation of the session's in-flight
	// generation. Reports whether a generation was running.
	Cancel(sessionID string) bool

	// Shutdown cancels every in-flight generation and waits for them to
	// finish, or for ctx to expire.
	Shutdown(ctx context.Context) error
}
