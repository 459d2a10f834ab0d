package store

//go:generate mockgen -source=interfaces.go -destination=../mock/session_repository_mock.go -package=mock

import (
	"context"
	"time"

	"github.com/chatthy/chatthy/models"
)

// WriterToken is the single-owner token that grants exclusive write access
// to one session's trailing message. At most one token per session is live
// at any instant; a generation must hold the token for its whole lifetime.
type WriterToken struct {
	SessionID string

	// gen is the store-internal generation counter captured at acquisition
	// time. A released or superseded token no longer matches the counter
	// and all mutations through it become no-ops or errors.
	gen uint64
}

// MessageHandle identifies the in-progress trailing message created by
// BeginStreaming. It embeds the writer token so every chunk write is checked
// against single-writer ownership.
type MessageHandle struct {
	Token     WriterToken
	MessageID string
}

// SessionStore is the single source of truth for live conversation state.
// It is the only component permitted to mutate a session's message sequence;
// everything else holds session identifiers and routes mutations through it.
//
// Implementations must be safe for concurrent use.
type SessionStore interface {
	// Create allocates a fresh session with an empty message sequence.
	// Never fails except on resource exhaustion.
	Create(title string, backend models.BackendHandle) models.SessionMeta

	// Restore inserts a previously persisted session into memory, keeping
	// its identifier and history. Used at startup and for on-demand loads.
	Restore(session models.Session)

	// Get returns a deep copy of the session.
	// Fails with ErrSessionNotFound for unknown identifiers.
	Get(id string) (models.Session, error)

	// List returns the metadata of all live sessions, most recently
	// active first.
	List() []models.SessionMeta

	// Rename changes the session title.
	Rename(id, title string) error

	// AcquireWriter obtains the session's single-writer token, waiting in
	// a bounded FIFO queue behind an in-flight generation. It fails with
	// ErrSessionNotFound for unknown identifiers, ErrGenerationInFlight
	// when the queue is full, and ctx.Err() when the caller gives up.
	AcquireWriter(ctx context.Context, id string) (WriterToken, error)

	// ReleaseWriter returns the token and wakes the next queued waiter.
	// Releasing a stale token is a no-op.
	ReleaseWriter(tok WriterToken)

	// Append adds a completed message (user or system role) to the session
	// under the writer token. Fails with ErrStaleWriterToken if tok is no
	// longer the live token for the session.
	Append(tok WriterToken, role models.Role, content string) (models.Message, error)

	// BeginStreaming appends the trailing assistant message in streaming
	// state and returns a handle for incremental updates.
	BeginStreaming(tok WriterToken) (MessageHandle, error)

	// UpdateStreaming appends chunk content to the in-progress message.
	// It is an idempotent no-op if the message has already been finalized
	// or the handle is stale (guards against races after cancellation).
	UpdateStreaming(handle MessageHandle, content string)

	// Finalize marks the handle's message with the given terminal status
	// and returns the assembled message. Calling Finalize again, or with a
	// stale handle, returns the message as stored without modifying it.
	Finalize(handle MessageHandle, status models.MessageStatus) (models.Message, error)

	// Evict removes the session from memory. Idempotent: evicting an
	// absent session is not an error. The identifier is never reused.
	Evict(id string)

	// EvictIdle removes sessions without an in-flight generation whose
	// last activity is older than the cutoff, returning the evicted IDs.
	EvictIdle(cutoff time.Time) []string
}

// SessionRepository is the durable persistence collaborator. Records written
// on finalize round-trip role, content, ordering, and completion status.
type SessionRepository interface {
	// SaveSession upserts the session row (id, title, backend, timestamps).
	SaveSession(ctx context.Context, meta models.SessionMeta) error

	// SaveMessage upserts one message row.
	SaveMessage(ctx context.Context, msg models.Message) error

	// GetSession loads a session with its full ordered history.
	// Fails with ErrSessionNotFound if the id is unknown.
	GetSession(ctx context.Context, id string) (models.Session, error)

	// ListSessions returns metadata of every persisted session.
	ListSessions(ctx context.Context) ([]models.SessionMeta, error)

	// DeleteSession removes the session and its messages.
	DeleteSession(ctx context.Context, id string) error
}

// ErrorClassificator assigns retry semantics to database errors.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
