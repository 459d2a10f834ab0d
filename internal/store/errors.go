package store

import "errors"

// Sentinel errors returned by session store and repository methods to signal
// well-known failure conditions. Callers should use [errors.Is] to match
// against these values.
var (
	// ErrSessionNotFound is returned when an operation references a session
	// identifier that is not present in the in-memory store (or, for the
	// repository, in the database).
	ErrSessionNotFound = errors.New("session was not found")

	// ErrGenerationInFlight is returned when a writer token cannot be
	// acquired because the session already has an in-flight generation and
	// the contention queue is full (or queuing is disabled).
	ErrGenerationInFlight = errors.New("session already has a generation in flight")

	// ErrStaleWriterToken is returned when a mutation is attempted with a
	// writer token that has already been released or superseded. Guards
	// against a cancelled-then-retried generation corrupting history.
	ErrStaleWriterToken = errors.New("stale writer token")

	// ErrMessageNotStreaming is returned by BeginStreaming bookkeeping when
	// the handle's message is missing; chunk updates after finalize are a
	// silent no-op instead.
	ErrMessageNotStreaming = errors.New("message is not streaming")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan session row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan session rows")
)
