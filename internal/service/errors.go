package service

import (
	"context"
	"errors"

	"github.com/chatthy/chatthy/internal/backend"
	"github.com/chatthy/chatthy/internal/store"
	"github.com/chatthy/chatthy/models"
)

var (
	ErrEmptyMessage = errors.New("empty message content")
	ErrEmptyTitle   = errors.New("empty session title")

	// ErrPersistenceFailure wraps repository errors on operations where
	// durability was explicitly requested and its failure is fatal.
	ErrPersistenceFailure = errors.New("persistence failure")
)

// Wire error codes sent to clients in [models.WireError].
const (
	CodeNotFound           = "not_found"
	CodeConflict           = "conflict"
	CodeBadRequest         = "bad_request"
	CodeBackendUnavailable = "backend_unavailable"
	CodeBackendError       = "backend_error"
	CodeCancelled          = "cancelled"
	CodePersistence        = "persistence_failure"
	CodeInternal           = "internal"
)

// WireErrorFrom maps a service-layer error onto the structured wire form.
// Unrecognised errors collapse to the internal code with a generic message
// so internals never leak to clients.
func WireErrorFrom(err error) *models.WireError {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrSessionNotFound):
		return &models.WireError{Code: CodeNotFound, Message: "session not found"}
	case errors.Is(err, store.ErrGenerationInFlight):
		return &models.WireError{Code: CodeConflict, Message: "session already has a generation in flight"}
	case errors.Is(err, backend.ErrUnknownBackend):
		return &models.WireError{Code: CodeBadRequest, Message: err.Error()}
	case errors.Is(err, ErrEmptyMessage), errors.Is(err, ErrEmptyTitle):
		return &models.WireError{Code: CodeBadRequest, Message: err.Error()}
	case errors.Is(err, backend.ErrBackendUnavailable):
		return &models.WireError{Code: CodeBackendUnavailable, Message: "backend unavailable"}
	case errors.Is(err, backend.ErrBackendError):
		return &models.WireError{Code: CodeBackendError, Message: "backend failed mid-generation"}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &models.WireError{Code: CodeCancelled, Message: "generation cancelled"}
	case errors.Is(err, ErrPersistenceFailure):
		return &models.WireError{Code: CodePersistence, Message: "failed to persist session state"}
	default:
		return &models.WireError{Code: CodeInternal, Message: "internal server error"}
	}
}
