package backend

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Sentinel errors surfaced by backends. The service layer maps these onto
// wire error codes; callers should match with [errors.Is].
var (
	// ErrUnknownBackend is returned when a request names a selector no
	// registered backend answers to.
	ErrUnknownBackend = errors.New("unknown backend")

	// ErrBackendUnavailable is returned when a backend cannot be reached
	// at all (dial failure, timeout before the first byte).
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrBackendError is returned when a reachable backend fails
	// mid-generation.
	ErrBackendError = errors.New("backend error")
)

// NormalizeError maps a raw backend failure onto the sentinel taxonomy.
// Context cancellation and deadline errors pass through untouched so the
// caller can distinguish a cooperative stop from a backend fault.
func NormalizeError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}

	return fmt.Errorf("%w: %w", ErrBackendError, err)
}
