package backend

import (
	"context"
	"fmt"

	"github.com/chatthy/chatthy/internal/config"
	"github.com/chatthy/chatthy/internal/logger"
	"github.com/chatthy/chatthy/models"
)

// Backends is the set of registered responders plus the server default.
type Backends struct {
	// Default is the selector used when a request names no backend.
	Default models.BackendHandle

	backends map[models.BackendHandle]Backend
}

// NewBackends initialises every responder the configuration enables. The
// echo backend is always registered; Gemini and OpenAI join the set only
// when their credentials are present.
//
// Returns an error when the configured default names a backend that ended
// up not being registered.
func NewBackends(ctx context.Context, cfg config.Backends, log *logger.Logger) (*Backends, error) {
	b := &Backends{
		Default:  models.BackendHandle(cfg.Default),
		backends: make(map[models.BackendHandle]Backend),
	}

	b.register(NewEcho(cfg.Echo))

	if cfg.Gemini.APIKey != "" {
		gemini, err := NewGemini(ctx, cfg.Gemini, log)
		if err != nil {
			return nil, fmt.Errorf("initialising gemini backend: %w", err)
		}
		b.register(gemini)
	}

	if cfg.OpenAI.BaseURL != "" {
		b.register(NewOpenAI(cfg.OpenAI, log))
	}

	if _, ok := b.backends[b.Default]; !ok {
		return nil, fmt.Errorf("%w: default backend %q is not registered", ErrUnknownBackend, b.Default)
	}

	log.Info().
		Str("default", string(b.Default)).
		Int("count", len(b.backends)).
		Msg("backends registered")

	return b, nil
}

func (b *Backends) register(backend Backend) {
	b.backends[backend.Handle()] = backend
}

// Resolve returns the backend registered under the given selector. The
// empty selector resolves to the default backend.
func (b *Backends) Resolve(handle models.BackendHandle) (Backend, error) {
	if handle == "" {
		handle = b.Default
	}

	backend, ok := b.backends[handle]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, handle)
	}

	return backend, nil
}

// Handles returns the selectors of every registered backend.
func (b *Backends) Handles() []models.BackendHandle {
	handles := make([]models.BackendHandle, 0, len(b.backends))
	for handle := range b.backends {
		handles = append(handles, handle)
	}

	return handles
}
