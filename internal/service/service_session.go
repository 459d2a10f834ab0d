package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/chatthy/chatthy/internal/backend"
	"github.com/chatthy/chatthy/internal/logger"
	"github.com/chatthy/chatthy/internal/registry"
	"github.com/chatthy/chatthy/internal/store"
	"github.com/chatthy/chatthy/models"
)

type sessionService struct {
	sessions store.SessionStore
	repo     store.SessionRepository
	backends *backend.Backends
	registry *registry.Registry

	logger *logger.Logger
}

func NewSessionService(storages *store.Storages, backends *backend.Backends, reg *registry.Registry, logger *logger.Logger) SessionService {
	return &sessionService{
		sessions: storages.Sessions,
		repo:     storages.Repository,
		backends: backends,
		registry: reg,
		logger:   logger,
	}
}

func (s *sessionService) Create(ctx context.Context, title string, handle models.BackendHandle) (models.SessionMeta, error) {
	b, err := s.backends.Resolve(handle)
	if err != nil {
		return models.SessionMeta{}, err
	}

	meta := s.sessions.Create(title, b.Handle())

	// Persistence is write-behind: a failed save is logged, the session
	// stays usable in memory.
	if s.repo != nil {
		if saveErr := s.repo.SaveSession(ctx, meta); saveErr != nil {
			s.logger.Warn().Err(saveErr).
				Str("func", "sessionService.Create").
				Str("session_id", meta.ID).
				Msg("failed to persist new session")
		}
	}

	return meta, nil
}

func (s *sessionService) Resolve(ctx context.Context, id string, handle models.BackendHandle) (models.SessionMeta, error) {
	if id == "" || id == models.NewSessionID {
		return s.Create(ctx, "", handle)
	}

	session, err := s.load(ctx, id)
	if err != nil {
		return models.SessionMeta{}, err
	}

	return session.Meta(), nil
}

// load returns the live session, restoring it from the repository when it
// is not in memory.
func (s *sessionService) load(ctx context.Context, id string) (models.Session, error) {
	session, err := s.sessions.Get(id)
	if err == nil {
		return session, nil
	}
	if s.repo == nil {
		return models.Session{}, err
	}

	persisted, repoErr := s.repo.GetSession(ctx, id)
	if repoErr != nil {
		return models.Session{}, repoErr
	}

	s.logger.Debug().
		Str("func", "sessionService.load").
		Str("session_id", id).
		Int("history_len", len(persisted.Messages)).
		Msg("session restored from repository")

	s.sessions.Restore(persisted)

	return s.sessions.Get(id)
}

func (s *sessionService) List(ctx context.Context) ([]models.SessionMeta, error) {
	live := s.sessions.List()
	if s.repo == nil {
		return live, nil
	}

	persisted, err := s.repo.ListSessions(ctx)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("func", "sessionService.List").
			Msg("failed to list persisted sessions, returning live only")
		return live, nil
	}

	seen := make(map[string]struct{}, len(live))
	for _, meta := range live {
		seen[meta.ID] = struct{}{}
	}

	merged := live
	for _, meta := range persisted {
		if _, ok := seen[meta.ID]; !ok {
			merged = append(merged, meta)
		}
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].LastActivityAt.After(merged[j].LastActivityAt)
	})

	return merged, nil
}

func (s *sessionService) History(ctx context.Context, id string) ([]models.Message, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	return session.Messages, nil
}

func (s *sessionService) Rename(ctx context.Context, id, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}

	if err := s.sessions.Rename(id, title); err != nil {
		return err
	}

	if s.repo != nil {
		session, err := s.sessions.Get(id)
		if err == nil {
			if saveErr := s.repo.SaveSession(ctx, session.Meta()); saveErr != nil {
				s.logger.Warn().Err(saveErr).
					Str("func", "sessionService.Rename").
					Str("session_id", id).
					Msg("failed to persist renamed session")
			}
		}
	}

	return nil
}

func (s *sessionService) Delete(ctx context.Context, id string) error {
	// Reject unknown identifiers before touching anything.
	if _, err := s.load(ctx, id); err != nil {
		return err
	}

	s.sessions.Evict(id)
	s.registry.DropSession(id)

	if s.repo != nil {
		if err := s.repo.DeleteSession(ctx, id); err != nil {
			return fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
		}
	}

	return nil
}

func (s *sessionService) Checkpoint(ctx context.Context, id string) error {
	session, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if s.repo == nil {
		return fmt.Errorf("%w: no repository configured", ErrPersistenceFailure)
	}

	if err := s.repo.SaveSession(ctx, session.Meta()); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
	}
	for _, msg := range session.Messages {
		if !msg.Status.Terminal() {
			continue
		}
		if err := s.repo.SaveMessage(ctx, msg); err != nil {
			return fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
		}
	}

	s.logger.Debug().
		Str("func", "sessionService.Checkpoint").
		Str("session_id", id).
		Int("messages", len(session.Messages)).
		Msg("session checkpointed")

	return nil
}

func (s *sessionService) EvictIdle(ctx context.Context, ttl time.Duration) []string {
	cutoff := time.Now().UTC().Add(-ttl)

	// Checkpoint candidates before eviction so restoring them later loses
	// nothing. Sessions that become active between the checkpoint and the
	// eviction scan are skipped by the store.
	if s.repo != nil {
		for _, meta := range s.sessions.List() {
			if meta.LastActivityAt.After(cutoff) {
				continue
			}
			if err := s.Checkpoint(ctx, meta.ID); err != nil {
				s.logger.Warn().Err(err).
					Str("func", "sessionService.EvictIdle").
					Str("session_id", meta.ID).
					Msg("failed to checkpoint idle session before eviction")
			}
		}
	}

	evicted := s.sessions.EvictIdle(cutoff)
	for _, id := range evicted {
		s.registry.DropSession(id)
	}

	if len(evicted) > 0 {
		s.logger.Info().
			Str("func", "sessionService.EvictIdle").
			Int("count", len(evicted)).
			Msg("idle sessions evicted")
	}

	return evicted
}
