// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The chatthy Authors

package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/chatthy/chatthy/internal/logger"
	"github.com/chatthy/chatthy/internal/utils"
	"github.com/chatthy/chatthy/models"
)

// MemoryStore is the authoritative in-memory [SessionStore]. All session
// mutations in the server flow through a MemoryStore; the SQL repository is
// an optional write-behind collaborator layered on top by the service.
//
// Writer ownership is tracked per session with a generation counter. A token
// captures the counter value at acquisition time; releasing or superseding
// the token bumps the counter, so mutations through an old token can be
// detected and refused without any token deallocation bookkeeping.
type MemoryStore struct {
	log  *logger.Logger
	uuid *utils.UUIDGenerator

	// queueDepth bounds the per-session FIFO of writers waiting behind an
	// in-flight generation. Zero disables queuing entirely.
	queueDepth int

	mu       sync.Mutex
	sessions map[string]*sessionState
}

// sessionState is the store-internal record for one live session.
type sessionState struct {
	session models.Session

	// writerLive reports whether the current generation holds the token.
	writerLive bool

	// gen is incremented every time the token is granted. A WriterToken is
	// valid only while its captured value equals gen and writerLive is set.
	gen uint64

	// waiters is the FIFO of acquirers parked behind the live writer. Each
	// channel has capacity one so handoff never blocks the releaser.
	waiters []chan WriterToken
}

// NewMemoryStore constructs a [MemoryStore]. queueDepth is the maximum number
// of writers allowed to wait per session before AcquireWriter starts failing
// with [ErrGenerationInFlight].
func NewMemoryStore(queueDepth int, log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		log:        log,
		uuid:       utils.NewUUIDGenerator(),
		queueDepth: queueDepth,
		sessions:   make(map[string]*sessionState),
	}
}

// Create implements [SessionStore].
func (s *MemoryStore) Create(title string, backend models.BackendHandle) models.SessionMeta {
	now := time.Now().UTC()
	session := models.Session{
		ID:             s.uuid.Generate(),
		Title:          title,
		Backend:        backend,
		CreatedAt:      now,
		LastActivityAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = &sessionState{session: session}
	s.log.Debug().Str("sessionID", session.ID).Msg("session created")

	return session.Meta()
}

// Restore implements [SessionStore]. An already-live session is left
// untouched so a concurrent load cannot clobber in-flight state.
func (s *MemoryStore) Restore(session models.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session.ID]; ok {
		return
	}

	s.sessions[session.ID] = &sessionState{session: session}
}

// Get implements [SessionStore].
func (s *MemoryStore) Get(id string) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[id]
	if !ok {
		return models.Session{}, ErrSessionNotFound
	}

	return copySession(&state.session), nil
}

// List implements [SessionStore].
func (s *MemoryStore) List() []models.SessionMeta {
	s.mu.Lock()
	defer s.mu.Unlock()

	metas := make([]models.SessionMeta, 0, len(s.sessions))
	for _, state := range s.sessions {
		metas = append(metas, state.session.Meta())
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].LastActivityAt.After(metas[j].LastActivityAt)
	})

	return metas
}

// Rename implements [SessionStore].
func (s *MemoryStore) Rename(id, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}

	state.session.Title = title

	return nil
}

// AcquireWriter implements [SessionStore].
func (s *MemoryStore) AcquireWriter(ctx context.Context, id string) (WriterToken, error) {
	s.mu.Lock()

	state, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return WriterToken{}, ErrSessionNotFound
	}

	if !state.writerLive {
		tok := s.grantLocked(state, id)
		s.mu.Unlock()
		return tok, nil
	}

	if len(state.waiters) >= s.queueDepth {
		s.mu.Unlock()
		return WriterToken{}, ErrGenerationInFlight
	}

	wait := make(chan WriterToken, 1)
	state.waiters = append(state.waiters, wait)
	s.mu.Unlock()

	select {
	case tok, open := <-wait:
		if !open {
			// Session was evicted while waiting.
			return WriterToken{}, ErrSessionNotFound
		}
		return tok, nil
	case <-ctx.Done():
		s.abandonWait(id, wait)
		return WriterToken{}, ctx.Err()
	}
}

// abandonWait removes a cancelled waiter from the session's queue. If the
// token was handed to the waiter before the lock was taken, the token is
// released in its stead so the queue keeps draining.
func (s *MemoryStore) abandonWait(id string, wait chan WriterToken) {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case tok, open := <-wait:
		if open {
			s.releaseLocked(tok)
		}
		return
	default:
	}

	state, ok := s.sessions[id]
	if !ok {
		return
	}

	for i, w := range state.waiters {
		if w == wait {
			state.waiters = append(state.waiters[:i], state.waiters[i+1:]...)
			return
		}
	}
}

// grantLocked hands the writer token to a new generation. Caller holds s.mu.
func (s *MemoryStore) grantLocked(state *sessionState, id string) WriterToken {
	state.gen++
	state.writerLive = true

	return WriterToken{SessionID: id, gen: state.gen}
}

// ReleaseWriter implements [SessionStore].
func (s *MemoryStore) ReleaseWriter(tok WriterToken) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.releaseLocked(tok)
}

func (s *MemoryStore) releaseLocked(tok WriterToken) {
	state, ok := s.sessions[tok.SessionID]
	if !ok || !state.writerLive || state.gen != tok.gen {
		return
	}

	if len(state.waiters) > 0 {
		next := state.waiters[0]
		state.waiters = state.waiters[1:]
		next <- s.grantLocked(state, tok.SessionID)
		return
	}

	state.writerLive = false
}

// liveLocked returns the session state if tok is the current live writer
// token. Caller holds s.mu.
func (s *MemoryStore) liveLocked(tok WriterToken) (*sessionState, bool) {
	state, ok := s.sessions[tok.SessionID]
	if !ok || !state.writerLive || state.gen != tok.gen {
		return nil, false
	}

	return state, true
}

// Append implements [SessionStore].
func (s *MemoryStore) Append(tok WriterToken, role models.Role, content string) (models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.liveLocked(tok)
	if !ok {
		return models.Message{}, ErrStaleWriterToken
	}

	msg := models.Message{
		ID:        s.uuid.Generate(),
		SessionID: tok.SessionID,
		Seq:       len(state.session.Messages),
		Role:      role,
		Content:   content,
		Status:    models.StatusComplete,
		CreatedAt: time.Now().UTC(),
	}
	state.session.Messages = append(state.session.Messages, msg)
	state.session.LastActivityAt = msg.CreatedAt

	return msg, nil
}

// BeginStreaming implements [SessionStore].
func (s *MemoryStore) BeginStreaming(tok WriterToken) (MessageHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.liveLocked(tok)
	if !ok {
		return MessageHandle{}, ErrStaleWriterToken
	}

	msg := models.Message{
		ID:        s.uuid.Generate(),
		SessionID: tok.SessionID,
		Seq:       len(state.session.Messages),
		Role:      models.RoleAssistant,
		Status:    models.StatusStreaming,
		CreatedAt: time.Now().UTC(),
	}
	state.session.Messages = append(state.session.Messages, msg)

	return MessageHandle{Token: tok, MessageID: msg.ID}, nil
}

// UpdateStreaming implements [SessionStore].
func (s *MemoryStore) UpdateStreaming(handle MessageHandle, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.liveLocked(handle.Token)
	if !ok {
		return
	}

	msg := trailingLocked(state, handle.MessageID)
	if msg == nil || msg.Status != models.StatusStreaming {
		return
	}

	msg.Content += content
}

// Finalize implements [SessionStore].
func (s *MemoryStore) Finalize(handle MessageHandle, status models.MessageStatus) (models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[handle.Token.SessionID]
	if !ok {
		return models.Message{}, ErrSessionNotFound
	}

	msg := trailingLocked(state, handle.MessageID)
	if msg == nil {
		return models.Message{}, ErrMessageNotStreaming
	}

	// Second finalize (or one racing a stale handle) must not rewrite the
	// recorded terminal status.
	if msg.Status.Terminal() {
		return *msg, nil
	}

	if _, live := s.liveLocked(handle.Token); !live {
		return *msg, nil
	}

	msg.Status = status
	state.session.LastActivityAt = time.Now().UTC()

	return *msg, nil
}

// trailingLocked finds the message with the given id scanning from the tail.
// Only trailing messages may be streaming, so the scan is effectively O(1)
// for the hot path. Caller holds s.mu.
func trailingLocked(state *sessionState, messageID string) *models.Message {
	msgs := state.session.Messages
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].ID == messageID {
			return &msgs[i]
		}
	}

	return nil
}

// Evict implements [SessionStore]. Queued writers are woken with
// [ErrSessionNotFound].
func (s *MemoryStore) Evict(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictLocked(id)
}

func (s *MemoryStore) evictLocked(id string) {
	state, ok := s.sessions[id]
	if !ok {
		return
	}

	for _, w := range state.waiters {
		close(w)
	}
	state.waiters = nil

	delete(s.sessions, id)
	s.log.Debug().Str("sessionID", id).Msg("session evicted")
}

// EvictIdle implements [SessionStore]. Sessions with a live writer or queued
// waiters are skipped regardless of idle time.
func (s *MemoryStore) EvictIdle(cutoff time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var evicted []string
	for id, state := range s.sessions {
		if state.writerLive || len(state.waiters) > 0 {
			continue
		}
		if state.session.LastActivityAt.After(cutoff) {
			continue
		}

		evicted = append(evicted, id)
	}

	for _, id := range evicted {
		s.evictLocked(id)
	}

	return evicted
}

func copySession(src *models.Session) models.Session {
	dst := *src
	dst.Messages = make([]models.Message, len(src.Messages))
	copy(dst.Messages, src.Messages)

	return dst
}
