// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The chatthy Authors

// Package registry tracks which transport connection, if any, is bound to
// each session, and buffers stream deliveries for sessions nobody is
// watching. Generation lifetime is decoupled from connection lifetime: a
// generation keeps producing chunks while its session is unbound, and a
// later rebind drains the buffered backlog in order before live chunks
// resume.
package registry

import (
	"errors"
	"sync"

	"github.com/chatthy/chatthy/internal/logger"
	"github.com/chatthy/chatthy/models"
)

var (
	// ErrConnNotFound is returned when an operation references a
	// connection identifier that is not registered.
	ErrConnNotFound = errors.New("connection not registered")

	// ErrSessionNotBound is returned when a direct session delivery finds
	// no bound connection and the envelope is not bufferable.
	ErrSessionNotBound = errors.New("session has no bound connection")
)

// connection is the registry-internal record for one live connection.
type connection struct {
	id string

	// out feeds the connection's writer goroutine. The channel is owned by
	// the registry and closed on Unregister.
	out chan models.ServerEnvelope
}

// Registry is the connection registry. Safe for concurrent use.
type Registry struct {
	log *logger.Logger

	// bufferDepth caps the per-session backlog of undelivered envelopes
	// and the per-connection outbound queue.
	bufferDepth int

	mu       sync.Mutex
	conns    map[string]*connection
	bindings map[string]string // sessionID -> connID
	buffers  map[string][]models.ServerEnvelope
}

func NewRegistry(bufferDepth int, log *logger.Logger) *Registry {
	return &Registry{
		log:         log,
		bufferDepth: bufferDepth,
		conns:       make(map[string]*connection),
		bindings:    make(map[string]string),
		buffers:     make(map[string][]models.ServerEnvelope),
	}
}

// Register adds a connection and returns the channel its writer goroutine
// must drain. The channel is closed by Unregister.
func (r *Registry) Register(connID string) <-chan models.ServerEnvelope {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn := &connection{
		id:  connID,
		out: make(chan models.ServerEnvelope, r.bufferDepth),
	}
	r.conns[connID] = conn
	r.log.Debug().Str("conn_id", connID).Msg("connection registered")

	return conn.out
}

// Unregister removes the connection, closes its outbound channel, and
// unbinds every session bound to it, returning their identifiers so the
// caller can react to the lost transport. Deliveries for those sessions
// start buffering.
func (r *Registry) Unregister(connID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.conns[connID]
	if !ok {
		return nil
	}

	delete(r.conns, connID)
	var unbound []string
	for sessionID, boundTo := range r.bindings {
		if boundTo == connID {
			delete(r.bindings, sessionID)
			unbound = append(unbound, sessionID)
		}
	}

	close(conn.out)
	r.log.Debug().Str("conn_id", connID).Msg("connection unregistered")

	return unbound
}

// Bind attaches the session to the connection, replacing any previous
// binding. Buffered envelopes for the session are transferred to the
// connection first, preserving their order ahead of live deliveries.
func (r *Registry) Bind(sessionID, connID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.conns[connID]
	if !ok {
		return ErrConnNotFound
	}

	r.bindings[sessionID] = connID

	backlog := len(r.buffers[sessionID])
	r.drainLocked(sessionID, conn)

	r.log.Debug().
		Str("conn_id", connID).
		Str("session_id", sessionID).
		Int("drained", backlog-len(r.buffers[sessionID])).
		Msg("session bound")

	return nil
}

// Unbind detaches the session from its connection, if any. Subsequent
// deliveries buffer.
func (r *Registry) Unbind(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.bindings, sessionID)
}

// Bound returns the connection identifier the session is bound to.
func (r *Registry) Bound(sessionID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	connID, ok := r.bindings[sessionID]

	return connID, ok
}

// Deliver routes a session-scoped envelope to the session's bound
// connection. Without a binding, or when the connection's queue is full,
// the envelope joins the session buffer; on buffer overflow the oldest
// envelope is dropped.
//
// The session buffer is the ordering authority: while a backlog exists,
// new envelopes join it behind the earlier ones and the backlog is drained
// onto the connection queue as far as it goes, so a queue that filled
// mid-stream can never reorder chunks or leave a hole.
func (r *Registry) Deliver(sessionID string, env models.ServerEnvelope) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn := r.boundConnLocked(sessionID)

	if len(r.buffers[sessionID]) == 0 && conn != nil && r.enqueueLocked(conn, env) {
		return
	}

	r.bufferLocked(sessionID, env)
	if conn != nil {
		r.drainLocked(sessionID, conn)
	}
}

// SendTo queues an envelope directly on one connection, bypassing session
// bindings. Used for request acknowledgements and listings.
func (r *Registry) SendTo(connID string, env models.ServerEnvelope) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.conns[connID]
	if !ok {
		return ErrConnNotFound
	}
	if !r.enqueueLocked(conn, env) {
		return ErrSessionNotBound
	}

	return nil
}

// DropSession discards the session's binding and buffered backlog. Called
// when the session is deleted.
func (r *Registry) DropSession(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.bindings, sessionID)
	delete(r.buffers, sessionID)
}

func (r *Registry) boundConnLocked(sessionID string) *connection {
	connID, ok := r.bindings[sessionID]
	if !ok {
		return nil
	}

	return r.conns[connID]
}

// drainLocked moves buffered envelopes onto the connection queue, in order,
// until the queue fills or the backlog empties.
func (r *Registry) drainLocked(sessionID string, conn *connection) {
	backlog := r.buffers[sessionID]
	for len(backlog) > 0 && r.enqueueLocked(conn, backlog[0]) {
		backlog = backlog[1:]
	}

	if len(backlog) == 0 {
		delete(r.buffers, sessionID)
	} else {
		r.buffers[sessionID] = backlog
	}
}

func (r *Registry) enqueueLocked(conn *connection, env models.ServerEnvelope) bool {
	select {
	case conn.out <- env:
		return true
	default:
		return false
	}
}

func (r *Registry) bufferLocked(sessionID string, env models.ServerEnvelope) {
	backlog := r.buffers[sessionID]
	if len(backlog) >= r.bufferDepth {
		backlog = backlog[1:]
		r.log.Warn().
			Str("session_id", sessionID).
			Int("depth", r.bufferDepth).
			Msg("delivery buffer full, dropping oldest envelope")
	}

	r.buffers[sessionID] = append(backlog, env)
}
