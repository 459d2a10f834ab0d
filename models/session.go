// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The chatthy Authors

package models

import "time"

// Session is a persistent, ordered conversation between a user and a backend
// responder. The in-memory session store owns every Session value; all other
// components refer to a session only by its ID.
type Session struct {
	// ID is the opaque, process-unique session identifier (UUIDv7).
	ID string `json:"id"`

	// Title is a short human-readable label shown in session lists.
	Title string `json:"title"`

	// Backend is the active-backend selector for this session. New messages
	// without an explicit backend override are routed to this responder.
	Backend BackendHandle `json:"backend"`

	// Messages is the ordered conversation history. The order of completed
	// messages is immutable; only the trailing message may be streaming.
	Messages []Message `json:"messages"`

	// CreatedAt is the timestamp when the session was created.
	CreatedAt time.Time `json:"created_at"`

	// LastActivityAt is the timestamp of the last append or finalize, used
	// by the idle-eviction worker.
	LastActivityAt time.Time `json:"last_activity_at"`
}

// SessionMeta is the list-view projection of a Session: everything except the
// message history.
type SessionMeta struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Backend        BackendHandle `json:"backend"`
	MessageCount   int           `json:"message_count"`
	CreatedAt      time.Time     `json:"created_at"`
	LastActivityAt time.Time     `json:"last_activity_at"`
}

// Meta returns the list-view projection of s.
func (s *Session) Meta() SessionMeta {
	return SessionMeta{
		ID:             s.ID,
		Title:          s.Title,
		Backend:        s.Backend,
		MessageCount:   len(s.Messages),
		CreatedAt:      s.CreatedAt,
		LastActivityAt: s.LastActivityAt,
	}
}

// BackendHandle identifies which pluggable responder services a request.
// The empty handle means "use the server default".
type BackendHandle string

// NewSessionID is the sentinel session identifier a client sends when it
// wants the server to allocate a fresh session instead of resolving an
// existing one.
const NewSessionID = "new"
