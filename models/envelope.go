// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The chatthy Authors

package models

// EnvelopeType enumerates the request kinds a client can send over the
// persistent connection.
type EnvelopeType string

const (
	// EnvelopeMessage submits a user message for generation on a session.
	// SessionID may be an existing identifier or the "new" sentinel.
	EnvelopeMessage EnvelopeType = "message"

	// EnvelopeCancel requests cooperative cancellation of the session's
	// in-flight generation.
	EnvelopeCancel EnvelopeType = "cancel"

	// EnvelopeSessionNew explicitly creates a fresh session.
	EnvelopeSessionNew EnvelopeType = "session.new"

	// EnvelopeSessionSwitch rebinds the connection's chunk delivery to
	// another session.
	EnvelopeSessionSwitch EnvelopeType = "session.switch"

	// EnvelopeSessionList requests the metadata of all live sessions.
	EnvelopeSessionList EnvelopeType = "session.list"

	// EnvelopeSessionHistory requests a session's full message history.
	EnvelopeSessionHistory EnvelopeType = "session.history"

	// EnvelopeSessionDelete evicts a session from the server.
	EnvelopeSessionDelete EnvelopeType = "session.delete"

	// EnvelopeSessionRename changes a session's title.
	EnvelopeSessionRename EnvelopeType = "session.rename"

	// EnvelopeCheckpoint forces persistence of the session's current state.
	EnvelopeCheckpoint EnvelopeType = "checkpoint"
)

// Envelope is the framed client→server request.
type Envelope struct {
	// Type selects the operation.
	Type EnvelopeType `json:"type"`

	// RequestID is an opaque client-chosen correlation identifier echoed
	// back in responses that answer this envelope.
	RequestID string `json:"request_id,omitempty"`

	// SessionID names the target session, or the "new" sentinel for
	// EnvelopeMessage.
	SessionID string `json:"session_id,omitempty"`

	// Content is the user message text for EnvelopeMessage, or the new
	// title for EnvelopeSessionRename.
	Content string `json:"content,omitempty"`

	// Backend optionally overrides the session's active backend selector.
	Backend BackendHandle `json:"backend,omitempty"`
}

// ServerEnvelopeType enumerates the response kinds the server sends.
type ServerEnvelopeType string

const (
	ServerChunk    ServerEnvelopeType = "chunk"
	ServerDone     ServerEnvelopeType = "done"
	ServerError    ServerEnvelopeType = "error"
	ServerWarning  ServerEnvelopeType = "warning"
	ServerAck      ServerEnvelopeType = "ack"
	ServerSession  ServerEnvelopeType = "session"
	ServerSessions ServerEnvelopeType = "sessions"
	ServerHistory  ServerEnvelopeType = "history"
)

// ServerEnvelope is the framed server→client response. Exactly one of the
// payload fields is populated, selected by Type.
type ServerEnvelope struct {
	Type      ServerEnvelopeType `json:"type"`
	RequestID string             `json:"request_id,omitempty"`
	SessionID string             `json:"session_id,omitempty"`

	// Chunk carries one stream fragment for ServerChunk.
	Chunk *StreamChunk `json:"chunk,omitempty"`

	// Session carries a single session's metadata for ServerSession.
	Session *SessionMeta `json:"session,omitempty"`

	// Sessions carries the live session list for ServerSessions.
	Sessions []SessionMeta `json:"sessions,omitempty"`

	// Messages carries a session's history for ServerHistory.
	Messages []Message `json:"messages,omitempty"`

	// Error carries the structured failure for ServerError and the
	// non-fatal notice for ServerWarning.
	Error *WireError `json:"error,omitempty"`
}

// WireError is the structured error representation sent to clients.
type WireError struct {
	// Code is one of the wire error codes ("not_found", "conflict",
	// "backend_unavailable", "backend_error", "cancelled",
	// "persistence_failure", "bad_request", "internal").
	Code string `json:"code"`

	// Message is a human-readable description safe to show to the user.
	Message string `json:"message"`
}

func (e *WireError) Error() string {
	return e.Code + ": " + e.Message
}
