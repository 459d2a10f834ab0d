// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The chatthy Authors

package models

// StreamChunk is an ordered fragment of an in-progress assistant message.
//
// Chunks produced for a single generation carry strictly increasing Seq
// values starting at zero, and exactly one chunk has Final set. A failed
// generation terminates the stream with a Final chunk whose Err is non-nil.
type StreamChunk struct {
	// SessionID is the session the chunk belongs to.
	SessionID string `json:"session_id"`

	// MessageID is the streaming message the chunk extends.
	MessageID string `json:"message_id"`

	// Seq is the zero-based chunk sequence number within the generation.
	Seq int `json:"seq"`

	// Content is the text fragment. Empty for pure terminal markers.
	Content string `json:"content,omitempty"`

	// Final indicates end-of-stream for this generation.
	Final bool `json:"final,omitempty"`

	// Err carries the normalized error that terminated the stream, if any.
	// Only ever set on a Final chunk.
	Err *WireError `json:"error,omitempty"`
}
