// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The chatthy Authors

package models

import "time"

// Role identifies the author of a message in a session's history.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// MessageStatus is the completion status of a message.
type MessageStatus string

const (
	// StatusStreaming marks an in-progress message whose content is still
	// being assembled from stream chunks.
	StatusStreaming MessageStatus = "streaming"

	// StatusComplete marks a finished message. Completed messages are
	// immutable.
	StatusComplete MessageStatus = "complete"

	// StatusFailed marks a message whose generation ended with a backend or
	// persistence failure.
	StatusFailed MessageStatus = "failed"

	// StatusCancelled marks a message whose generation was stopped
	// cooperatively, either by an explicit cancel or a connection loss.
	StatusCancelled MessageStatus = "cancelled"
)

// Terminal reports whether the status is one of the terminal states.
func (s MessageStatus) Terminal() bool {
	return s == StatusComplete || s == StatusFailed || s == StatusCancelled
}

// Message is one turn in a Session's history.
type Message struct {
	// ID is the unique message identifier.
	ID string `json:"id"`

	// SessionID is the owning session's identifier.
	SessionID string `json:"session_id"`

	// Seq is the zero-based position of the message within the session.
	Seq int `json:"seq"`

	// Role is the author of the message.
	Role Role `json:"role"`

	// Content is the text payload. For streaming messages it grows as
	// chunks arrive and is final only once Status is terminal.
	Content string `json:"content"`

	// Status is the completion status of the message.
	Status MessageStatus `json:"status"`

	// CreatedAt is the timestamp when the message was appended.
	CreatedAt time.Time `json:"created_at"`
}
