package tui

import "github.com/chatthy/chatthy/models"

// envelopeMsg wraps one decoded server envelope for the update loop.
type envelopeMsg models.ServerEnvelope

// connClosedMsg signals that the server connection died.
type connClosedMsg struct{}

// noticeMsg carries a transient status line shown under the chat.
type noticeMsg string
