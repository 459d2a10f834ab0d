// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The chatthy Authors

// Package adapter provides the client-side transport to a chatthy server.
//
// The primary abstraction is [ServerAdapter], which hides the wire protocol
// from the client runtime: plain HTTP for health and version probes, and the
// persistent websocket carrying JSON envelopes for everything else.
//
// Error values defined in errors.go are mapped from transport failures so
// callers can use [errors.Is] without knowing the protocol.
package adapter

import (
	"context"

	"github.com/chatthy/chatthy/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter is the client's view of a chatthy server.
type ServerAdapter interface {
	// Health probes the server's health endpoint.
	// Fails with ErrServerUnavailable when the server cannot be reached.
	Health(ctx context.Context) error

	// ServerVersion returns the server's reported version string.
	ServerVersion(ctx context.Context) (string, error)

	// Connect opens the persistent websocket and returns the channel on
	// which decoded server envelopes arrive. The channel is closed when
	// the connection dies or Close is called.
	Connect(ctx context.Context) (<-chan models.ServerEnvelope, error)

	// Send writes one request envelope to the open connection.
	// Fails with ErrNotConnected before Connect.
	Send(ctx context.Context, env models.Envelope) error

	// Close tears down the websocket connection, if open.
	Close() error
}
