// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The chatthy Authors

package adapter

import "errors"

var (
	// ErrServerUnavailable is returned when the server cannot be reached
	// or answers a health probe with a non-OK status.
	ErrServerUnavailable = errors.New("server unavailable")

	// ErrUnauthorized is returned when the server rejects the access token.
	ErrUnauthorized = errors.New("client unauthorized")

	// ErrNotConnected is returned by Send before a successful Connect.
	ErrNotConnected = errors.New("not connected")
)
