// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys,
// identifier generation, and other common operations.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// ConnIDCtxKey is the key used to store the transport connection identifier
// in the context. Used together with GetConnIDFromContext for type-safe
// retrieval of the connection ID from context.Context.
//
// Example of writing a value to the context:
//
//	ctx := context.WithValue(ctx, utils.ConnIDCtxKey, "conn-42")
var ConnIDCtxKey = contextKey("connID")

// GetConnIDFromContext retrieves the connection identifier from the context.
//
// Returns the connection ID and an ok flag:
//   - ok == true:  value is found and has the correct string type
//   - ok == false: value is missing or has an unexpected type
func GetConnIDFromContext(ctx context.Context) (string, bool) {
	connID, ok := ctx.Value(ConnIDCtxKey).(string)
	return connID, ok
}
