package utils

import (
	"context"
	"testing"
)

func TestContextKeyString(t *testing.T) {
	key := contextKey("testKey")
	if key.String() != "testKey" {
		t.Errorf("expected 'testKey', got '%s'", key.String())
	}
}

func TestConnIDCtxKey(t *testing.T) {
	if ConnIDCtxKey.String() != "connID" {
		t.Errorf("expected 'connID', got '%s'", ConnIDCtxKey.String())
	}
}

func TestGetConnIDFromContext_Success(t *testing.T) {
	ctx := context.WithValue(context.Background(), ConnIDCtxKey, "conn-42")

	connID, ok := GetConnIDFromContext(ctx)

	if !ok {
		t.Fatal("expected ok=true, got false")
	}
	if connID != "conn-42" {
		t.Errorf("expected connID='conn-42', got '%s'", connID)
	}
}

func TestGetConnIDFromContext_Missing(t *testing.T) {
	ctx := context.Background()

	connID, ok := GetConnIDFromContext(ctx)

	if ok {
		t.Fatal("expected ok=false, got true")
	}
	if connID != "" {
		t.Errorf("expected empty connID, got '%s'", connID)
	}
}

func TestGetConnIDFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), ConnIDCtxKey, 42)

	connID, ok := GetConnIDFromContext(ctx)

	if ok {
		t.Fatal("expected ok=false for wrong type, got true")
	}
	if connID != "" {
		t.Errorf("expected empty connID, got '%s'", connID)
	}
}
