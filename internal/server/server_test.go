package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chatthy/chatthy/internal/backend"
	"github.com/chatthy/chatthy/internal/config"
	"github.com/chatthy/chatthy/internal/handler"
	"github.com/chatthy/chatthy/internal/logger"
	"github.com/chatthy/chatthy/internal/registry"
	"github.com/chatthy/chatthy/internal/service"
	"github.com/chatthy/chatthy/internal/store"
)

func newTestHandler(t *testing.T) (*handler.Handler, service.Dispatcher) {
	t.Helper()

	backends, err := backend.NewBackends(context.Background(), config.Backends{Default: "echo"}, logger.Nop())
	require.NoError(t, err)

	storages := &store.Storages{Sessions: store.NewMemoryStore(2, logger.Nop())}
	reg := registry.NewRegistry(16, logger.Nop())
	services := service.NewServices(storages, backends, reg, logger.Nop())

	return handler.NewHandler(context.Background(), services, reg, config.App{}, logger.Nop()), services.Dispatcher
}

func TestNewServer(t *testing.T) {
	h, dispatcher := newTestHandler(t)

	srv, err := NewServer(h, dispatcher, config.Server{HTTPAddress: "127.0.0.1:0"}, logger.Nop())
	require.NoError(t, err)
	require.NotNil(t, srv)
}

func TestNewServer_NoAddress(t *testing.T) {
	h, dispatcher := newTestHandler(t)

	_, err := NewServer(h, dispatcher, config.Server{}, logger.Nop())
	require.ErrorIs(t, err, errNoAddressConfigured)
}
