package adapter

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatthy/chatthy/internal/backend"
	"github.com/chatthy/chatthy/internal/config"
	"github.com/chatthy/chatthy/internal/handler"
	"github.com/chatthy/chatthy/internal/logger"
	"github.com/chatthy/chatthy/internal/registry"
	"github.com/chatthy/chatthy/internal/service"
	"github.com/chatthy/chatthy/internal/store"
	"github.com/chatthy/chatthy/models"
)

func newTestServer(t *testing.T, app config.App) *httptest.Server {
	t.Helper()

	backends, err := backend.NewBackends(context.Background(), config.Backends{Default: "echo"}, logger.Nop())
	require.NoError(t, err)

	storages := &store.Storages{Sessions: store.NewMemoryStore(2, logger.Nop())}
	reg := registry.NewRegistry(64, logger.Nop())
	services := service.NewServices(storages, backends, reg, logger.Nop())

	h := handler.NewHandler(context.Background(), services, reg, app, logger.Nop())
	srv := httptest.NewServer(h.Init())
	t.Cleanup(srv.Close)

	return srv
}

func newTestAdapter(t *testing.T, srv *httptest.Server, token string) ServerAdapter {
	t.Helper()

	a := NewServerAdapter(config.ClientAdapter{
		ServerAddress: strings.TrimPrefix(srv.URL, "http://"),
		AuthToken:     token,
	}, logger.Nop())
	t.Cleanup(func() { a.Close() })

	return a
}

func nextEvent(t *testing.T, events <-chan models.ServerEnvelope) models.ServerEnvelope {
	t.Helper()

	select {
	case env, ok := <-events:
		require.True(t, ok, "event channel closed")
		return env
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for server envelope")
		return models.ServerEnvelope{}
	}
}

func TestServerAdapter_Health(t *testing.T) {
	srv := newTestServer(t, config.App{})
	a := newTestAdapter(t, srv, "")

	require.NoError(t, a.Health(context.Background()))
}

func TestServerAdapter_HealthUnreachable(t *testing.T) {
	srv := newTestServer(t, config.App{})
	srv.Close()
	a := newTestAdapter(t, srv, "")

	require.ErrorIs(t, a.Health(context.Background()), ErrServerUnavailable)
}

func TestServerAdapter_ServerVersion(t *testing.T) {
	srv := newTestServer(t, config.App{Version: "0.3.0"})
	a := newTestAdapter(t, srv, "")

	version, err := a.ServerVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0.3.0", version)
}

func TestServerAdapter_ConnectUnauthorized(t *testing.T) {
	srv := newTestServer(t, config.App{AuthToken: "secret"})
	a := newTestAdapter(t, srv, "wrong")

	_, err := a.Connect(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestServerAdapter_SendBeforeConnect(t *testing.T) {
	srv := newTestServer(t, config.App{})
	a := newTestAdapter(t, srv, "")

	err := a.Send(context.Background(), models.Envelope{Type: models.EnvelopeSessionList})
	require.ErrorIs(t, err, ErrNotConnected)
}

func TestServerAdapter_ChatRoundTrip(t *testing.T) {
	srv := newTestServer(t, config.App{AuthToken: "secret"})
	a := newTestAdapter(t, srv, "secret")

	ctx := context.Background()
	events, err := a.Connect(ctx)
	require.NoError(t, err)

	require.NoError(t, a.Send(ctx, models.Envelope{
		Type:      models.EnvelopeMessage,
		RequestID: "r1",
		SessionID: models.NewSessionID,
		Content:   "ping from the adapter",
	}))

	ack := nextEvent(t, events)
	require.Equal(t, models.ServerAck, ack.Type)
	require.NotEmpty(t, ack.SessionID)

	var content strings.Builder
	for {
		env := nextEvent(t, events)
		require.NotNil(t, env.Chunk)
		if env.Chunk.Final {
			assert.Equal(t, models.ServerDone, env.Type)
			break
		}
		content.WriteString(env.Chunk.Content)
	}
	assert.Equal(t, "ping from the adapter", content.String())
}

func TestServerAdapter_ConnectIsIdempotent(t *testing.T) {
	srv := newTestServer(t, config.App{})
	a := newTestAdapter(t, srv, "")

	first, err := a.Connect(context.Background())
	require.NoError(t, err)
	second, err := a.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
