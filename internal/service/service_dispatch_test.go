package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/chatthy/chatthy/internal/backend"
	"github.com/chatthy/chatthy/internal/config"
	"github.com/chatthy/chatthy/internal/logger"
	"github.com/chatthy/chatthy/internal/mock"
	"github.com/chatthy/chatthy/internal/registry"
	"github.com/chatthy/chatthy/internal/store"
	"github.com/chatthy/chatthy/models"
)

type dispatchEnv struct {
	dispatcher Dispatcher
	sessions   *store.MemoryStore
	registry   *registry.Registry
	events     <-chan models.ServerEnvelope
}

func newDispatchEnv(t *testing.T, queueDepth int, repo store.SessionRepository, backends *backend.Backends) *dispatchEnv {
	t.Helper()

	if backends == nil {
		backends = newTestBackends(t)
	}

	sessions := store.NewMemoryStore(queueDepth, logger.Nop())
	reg := registry.NewRegistry(64, logger.Nop())
	storages := &store.Storages{Sessions: sessions, Repository: repo}

	return &dispatchEnv{
		dispatcher: NewDispatcher(storages, backends, reg, logger.Nop()),
		sessions:   sessions,
		registry:   reg,
		events:     reg.Register("conn-1"),
	}
}

// newBoundSession creates a session and binds it to the test connection.
func (env *dispatchEnv) newBoundSession(t *testing.T, title string, handle models.BackendHandle) models.SessionMeta {
	t.Helper()

	meta := env.sessions.Create(title, handle)
	require.NoError(t, env.registry.Bind(meta.ID, "conn-1"))

	return meta
}

// nextEnvelope receives one envelope or fails the test after a timeout.
func (env *dispatchEnv) nextEnvelope(t *testing.T) models.ServerEnvelope {
	t.Helper()

	select {
	case envelope, ok := <-env.events:
		require.True(t, ok, "connection channel closed")
		return envelope
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for server envelope")
		return models.ServerEnvelope{}
	}
}

// drainUntilFinal collects chunk envelopes until the final one arrives,
// returning the concatenated content and the final envelope.
func (env *dispatchEnv) drainUntilFinal(t *testing.T) (string, models.ServerEnvelope) {
	t.Helper()

	var content strings.Builder
	for {
		envelope := env.nextEnvelope(t)
		require.NotNil(t, envelope.Chunk)
		if envelope.Chunk.Final {
			return content.String(), envelope
		}
		content.WriteString(envelope.Chunk.Content)
	}
}

func TestDispatch_StreamsAndCompletes(t *testing.T) {
	env := newDispatchEnv(t, 2, nil, nil)
	meta := env.newBoundSession(t, "", backend.HandleEcho)

	err := env.dispatcher.Dispatch(context.Background(), DispatchRequest{
		SessionID: meta.ID,
		RequestID: "req-1",
		Content:   "hello streaming world",
	})
	require.NoError(t, err)

	content, final := env.drainUntilFinal(t)
	assert.Equal(t, "hello streaming world", content)
	assert.Equal(t, models.ServerDone, final.Type)
	assert.Equal(t, "req-1", final.RequestID)
	assert.Nil(t, final.Chunk.Err)

	session, err := env.sessions.Get(meta.ID)
	require.NoError(t, err)
	require.Len(t, session.Messages, 2)
	assert.Equal(t, models.RoleUser, session.Messages[0].Role)
	assert.Equal(t, models.RoleAssistant, session.Messages[1].Role)
	assert.Equal(t, models.StatusComplete, session.Messages[1].Status)
	assert.Equal(t, "hello streaming world", session.Messages[1].Content)

	// First message titles the session.
	assert.Equal(t, "hello streaming world", session.Title)
}

func TestDispatch_ChunkSequenceIsMonotonic(t *testing.T) {
	env := newDispatchEnv(t, 2, nil, nil)
	meta := env.newBoundSession(t, "", backend.HandleEcho)

	require.NoError(t, env.dispatcher.Dispatch(context.Background(), DispatchRequest{
		SessionID: meta.ID,
		Content:   "one two three four",
	}))

	seq := 0
	for {
		envelope := env.nextEnvelope(t)
		require.NotNil(t, envelope.Chunk)
		if envelope.Chunk.Final {
			break
		}
		assert.Equal(t, seq, envelope.Chunk.Seq)
		seq++
	}
	assert.Greater(t, seq, 1)
}

func TestDispatch_EmptyContent(t *testing.T) {
	env := newDispatchEnv(t, 2, nil, nil)
	meta := env.newBoundSession(t, "", backend.HandleEcho)

	err := env.dispatcher.Dispatch(context.Background(), DispatchRequest{
		SessionID: meta.ID,
		RequestID: "req-1",
		Content:   "   \n ",
	})
	require.ErrorIs(t, err, ErrEmptyMessage)

	envelope := env.nextEnvelope(t)
	assert.Equal(t, models.ServerError, envelope.Type)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, CodeBadRequest, envelope.Error.Code)
}

func TestDispatch_UnknownSession(t *testing.T) {
	env := newDispatchEnv(t, 2, nil, nil)

	err := env.dispatcher.Dispatch(context.Background(), DispatchRequest{
		SessionID: "ghost",
		Content:   "hello",
	})
	require.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestDispatch_UnknownBackendOverride(t *testing.T) {
	env := newDispatchEnv(t, 2, nil, nil)
	meta := env.newBoundSession(t, "", backend.HandleEcho)

	err := env.dispatcher.Dispatch(context.Background(), DispatchRequest{
		SessionID: meta.ID,
		Content:   "hello",
		Backend:   "no-such-backend",
	})
	require.ErrorIs(t, err, backend.ErrUnknownBackend)

	envelope := env.nextEnvelope(t)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, CodeBadRequest, envelope.Error.Code)
}

func TestDispatch_ConflictWhenWriterHeld(t *testing.T) {
	env := newDispatchEnv(t, 0, nil, nil)
	meta := env.newBoundSession(t, "", backend.HandleEcho)

	tok, err := env.sessions.AcquireWriter(context.Background(), meta.ID)
	require.NoError(t, err)
	defer env.sessions.ReleaseWriter(tok)

	err = env.dispatcher.Dispatch(context.Background(), DispatchRequest{
		SessionID: meta.ID,
		RequestID: "req-1",
		Content:   "hello",
	})
	require.ErrorIs(t, err, store.ErrGenerationInFlight)

	envelope := env.nextEnvelope(t)
	assert.Equal(t, models.ServerError, envelope.Type)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, CodeConflict, envelope.Error.Code)
}

func TestDispatch_DeliveryOutlivesConnection(t *testing.T) {
	env := newDispatchEnv(t, 2, nil, nil)
	meta := env.sessions.Create("", backend.HandleEcho)

	// No connection is bound; all envelopes buffer in the registry.
	require.NoError(t, env.dispatcher.Dispatch(context.Background(), DispatchRequest{
		SessionID: meta.ID,
		Content:   "buffered reply",
	}))

	require.NoError(t, env.registry.Bind(meta.ID, "conn-1"))

	content, final := env.drainUntilFinal(t)
	assert.Equal(t, "buffered reply", content)
	assert.Equal(t, models.ServerDone, final.Type)
}

func TestDispatch_PersistFailureRaisesWarning(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockSessionRepository(ctrl)
	repo.EXPECT().SaveSession(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	env := newDispatchEnv(t, 2, repo, nil)
	meta := env.newBoundSession(t, "", backend.HandleEcho)

	require.NoError(t, env.dispatcher.Dispatch(context.Background(), DispatchRequest{
		SessionID: meta.ID,
		RequestID: "req-1",
		Content:   "hello",
	}))

	_, final := env.drainUntilFinal(t)
	assert.Equal(t, models.ServerDone, final.Type)

	warning := env.nextEnvelope(t)
	assert.Equal(t, models.ServerWarning, warning.Type)
	require.NotNil(t, warning.Error)
	assert.Equal(t, CodePersistence, warning.Error.Code)
	assert.Equal(t, "req-1", warning.RequestID)
}

// newHangingSSEServer serves one content chunk over SSE and then blocks
// until the request is cancelled.
func newHangingSSEServer(t *testing.T, chunk string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)

		flusher, ok := w.(http.Flusher)
		require.True(t, ok)

		fmt.Fprintf(w, "data: {\"choices\":[{\"delta\":{\"content\":%q}}]}\n\n", chunk)
		flusher.Flush()

		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	return srv
}

func newOpenAITestBackends(t *testing.T, baseURL string) *backend.Backends {
	t.Helper()

	backends, err := backend.NewBackends(context.Background(), config.Backends{
		Default: "echo",
		OpenAI:  config.OpenAI{BaseURL: baseURL, Model: "test-model"},
	}, logger.Nop())
	require.NoError(t, err)

	return backends
}

func TestDispatch_CancelMidStream(t *testing.T) {
	srv := newHangingSSEServer(t, "partial")
	env := newDispatchEnv(t, 2, nil, newOpenAITestBackends(t, srv.URL))
	meta := env.newBoundSession(t, "titled already", backend.HandleOpenAI)

	errs := make(chan error, 1)
	go func() {
		errs <- env.dispatcher.Dispatch(context.Background(), DispatchRequest{
			SessionID: meta.ID,
			RequestID: "req-1",
			Content:   "tell me a story",
		})
	}()

	// Wait for the first streamed chunk so the generation is mid-flight.
	first := env.nextEnvelope(t)
	require.NotNil(t, first.Chunk)
	assert.Equal(t, "partial", first.Chunk.Content)

	require.True(t, env.dispatcher.Cancel(meta.ID))

	select {
	case err := <-errs:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch did not return after cancellation")
	}

	content, final := env.drainUntilFinal(t)
	assert.Equal(t, "", content)
	assert.Equal(t, models.ServerError, final.Type)
	require.NotNil(t, final.Chunk.Err)
	assert.Equal(t, CodeCancelled, final.Chunk.Err.Code)

	session, err := env.sessions.Get(meta.ID)
	require.NoError(t, err)
	require.Len(t, session.Messages, 2)
	assert.Equal(t, models.StatusCancelled, session.Messages[1].Status)
	assert.Equal(t, "partial", session.Messages[1].Content)
}

// newGatedSSEServer streams one chunk on the first request and keeps that
// stream open until release is closed; later requests complete at once.
func newGatedSSEServer(t *testing.T, release <-chan struct{}) *httptest.Server {
	t.Helper()

	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)

		flusher, ok := w.(http.Flusher)
		require.True(t, ok)

		if calls.Add(1) == 1 {
			fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"first reply\"}}]}\n\n")
			flusher.Flush()
			select {
			case <-release:
			case <-r.Context().Done():
				return
			}
		} else {
			fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"second reply\"}}]}\n\n")
			flusher.Flush()
		}

		fmt.Fprint(w, "data: [DONE]\n\n")
		flusher.Flush()
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestDispatch_SecondRequestQueuesBehindInflight(t *testing.T) {
	release := make(chan struct{})
	srv := newGatedSSEServer(t, release)
	env := newDispatchEnv(t, 2, nil, newOpenAITestBackends(t, srv.URL))
	meta := env.newBoundSession(t, "titled already", backend.HandleOpenAI)

	errs := make(chan error, 2)
	go func() {
		errs <- env.dispatcher.Dispatch(context.Background(), DispatchRequest{
			SessionID: meta.ID,
			RequestID: "req-1",
			Content:   "first question",
		})
	}()

	first := env.nextEnvelope(t)
	require.NotNil(t, first.Chunk)
	assert.Equal(t, "first reply", first.Chunk.Content)

	go func() {
		errs <- env.dispatcher.Dispatch(context.Background(), DispatchRequest{
			SessionID: meta.ID,
			RequestID: "req-2",
			Content:   "second question",
		})
	}()

	// The second request waits on the writer token; nothing reaches the
	// wire for it while the first generation holds the stream open.
	select {
	case envelope := <-env.events:
		t.Fatalf("unexpected envelope while generation in flight: %+v", envelope)
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
	for i := 0; i < 2; i++ {
		select {
		case err := <-errs:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("dispatch did not finish after release")
		}
	}

	_, final := env.drainUntilFinal(t)
	assert.Equal(t, models.ServerDone, final.Type)
	assert.Equal(t, "req-1", final.RequestID)

	content, final := env.drainUntilFinal(t)
	assert.Equal(t, "second reply", content)
	assert.Equal(t, models.ServerDone, final.Type)
	assert.Equal(t, "req-2", final.RequestID)

	session, err := env.sessions.Get(meta.ID)
	require.NoError(t, err)
	require.Len(t, session.Messages, 4)
	assert.Equal(t, "first question", session.Messages[0].Content)
	assert.Equal(t, "first reply", session.Messages[1].Content)
	assert.Equal(t, "second question", session.Messages[2].Content)
	assert.Equal(t, "second reply", session.Messages[3].Content)
	assert.Equal(t, models.StatusComplete, session.Messages[3].Status)
}

func TestCancel_NoInflightGeneration(t *testing.T) {
	env := newDispatchEnv(t, 2, nil, nil)

	assert.False(t, env.dispatcher.Cancel("ghost"))
}

func TestShutdown_CancelsInflightGenerations(t *testing.T) {
	srv := newHangingSSEServer(t, "partial")
	env := newDispatchEnv(t, 2, nil, newOpenAITestBackends(t, srv.URL))
	meta := env.newBoundSession(t, "titled already", backend.HandleOpenAI)

	errs := make(chan error, 1)
	go func() {
		errs <- env.dispatcher.Dispatch(context.Background(), DispatchRequest{
			SessionID: meta.ID,
			Content:   "tell me a story",
		})
	}()

	first := env.nextEnvelope(t)
	require.NotNil(t, first.Chunk)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, env.dispatcher.Shutdown(ctx))

	select {
	case err := <-errs:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("dispatch did not return after shutdown")
	}
}

func TestShutdown_NothingInflight(t *testing.T) {
	env := newDispatchEnv(t, 2, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, env.dispatcher.Shutdown(ctx))
}

func TestTruncateTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"short", "hello", "hello"},
		{"trims whitespace", "  hello  ", "hello"},
		{"first line only", "first line\nsecond line", "first line"},
		{
			"long content truncated",
			strings.Repeat("w", 100),
			strings.Repeat("w", 48),
		},
		{
			"rune safe",
			strings.Repeat("é", 100),
			strings.Repeat("é", 48),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncateTitle(tt.content))
		})
	}
}
