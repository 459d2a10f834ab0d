package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/chatthy/chatthy/internal/backend"
	"github.com/chatthy/chatthy/internal/logger"
	"github.com/chatthy/chatthy/internal/registry"
	"github.com/chatthy/chatthy/internal/store"
	"github.com/chatthy/chatthy/models"
)

// titleLimit caps the auto-generated session title taken from the first
// user message.
const titleLimit = 48

type dispatchService struct {
	sessions store.SessionStore
	repo     store.SessionRepository
	backends *backend.Backends
	registry *registry.Registry

	logger *logger.Logger

	mu       sync.Mutex
	inflight map[string]context.CancelFunc
	wg       sync.WaitGroup
}

func NewDispatcher(storages *store.Storages, backends *backend.Backends, reg *registry.Registry, logger *logger.Logger) Dispatcher {
	return &dispatchService{
		sessions: storages.Sessions,
		repo:     storages.Repository,
		backends: backends,
		registry: reg,
		logger:   logger,
		inflight: make(map[string]context.CancelFunc),
	}
}

// Dispatch runs the generation state machine for one user message:
//
//	acquire writer -> append user message -> begin streaming ->
//	stream chunks -> finalize -> persist -> release writer
//
// Failures before streaming starts are reported as an error envelope;
// failures mid-stream terminate the delivery with a final chunk carrying
// the wire error. Either way the writer token is released and the next
// queued generation proceeds.
func (d *dispatchService) Dispatch(ctx context.Context, req DispatchRequest) error {
	log := d.logger

	if strings.TrimSpace(req.Content) == "" {
		d.deliverError(req, ErrEmptyMessage)
		return ErrEmptyMessage
	}

	session, err := d.sessions.Get(req.SessionID)
	if err != nil {
		d.deliverError(req, err)
		return err
	}

	handle := req.Backend
	if handle == "" {
		handle = session.Backend
	}
	b, err := d.backends.Resolve(handle)
	if err != nil {
		d.deliverError(req, err)
		return err
	}

	tok, err := d.sessions.AcquireWriter(ctx, req.SessionID)
	if err != nil {
		d.deliverError(req, err)
		return err
	}
	defer d.sessions.ReleaseWriter(tok)

	userMsg, err := d.sessions.Append(tok, models.RoleUser, req.Content)
	if err != nil {
		d.deliverError(req, err)
		return err
	}

	// First message titles the session.
	if session.Title == "" && userMsg.Seq == 0 {
		_ = d.sessions.Rename(req.SessionID, truncateTitle(req.Content))
	}

	msgHandle, err := d.sessions.BeginStreaming(tok)
	if err != nil {
		d.deliverError(req, err)
		return err
	}

	genCtx, cancel := context.WithCancel(ctx)
	d.track(req.SessionID, cancel)
	d.wg.Add(1)
	defer func() {
		d.untrack(req.SessionID)
		cancel()
		d.wg.Done()
	}()

	log.Info().
		Str("func", "dispatchService.Dispatch").
		Str("session_id", req.SessionID).
		Str("backend", string(b.Handle())).
		Msg("generation started")

	genErr := d.streamReply(genCtx, b, req, msgHandle)

	status := models.StatusComplete
	switch {
	case genErr == nil:
	case errors.Is(genErr, context.Canceled), errors.Is(genErr, context.DeadlineExceeded):
		status = models.StatusCancelled
	default:
		status = models.StatusFailed
	}

	assistantMsg, finErr := d.sessions.Finalize(msgHandle, status)
	if finErr != nil {
		log.Error().Err(finErr).
			Str("func", "dispatchService.Dispatch").
			Str("session_id", req.SessionID).
			Msg("failed to finalize streaming message")
	}

	d.registry.Deliver(req.SessionID, models.ServerEnvelope{
		Type:      ServerTypeFor(genErr),
		RequestID: req.RequestID,
		SessionID: req.SessionID,
		Chunk: &models.StreamChunk{
			SessionID: req.SessionID,
			MessageID: assistantMsg.ID,
			Final:     true,
			Err:       WireErrorFrom(genErr),
		},
	})

	d.persistTurn(ctx, req, userMsg, assistantMsg)

	log.Info().
		Str("func", "dispatchService.Dispatch").
		Str("session_id", req.SessionID).
		Str("status", string(status)).
		Msg("generation finished")

	return genErr
}

// ServerTypeFor selects the terminal envelope type for a finished
// generation: done on success, error otherwise.
func ServerTypeFor(genErr error) models.ServerEnvelopeType {
	if genErr == nil {
		return models.ServerDone
	}

	return models.ServerError
}

// streamReply drains the backend stream, persisting and delivering each
// chunk in order.
func (d *dispatchService) streamReply(ctx context.Context, b backend.Backend, req DispatchRequest, msgHandle store.MessageHandle) error {
	session, err := d.sessions.Get(req.SessionID)
	if err != nil {
		return err
	}

	// History excludes the trailing streaming placeholder.
	history := session.Messages[:len(session.Messages)-1]

	stream, err := b.Stream(ctx, backend.Request{
		SessionID: req.SessionID,
		Messages:  history,
	})
	if err != nil {
		return err
	}
	defer stream.Close()

	seq := 0
	for {
		chunk, streamErr := stream.Next()
		if streamErr != nil {
			if errors.Is(streamErr, io.EOF) {
				return nil
			}
			return streamErr
		}

		d.sessions.UpdateStreaming(msgHandle, chunk)
		d.registry.Deliver(req.SessionID, models.ServerEnvelope{
			Type:      models.ServerChunk,
			SessionID: req.SessionID,
			Chunk: &models.StreamChunk{
				SessionID: req.SessionID,
				MessageID: msgHandle.MessageID,
				Seq:       seq,
				Content:   chunk,
			},
		})
		seq++
	}
}

// persistTurn writes the completed turn behind the generation. A failed
// write degrades to a warning envelope; the session stays usable.
func (d *dispatchService) persistTurn(ctx context.Context, req DispatchRequest, userMsg, assistantMsg models.Message) {
	if d.repo == nil {
		return
	}

	session, err := d.sessions.Get(req.SessionID)
	if err != nil {
		// Session evicted between finalize and persist.
		return
	}

	persistErr := d.repo.SaveSession(ctx, session.Meta())
	if persistErr == nil {
		persistErr = d.repo.SaveMessage(ctx, userMsg)
	}
	if persistErr == nil && assistantMsg.ID != "" {
		persistErr = d.repo.SaveMessage(ctx, assistantMsg)
	}

	if persistErr != nil {
		d.logger.Warn().Err(persistErr).
			Str("func", "dispatchService.persistTurn").
			Str("session_id", req.SessionID).
			Msg("failed to persist completed turn")

		d.registry.Deliver(req.SessionID, models.ServerEnvelope{
			Type:      models.ServerWarning,
			RequestID: req.RequestID,
			SessionID: req.SessionID,
			Error:     &models.WireError{Code: CodePersistence, Message: "turn completed but could not be persisted"},
		})
	}
}

func (d *dispatchService) deliverError(req DispatchRequest, err error) {
	d.registry.Deliver(req.SessionID, models.ServerEnvelope{
		Type:      models.ServerError,
		RequestID: req.RequestID,
		SessionID: req.SessionID,
		Error:     WireErrorFrom(err),
	})
}

func (d *dispatchService) track(sessionID string, cancel context.CancelFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.inflight[sessionID] = cancel
}

func (d *dispatchService) untrack(sessionID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.inflight, sessionID)
}

func (d *dispatchService) Cancel(sessionID string) bool {
	d.mu.Lock()
	cancel, ok := d.inflight[sessionID]
	d.mu.Unlock()

	if ok {
		d.logger.Info().
			Str("func", "dispatchService.Cancel").
			Str("session_id", sessionID).
			Msg("cancelling in-flight generation")
		cancel()
	}

	return ok
}

func (d *dispatchService) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	for _, cancel := range d.inflight {
		cancel()
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func truncateTitle(content string) string {
	title := strings.TrimSpace(content)
	if idx := strings.IndexByte(title, '\n'); idx >= 0 {
		title = title[:idx]
	}
	if runes := []rune(title); len(runes) > titleLimit {
		title = strings.TrimSpace(string(runes[:titleLimit]))
	}

	return title
}
