// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The chatthy Authors

package handler

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/chatthy/chatthy/internal/service"
	"github.com/chatthy/chatthy/internal/utils"
	"github.com/chatthy/chatthy/models"
)

// writeTimeout bounds a single outbound frame write. A client that stops
// reading for longer is treated as dead.
const writeTimeout = 10 * time.Second

func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	if h.cfg.AuthToken != "" {
		token := r.URL.Query().Get("token")
		if subtle.ConstantTimeCompare([]byte(token), []byte(h.cfg.AuthToken)) != 1 {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).
			Str("func", "Handler.serveWS").
			Msg("failed to accept websocket connection")
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	connID := h.uuid.Generate()
	out := h.registry.Register(connID)

	log := h.logger.With().Str("conn_id", connID).Logger()
	log.Info().Msg("client connected")

	go h.writeLoop(conn, out, connID)

	h.readLoop(context.WithValue(r.Context(), utils.ConnIDCtxKey, connID), conn)

	// A dead transport cancels the generations it was watching; their
	// terminal envelopes buffer for a later rebind.
	for _, sessionID := range h.registry.Unregister(connID) {
		if h.services.Dispatcher.Cancel(sessionID) {
			log.Info().
				Str("session_id", sessionID).
				Msg("cancelled in-flight generation after connection loss")
		}
	}

	log.Info().Msg("client disconnected")
}

// writeLoop drains the connection's outbound queue onto the wire. It exits
// when the registry closes the channel on Unregister or when a write fails.
func (h *Handler) writeLoop(conn *websocket.Conn, out <-chan models.ServerEnvelope, connID string) {
	for env := range out {
		data, err := json.Marshal(env)
		if err != nil {
			h.logger.Error().Err(err).
				Str("func", "Handler.writeLoop").
				Str("conn_id", connID).
				Msg("failed to marshal server envelope")
			continue
		}

		ctx, cancel := context.WithTimeout(h.baseCtx, writeTimeout)
		err = conn.Write(ctx, websocket.MessageText, data)
		cancel()
		if err != nil {
			h.logger.Debug().Err(err).
				Str("func", "Handler.writeLoop").
				Str("conn_id", connID).
				Msg("write failed, closing connection")
			conn.Close(websocket.StatusAbnormalClosure, "write failed")
			return
		}
	}
}

func (h *Handler) readLoop(ctx context.Context, conn *websocket.Conn) {
	connID, _ := utils.GetConnIDFromContext(ctx)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			h.logger.Debug().Err(err).
				Str("func", "Handler.readLoop").
				Str("conn_id", connID).
				Msg("read loop finished")
			return
		}

		var env models.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			h.respondError(connID, models.Envelope{}, errInvalidEnvelope)
			continue
		}

		h.handleEnvelope(connID, env)
	}
}

// handleEnvelope routes one decoded client request. Generation work runs
// asynchronously; everything else answers inline through the connection's
// outbound queue.
func (h *Handler) handleEnvelope(connID string, env models.Envelope) {
	ctx := h.baseCtx

	switch env.Type {
	case models.EnvelopeMessage:
		meta, err := h.services.SessionService.Resolve(ctx, env.SessionID, env.Backend)
		if err != nil {
			h.respondError(connID, env, err)
			return
		}
		if err := h.registry.Bind(meta.ID, connID); err != nil {
			return
		}

		h.sendTo(connID, models.ServerEnvelope{
			Type:      models.ServerAck,
			RequestID: env.RequestID,
			SessionID: meta.ID,
		})

		go func() {
			// Dispatch reports its failures as envelopes; the returned
			// error here is for the server log only.
			if err := h.services.Dispatcher.Dispatch(ctx, service.DispatchRequest{
				SessionID: meta.ID,
				RequestID: env.RequestID,
				Content:   env.Content,
				Backend:   env.Backend,
			}); err != nil {
				h.logger.Debug().Err(err).
					Str("func", "Handler.handleEnvelope").
					Str("session_id", meta.ID).
					Msg("generation finished with error")
			}
		}()

	case models.EnvelopeCancel:
		h.services.Dispatcher.Cancel(env.SessionID)
		h.sendTo(connID, models.ServerEnvelope{
			Type:      models.ServerAck,
			RequestID: env.RequestID,
			SessionID: env.SessionID,
		})

	case models.EnvelopeSessionNew:
		meta, err := h.services.SessionService.Create(ctx, env.Content, env.Backend)
		if err != nil {
			h.respondError(connID, env, err)
			return
		}
		if err := h.registry.Bind(meta.ID, connID); err != nil {
			return
		}

		h.sendTo(connID, models.ServerEnvelope{
			Type:      models.ServerSession,
			RequestID: env.RequestID,
			SessionID: meta.ID,
			Session:   &meta,
		})

	case models.EnvelopeSessionSwitch:
		meta, err := h.services.SessionService.Resolve(ctx, env.SessionID, env.Backend)
		if err != nil {
			h.respondError(connID, env, err)
			return
		}
		if err := h.registry.Bind(meta.ID, connID); err != nil {
			return
		}

		h.sendTo(connID, models.ServerEnvelope{
			Type:      models.ServerSession,
			RequestID: env.RequestID,
			SessionID: meta.ID,
			Session:   &meta,
		})

	case models.EnvelopeSessionList:
		sessions, err := h.services.SessionService.List(ctx)
		if err != nil {
			h.respondError(connID, env, err)
			return
		}

		h.sendTo(connID, models.ServerEnvelope{
			Type:      models.ServerSessions,
			RequestID: env.RequestID,
			Sessions:  sessions,
		})

	case models.EnvelopeSessionHistory:
		history, err := h.services.SessionService.History(ctx, env.SessionID)
		if err != nil {
			h.respondError(connID, env, err)
			return
		}

		h.sendTo(connID, models.ServerEnvelope{
			Type:      models.ServerHistory,
			RequestID: env.RequestID,
			SessionID: env.SessionID,
			Messages:  history,
		})

	case models.EnvelopeSessionDelete:
		if err := h.services.SessionService.Delete(ctx, env.SessionID); err != nil {
			h.respondError(connID, env, err)
			return
		}

		h.sendTo(connID, models.ServerEnvelope{
			Type:      models.ServerAck,
			RequestID: env.RequestID,
			SessionID: env.SessionID,
		})

	case models.EnvelopeSessionRename:
		if err := h.services.SessionService.Rename(ctx, env.SessionID, env.Content); err != nil {
			h.respondError(connID, env, err)
			return
		}

		meta, err := h.services.SessionService.Resolve(ctx, env.SessionID, "")
		if err != nil {
			h.respondError(connID, env, err)
			return
		}

		h.sendTo(connID, models.ServerEnvelope{
			Type:      models.ServerSession,
			RequestID: env.RequestID,
			SessionID: meta.ID,
			Session:   &meta,
		})

	case models.EnvelopeCheckpoint:
		if err := h.services.SessionService.Checkpoint(ctx, env.SessionID); err != nil {
			h.respondError(connID, env, err)
			return
		}

		h.sendTo(connID, models.ServerEnvelope{
			Type:      models.ServerAck,
			RequestID: env.RequestID,
			SessionID: env.SessionID,
		})

	default:
		h.respondError(connID, env, errUnknownEnvelopeType)
	}
}

func (h *Handler) respondError(connID string, env models.Envelope, err error) {
	h.sendTo(connID, models.ServerEnvelope{
		Type:      models.ServerError,
		RequestID: env.RequestID,
		SessionID: env.SessionID,
		Error:     wireErrorFrom(err),
	})
}

func (h *Handler) sendTo(connID string, env models.ServerEnvelope) {
	if err := h.registry.SendTo(connID, env); err != nil {
		h.logger.Debug().Err(err).
			Str("func", "Handler.sendTo").
			Str("conn_id", connID).
			Msg("failed to queue envelope for connection")
	}
}
