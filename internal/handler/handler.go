// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The chatthy Authors

// Package handler is the inbound transport layer: a chi router hosting the
// health and version endpoints plus the persistent websocket on which all
// session operations travel as JSON envelopes.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/chatthy/chatthy/internal/config"
	"github.com/chatthy/chatthy/internal/logger"
	"github.com/chatthy/chatthy/internal/registry"
	"github.com/chatthy/chatthy/internal/service"
	"github.com/chatthy/chatthy/internal/utils"
)

type Handler struct {
	services *service.Services
	registry *registry.Registry
	cfg      config.App
	uuid     *utils.UUIDGenerator

	// baseCtx scopes dispatched generations to the server lifetime, not to
	// the connection that submitted them.
	baseCtx context.Context

	logger *logger.Logger
}

func NewHandler(ctx context.Context, services *service.Services, reg *registry.Registry, cfg config.App, logger *logger.Logger) *Handler {
	return &Handler{
		services: services,
		registry: reg,
		cfg:      cfg,
		uuid:     utils.NewUUIDGenerator(),
		baseCtx:  ctx,
		logger:   logger,
	}
}

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	router.Group(func(r chi.Router) {
		r.Use(h.withLogging)
		r.Get("/health", h.health)
		r.Get("/api/version/", h.getServerVersion)
	})

	// The websocket upgrade needs the raw ResponseWriter; the logging
	// decorator would mask http.Hijacker.
	router.Get("/ws", h.serveWS)

	return router
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("ok"))
}

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(h.cfg.Version))
}
