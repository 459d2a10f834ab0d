// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The chatthy Authors

package workers

import (
	"context"
	"time"

	"github.com/chatthy/chatthy/internal/config"
	"github.com/chatthy/chatthy/internal/logger"
	"github.com/chatthy/chatthy/internal/service"
)

// EvictionWorker periodically checkpoints and evicts sessions that have been
// idle longer than the configured TTL. Persisted copies stay intact; an
// evicted session is restored from the repository on its next use.
type EvictionWorker struct {
	sessions service.SessionService
	interval time.Duration
	ttl      time.Duration

	logger *logger.Logger
}

func NewEvictionWorker(sessions service.SessionService, cfg config.Workers, logger *logger.Logger) *EvictionWorker {
	return &EvictionWorker{
		sessions: sessions,
		interval: cfg.EvictInterval,
		ttl:      cfg.SessionTTL,
		logger:   logger,
	}
}

func (w *EvictionWorker) Run(ctx context.Context) {
	if w.interval <= 0 || w.ttl <= 0 {
		w.logger.Info().
			Str("func", "EvictionWorker.Run").
			Msg("idle-session eviction disabled")
		return
	}

	w.logger.Info().
		Str("func", "EvictionWorker.Run").
		Dur("interval", w.interval).
		Dur("ttl", w.ttl).
		Msg("idle-session eviction started")

	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				w.logger.Info().
					Str("func", "EvictionWorker.Run").
					Msg("idle-session eviction stopped")
				return
			case <-ticker.C:
				w.sessions.EvictIdle(ctx, w.ttl)
			}
		}
	}()
}
