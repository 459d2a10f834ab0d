// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The chatthy Authors

// Package client implements the interactive client application runtime.
//
// It wires the server adapter, the local transcript cache, and the terminal
// UI into a single process lifecycle.
package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/chatthy/chatthy/internal/adapter"
	"github.com/chatthy/chatthy/internal/config"
	"github.com/chatthy/chatthy/internal/logger"
	"github.com/chatthy/chatthy/internal/store"
	"github.com/chatthy/chatthy/internal/tui"
)

type App struct {
	adapter adapter.ServerAdapter
	tui     *tui.TUI
	logger  *logger.Logger
}

func NewApp(cfg *config.ClientConfig, logger *logger.Logger) (*App, error) {
	storages, err := store.NewClientStorages(cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	serverAdapter := adapter.NewServerAdapter(cfg.Adapter, logger)

	return &App{
		adapter: serverAdapter,
		tui:     tui.New(serverAdapter, storages.Transcripts, logger),
		logger:  logger,
	}, nil
}

// Run probes the server and drives the terminal UI until exit. A deliberate
// quit by the user is not an error.
func (a *App) Run() error {
	ctx := context.Background()

	if err := a.adapter.Health(ctx); err != nil {
		return fmt.Errorf("server health check: %w", err)
	}

	if version, err := a.adapter.ServerVersion(ctx); err == nil {
		a.logger.Debug().Str("server_version", version).Msg("connected")
	}

	if err := a.tui.Run(ctx); err != nil {
		if errors.Is(err, tui.ErrUserQuit) {
			return nil
		}
		return err
	}

	return nil
}
