// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The chatthy Authors

// Package tui implements the interactive terminal chat client: a session
// list, a chat screen with live streaming output, and a thin layer of
// key-driven session operations over the server adapter.
package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chatthy/chatthy/internal/adapter"
	"github.com/chatthy/chatthy/internal/logger"
	"github.com/chatthy/chatthy/internal/store"
)

// ErrUserQuit reports that the user left the program deliberately.
var ErrUserQuit = errors.New("quit by user")

type TUI struct {
	adapter     adapter.ServerAdapter
	transcripts store.TranscriptRepository
	logger      *logger.Logger
}

// New builds the terminal client. transcripts may be nil, disabling the
// local cache.
func New(serverAdapter adapter.ServerAdapter, transcripts store.TranscriptRepository, logger *logger.Logger) *TUI {
	return &TUI{
		adapter:     serverAdapter,
		transcripts: transcripts,
		logger:      logger,
	}
}

// Run connects to the server and drives the chat program until the user
// quits or the connection is lost.
func (t *TUI) Run(ctx context.Context) error {
	events, err := t.adapter.Connect(ctx)
	if err != nil {
		return err
	}
	defer t.adapter.Close()

	model := newAppModel(ctx, t.adapter, t.transcripts, events, t.logger)

	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}

	if m, ok := final.(appModel); ok && m.quitByUser {
		return ErrUserQuit
	}

	return nil
}
