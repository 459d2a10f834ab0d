// Package server wires and runs the application's transport server.
//
// It owns the HTTP listener lifecycle: startup, OS signal handling, and
// graceful shutdown including the drain of in-flight generations.
package server

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/chatthy/chatthy/internal/config"
	"github.com/chatthy/chatthy/internal/handler"
	"github.com/chatthy/chatthy/internal/logger"
	"github.com/chatthy/chatthy/internal/service"
)

// shutdownGrace bounds how long in-flight generations get to finalize their
// trailing messages during shutdown.
const shutdownGrace = 10 * time.Second

var errNoAddressConfigured = errors.New("no server address is configured")

// Server is the lifecycle contract for the transport server.
//
// RunServer blocks until shutdown is requested; Shutdown stops the listener
// and drains in-flight work.
type Server interface {
	RunServer()
	Shutdown()
}

type server struct {
	httpServer *httpServer
	dispatcher service.Dispatcher
	logger     *logger.Logger
}

func NewServer(h *handler.Handler, dispatcher service.Dispatcher, cfg config.Server, logger *logger.Logger) (Server, error) {
	if cfg.HTTPAddress == "" {
		return nil, errNoAddressConfigured
	}

	return &server{
		httpServer: newHTTPServer(h.Init(), cfg, logger),
		dispatcher: dispatcher,
		logger:     logger,
	}, nil
}

func (s *server) RunServer() {
	if err := s.run(); err != nil {
		s.logger.Error().Err(err).Msg("error running server")
	}
}

func (s *server) Shutdown() {
	s.httpServer.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := s.dispatcher.Shutdown(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("in-flight generations did not drain before deadline")
	}
}

func (s *server) run() error {
	idleConnectionsClosed := make(chan struct{})
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	go func() {
		<-ctx.Done()

		s.Shutdown()

		close(idleConnectionsClosed)
	}()

	s.logger.Info().Msg("launching HTTP server")
	go s.httpServer.RunServer()

	<-idleConnectionsClosed
	s.logger.Info().Msg("server shut down gracefully")

	return nil
}
