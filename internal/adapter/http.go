package adapter

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/go-resty/resty/v2"

	"github.com/chatthy/chatthy/internal/config"
	"github.com/chatthy/chatthy/internal/logger"
	"github.com/chatthy/chatthy/models"
)

// eventQueueDepth buffers decoded server envelopes between the read pump
// and the consumer.
const eventQueueDepth = 64

type serverAdapter struct {
	client *resty.Client
	addr   string
	token  string

	mu     sync.Mutex
	conn   *websocket.Conn
	events chan models.ServerEnvelope

	logger *logger.Logger
}

func NewServerAdapter(cfg config.ClientAdapter, logger *logger.Logger) ServerAdapter {
	if cfg.ServerAddress == "" {
		cfg.ServerAddress = "localhost:8080"
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}

	client := resty.New().
		SetBaseURL("http://" + cfg.ServerAddress).
		SetTimeout(cfg.RequestTimeout)

	return &serverAdapter{
		client: client,
		addr:   cfg.ServerAddress,
		token:  cfg.AuthToken,
		logger: logger,
	}
}

func (a *serverAdapter) Health(ctx context.Context) error {
	resp, err := a.client.R().SetContext(ctx).Get("/health")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrServerUnavailable, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("%w: health status %d", ErrServerUnavailable, resp.StatusCode())
	}

	return nil
}

func (a *serverAdapter) ServerVersion(ctx context.Context) (string, error) {
	resp, err := a.client.R().SetContext(ctx).Get("/api/version/")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrServerUnavailable, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("%w: version status %d", ErrServerUnavailable, resp.StatusCode())
	}

	return resp.String(), nil
}
