package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/coder/websocket"

	"github.com/chatthy/chatthy/models"
)

func (a *serverAdapter) Connect(ctx context.Context) (<-chan models.ServerEnvelope, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.conn != nil {
		return a.events, nil
	}

	wsURL := "ws://" + a.addr + "/ws"
	if a.token != "" {
		wsURL += "?token=" + url.QueryEscape(a.token)
	}

	conn, resp, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("%w: %w", ErrServerUnavailable, err)
	}

	a.conn = conn
	a.events = make(chan models.ServerEnvelope, eventQueueDepth)

	go a.readPump(ctx, conn, a.events)

	a.logger.Debug().
		Str("func", "serverAdapter.Connect").
		Str("addr", a.addr).
		Msg("connected to server")

	return a.events, nil
}

// readPump decodes inbound frames onto the events channel until the
// connection dies. It owns the channel and closes it on exit.
func (a *serverAdapter) readPump(ctx context.Context, conn *websocket.Conn, events chan<- models.ServerEnvelope) {
	defer close(events)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			a.logger.Debug().Err(err).
				Str("func", "serverAdapter.readPump").
				Msg("connection closed")
			a.dropConn(conn)
			return
		}

		var env models.ServerEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			a.logger.Warn().Err(err).
				Str("func", "serverAdapter.readPump").
				Msg("failed to decode server envelope")
			continue
		}

		events <- env
	}
}

func (a *serverAdapter) Send(ctx context.Context, env models.Envelope) error {
	a.mu.Lock()
	conn := a.conn
	a.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}

	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshalling envelope: %w", err)
	}

	return conn.Write(ctx, websocket.MessageText, data)
}

func (a *serverAdapter) Close() error {
	a.mu.Lock()
	conn := a.conn
	a.conn = nil
	a.mu.Unlock()

	if conn == nil {
		return nil
	}

	return conn.Close(websocket.StatusNormalClosure, "client closing")
}

// dropConn clears the stored connection if it is still the one that died,
// so a later Connect can establish a fresh one.
func (a *serverAdapter) dropConn(conn *websocket.Conn) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.conn == conn {
		a.conn = nil
	}
}
