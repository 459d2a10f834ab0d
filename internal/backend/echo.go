package backend

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/chatthy/chatthy/internal/config"
	"github.com/chatthy/chatthy/models"
)

// HandleEcho is the selector of the built-in echo backend.
const HandleEcho models.BackendHandle = "echo"

// Echo is the built-in responder that mirrors the last user message back in
// word-sized chunks. It needs no credentials and is always registered, which
// makes it the default backend and the one integration tests run against.
type Echo struct {
	delay time.Duration
}

func NewEcho(cfg config.Echo) *Echo {
	return &Echo{delay: cfg.ChunkDelay}
}

func (e *Echo) Handle() models.BackendHandle {
	return HandleEcho
}

func (e *Echo) Stream(ctx context.Context, req Request) (Stream, error) {
	var last string
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == models.RoleUser {
			last = req.Messages[i].Content
			break
		}
	}

	return &echoStream{ctx: ctx, chunks: splitChunks(last), delay: e.delay}, nil
}

// splitChunks cuts the text into word chunks, each keeping its trailing
// separator so concatenation reproduces the input exactly.
func splitChunks(text string) []string {
	if text == "" {
		return nil
	}

	var chunks []string
	rest := text
	for rest != "" {
		idx := strings.IndexByte(rest, ' ')
		if idx < 0 {
			chunks = append(chunks, rest)
			break
		}

		chunks = append(chunks, rest[:idx+1])
		rest = rest[idx+1:]
	}

	return chunks
}

type echoStream struct {
	ctx    context.Context
	chunks []string
	delay  time.Duration

	mu     sync.Mutex
	pos    int
	closed bool
}

func (s *echoStream) Next() (string, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-s.ctx.Done():
			return "", s.ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ctx.Err(); err != nil {
		return "", err
	}
	if s.closed || s.pos >= len(s.chunks) {
		return "", io.EOF
	}

	chunk := s.chunks[s.pos]
	s.pos++

	return chunk, nil
}

func (s *echoStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true

	return nil
}
