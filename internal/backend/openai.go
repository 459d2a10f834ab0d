package backend

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/chatthy/chatthy/internal/config"
	"github.com/chatthy/chatthy/internal/logger"
	"github.com/chatthy/chatthy/models"
)

// HandleOpenAI is the selector of the OpenAI-compatible HTTP backend.
const HandleOpenAI models.BackendHandle = "openai"

const chatCompletionsPath = "/v1/chat/completions"

// OpenAI is the responder for any server speaking the OpenAI chat
// completions protocol with SSE streaming (api.openai.com, llama.cpp,
// vllm, ollama).
type OpenAI struct {
	client *resty.Client
	model  string
	logger *logger.Logger
}

func NewOpenAI(cfg config.OpenAI, log *logger.Logger) *OpenAI {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.APIKey)

	return &OpenAI{client: client, model: cfg.Model, logger: log}
}

func (o *OpenAI) Handle() models.BackendHandle {
	return HandleOpenAI
}

// chatCompletionRequest is the wire form of a streaming completions call.
type chatCompletionRequest struct {
	Model    string               `json:"model"`
	Messages []chatMessagePayload `json:"messages"`
	Stream   bool                 `json:"stream"`
}

type chatMessagePayload struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionChunk is one SSE data payload of a streaming response.
type chatCompletionChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
}

func (o *OpenAI) Stream(ctx context.Context, req Request) (Stream, error) {
	payload := chatCompletionRequest{
		Model:  o.model,
		Stream: true,
	}
	for _, msg := range req.Messages {
		payload.Messages = append(payload.Messages, chatMessagePayload{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	o.logger.Debug().
		Str("func", "OpenAI.Stream").
		Str("session_id", req.SessionID).
		Str("model", o.model).
		Int("history_len", len(payload.Messages)).
		Msg("starting openai generation")

	resp, err := o.client.R().
		SetContext(ctx).
		SetHeader("Accept", "text/event-stream").
		SetBody(payload).
		SetDoNotParseResponse(true).
		Post(chatCompletionsPath)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}

	if resp.StatusCode() != 200 {
		body, _ := io.ReadAll(io.LimitReader(resp.RawBody(), 4096))
		_ = resp.RawBody().Close()
		return nil, fmt.Errorf("%w: status %d: %s", ErrBackendError, resp.StatusCode(), strings.TrimSpace(string(body)))
	}

	return &openaiStream{
		ctx:     ctx,
		body:    resp.RawBody(),
		scanner: bufio.NewScanner(resp.RawBody()),
	}, nil
}

// openaiStream reads one SSE event per Next call and extracts the delta
// content.
type openaiStream struct {
	ctx     context.Context
	body    io.ReadCloser
	scanner *bufio.Scanner
	done    bool
}

func (s *openaiStream) Next() (string, error) {
	if s.done {
		return "", io.EOF
	}

	for s.scanner.Scan() {
		if err := s.ctx.Err(); err != nil {
			s.done = true
			return "", err
		}

		content, done, err := parseSSELine(s.scanner.Text())
		if err != nil {
			s.done = true
			return "", err
		}
		if done {
			s.done = true
			return "", io.EOF
		}
		if content != "" {
			return content, nil
		}
	}

	s.done = true
	if err := s.scanner.Err(); err != nil {
		if ctxErr := s.ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", NormalizeError(err)
	}

	return "", io.EOF
}

// parseSSELine extracts the delta content from one SSE line. Non-data lines
// and keep-alive comments yield empty content.
func parseSSELine(line string) (content string, done bool, err error) {
	data, ok := strings.CutPrefix(line, "data:")
	if !ok {
		return "", false, nil
	}

	data = strings.TrimSpace(data)
	if data == "" {
		return "", false, nil
	}
	if data == "[DONE]" {
		return "", true, nil
	}

	var chunk chatCompletionChunk
	if jsonErr := json.Unmarshal([]byte(data), &chunk); jsonErr != nil {
		return "", false, fmt.Errorf("%w: decoding stream chunk: %w", ErrBackendError, jsonErr)
	}

	if len(chunk.Choices) == 0 {
		return "", false, nil
	}

	return chunk.Choices[0].Delta.Content, false, nil
}

func (s *openaiStream) Close() error {
	s.done = true

	return s.body.Close()
}
