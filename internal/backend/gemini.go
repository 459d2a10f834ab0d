package backend

import (
	"context"
	"fmt"
	"io"
	"iter"

	"google.golang.org/genai"

	"github.com/chatthy/chatthy/internal/config"
	"github.com/chatthy/chatthy/internal/logger"
	"github.com/chatthy/chatthy/models"
)

// HandleGemini is the selector of the Google Gemini backend.
const HandleGemini models.BackendHandle = "gemini"

const defaultGeminiModel = "gemini-2.5-flash"

// Gemini is the responder backed by the Google Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
	logger *logger.Logger
}

// NewGemini constructs the Gemini backend from configuration. The genai
// client validates credentials lazily, so construction fails only on
// malformed configuration.
func NewGemini(ctx context.Context, cfg config.Gemini, log *logger.Logger) (*Gemini, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}

	return &Gemini{client: gc, model: model, logger: log}, nil
}

func (g *Gemini) Handle() models.BackendHandle {
	return HandleGemini
}

func (g *Gemini) Stream(ctx context.Context, req Request) (Stream, error) {
	contents, systemInstruction := convertHistory(req.Messages)

	var conf *genai.GenerateContentConfig
	if systemInstruction != "" {
		conf = &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{{Text: systemInstruction}},
			},
		}
	}

	g.logger.Debug().
		Str("func", "Gemini.Stream").
		Str("session_id", req.SessionID).
		Str("model", g.model).
		Int("history_len", len(contents)).
		Msg("starting gemini generation")

	it := g.client.Models.GenerateContentStream(ctx, g.model, contents, conf)

	return newGeminiStream(ctx, it), nil
}

// convertHistory maps the session history onto genai contents. System
// messages are folded into a single system instruction; assistant turns use
// the "model" role.
func convertHistory(msgs []models.Message) ([]*genai.Content, string) {
	var contents []*genai.Content
	var system string

	for _, msg := range msgs {
		switch msg.Role {
		case models.RoleSystem:
			if system != "" {
				system += "\n"
			}
			system += msg.Content
		case models.RoleAssistant:
			contents = append(contents, &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		default:
			contents = append(contents, &genai.Content{
				Role:  "user",
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		}
	}

	return contents, system
}

// geminiStream adapts the genai pull iterator to [Stream].
type geminiStream struct {
	ctx  context.Context
	pull func() (*genai.GenerateContentResponse, error, bool)
	stop func()
	done bool
}

func newGeminiStream(ctx context.Context, it iter.Seq2[*genai.GenerateContentResponse, error]) *geminiStream {
	next, stop := iter.Pull2(it)

	return &geminiStream{ctx: ctx, pull: next, stop: stop}
}

func (s *geminiStream) Next() (string, error) {
	if s.done {
		return "", io.EOF
	}

	// Responses with empty text (e.g. pure metadata chunks) are skipped so
	// callers only ever see content-bearing chunks.
	for {
		resp, err, ok := s.pull()
		if !ok {
			s.done = true
			return "", io.EOF
		}
		if err != nil {
			s.done = true
			if ctxErr := s.ctx.Err(); ctxErr != nil {
				return "", ctxErr
			}
			return "", NormalizeError(err)
		}

		if text := resp.Text(); text != "" {
			return text, nil
		}
	}
}

func (s *geminiStream) Close() error {
	s.done = true
	s.stop()

	return nil
}
