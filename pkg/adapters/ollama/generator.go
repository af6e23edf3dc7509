// Package ollama provides a ports.TextGenerator backed by a local Ollama server.
package ollama

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/aretw0/companion/internal/logging"
	ollama "github.com/ollama/ollama/api"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "llama3.2"

// Generator implements ports.TextGenerator over the Ollama chat API.
type Generator struct {
	client      *ollama.Client
	model       string
	temperature float64
	logger      *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithModel selects the model name. An "ollama:" prefix is accepted.
func WithModel(model string) Option {
	return func(g *Generator) {
		if model != "" {
			g.model = strings.TrimPrefix(model, "ollama:")
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(g *Generator) {
		g.temperature = t
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// New creates a Generator. An empty host falls back to OLLAMA_HOST and then
// to the local default.
func New(host string, opts ...Option) (*Generator, error) {
	var client *ollama.Client
	if host == "" {
		c, err := ollama.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("could not create ollama client: %w", err)
		}
		client = c
	} else {
		u, err := url.Parse(host)
		if err != nil {
			return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
		}
		client = ollama.NewClient(u, http.DefaultClient)
	}
	return NewWithClient(client, opts...), nil
}

// NewWithClient creates a Generator over an existing client.
func NewWithClient(client *ollama.Client, opts ...Option) *Generator {
	g := &Generator{
		client:      client,
		model:       DefaultModel,
		temperature: 0.2,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate sends prompt as a single user message and collects the reply.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	stream := false
	req := &ollama.ChatRequest{
		Model:    g.model,
		Messages: []ollama.Message{{Role: "user", Content: prompt}},
		Stream:   &stream,
		Options: map[string]any{
			"temperature": g.temperature,
		},
	}

	var sb strings.Builder
	err := g.client.Chat(ctx, req, func(res ollama.ChatResponse) error {
		sb.WriteString(res.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat failed: %w", err)
	}

	text := strings.TrimSpace(sb.String())
	g.logger.Debug("Ollama response", "model", g.model, "chars", len(text))
	return text, nil
}
