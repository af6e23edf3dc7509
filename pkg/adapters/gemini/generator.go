// Package gemini provides a ports.TextGenerator backed by the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/companion/internal/logging"
	"github.com/aretw0/companion/pkg/domain"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-1.5-flash"

// contentGenerator is the subset of *genai.Models used here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator implements ports.TextGenerator over google.golang.org/genai.
type Generator struct {
	models      contentGenerator
	model       string
	temperature *float32
	logger      *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithModel selects the model name.
func WithModel(model string) Option {
	return func(g *Generator) {
		if model != "" {
			g.model = model
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float32) Option {
	return func(g *Generator) {
		g.temperature = genai.Ptr(t)
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// New creates a Generator authenticated with apiKey.
func New(ctx context.Context, apiKey string, opts ...Option) (*Generator, error) {
	if IsPlaceholder(apiKey) {
		return nil, fmt.Errorf("%w: API key is not set", domain.ErrServiceUnavailable)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newGenerator(client.Models, opts...), nil
}

func newGenerator(models contentGenerator, opts ...Option) *Generator {
	g := &Generator{
		models: models,
		model:  DefaultModel,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate sends prompt as a single user turn and returns the trimmed text.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	var cfg *genai.GenerateContentConfig
	if g.temperature != nil {
		cfg = &genai.GenerateContentConfig{Temperature: g.temperature}
	}

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	g.logger.Debug("Gemini response", "model", g.model, "chars", len(text))
	return text, nil
}

var placeholders = map[string]bool{
	"":                  true,
	"your_api_key_here": true,
	"changeme":          true,
}

// IsPlaceholder reports whether key is absent or one of the sample values
// shipped in example configuration.
func IsPlaceholder(key string) bool {
	return placeholders[strings.ToLower(strings.TrimSpace(key))]
}
