package interpreter

import (
	"context"
	"log/slog"
	"strings"

	"github.com/aretw0/companion/internal/logging"
	"github.com/aretw0/companion/pkg/domain"
	"github.com/aretw0/companion/pkg/extract"
	"github.com/aretw0/companion/pkg/ports"
)

// MessageInvalidResponse is the diagnostic used when no descriptor could be recovered.
const MessageInvalidResponse = "Invalid response from model"

// Interpreter translates utterances into actions through a text generator.
type Interpreter struct {
	gen    ports.TextGenerator
	prompt string
	logger *slog.Logger
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Interpreter) {
		i.logger = logger
	}
}

// WithPrompt replaces the instructional prompt. The template should contain
// CommandPlaceholder; otherwise the utterance is appended.
func WithPrompt(template string) Option {
	return func(i *Interpreter) {
		if template != "" {
			i.prompt = template
		}
	}
}

// New creates an Interpreter backed by gen.
func New(gen ports.TextGenerator, opts ...Option) *Interpreter {
	i := &Interpreter{
		gen:    gen,
		prompt: DefaultPrompt,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Interpret returns the actions for utterance. The list is never empty.
func (i *Interpreter) Interpret(ctx context.Context, utterance string) []domain.Action {
	actions, _ := i.InterpretRaw(ctx, utterance)
	return actions
}

// InterpretRaw is Interpret that also returns the model's raw text.
func (i *Interpreter) InterpretRaw(ctx context.Context, utterance string) ([]domain.Action, string) {
	text, err := i.gen.Generate(ctx, Render(i.prompt, utterance))
	if err != nil {
		i.logger.Error("Text generation failed", "err", err)
		return []domain.Action{domain.Failure{Message: err.Error()}}, ""
	}

	text = strings.TrimSpace(text)
	if text == "" {
		i.logger.Warn("Model returned empty text")
		return []domain.Action{domain.Failure{Message: domain.ErrEmptyResponse.Error()}}, text
	}

	v, err := extract.Extract(text)
	if err != nil {
		i.logger.Warn("Invalid model response", "err", err, "response", text)
		return []domain.Action{domain.Failure{Message: MessageInvalidResponse}}, text
	}

	actions := Normalize(v)
	i.logger.Debug("Command interpreted", "actions", len(actions))
	return actions, text
}

// Normalize converts an extracted value into a non-empty action list.
// A single object becomes a one-element list; an array keeps its order.
// An empty object or array carries no command and yields an error descriptor.
func Normalize(v any) []domain.Action {
	switch t := v.(type) {
	case map[string]any:
		if len(t) == 0 {
			return []domain.Action{domain.Failure{Message: MessageInvalidResponse}}
		}
		return []domain.Action{Decode(t)}
	case []any:
		if len(t) == 0 {
			return []domain.Action{domain.Failure{Message: MessageInvalidResponse}}
		}
		actions := make([]domain.Action, 0, len(t))
		for _, el := range t {
			obj, ok := el.(map[string]any)
			if !ok {
				actions = append(actions, domain.Invalid{Missing: []string{domain.KeyAction}})
				continue
			}
			actions = append(actions, Decode(obj))
		}
		return actions
	}
	return []domain.Action{domain.Failure{Message: MessageInvalidResponse}}
}
