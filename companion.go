package companion

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/companion/internal/logging"
	"github.com/aretw0/companion/pkg/actions"
	"github.com/aretw0/companion/pkg/domain"
	"github.com/aretw0/companion/pkg/executor"
	"github.com/aretw0/companion/pkg/ports"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Separator joins the statuses of one submission.
const Separator = "; "

// DefaultEditorDelay is the pause before a file is created in an editor that was
// launched by the previous action.
const DefaultEditorDelay = 3 * time.Second

// Interpreter turns an utterance into actions.
type Interpreter interface {
	Interpret(ctx context.Context, utterance string) []domain.Action
}

// Executor runs one action.
type Executor interface {
	Execute(ctx context.Context, action domain.Action, ec *domain.ExecContext) string
}

// Outcome is the result of one submission.
type Outcome struct {
	ID       string            `json:"id"`
	Actions  domain.ActionList `json:"actions"`
	Statuses []string          `json:"statuses"`
	Status   string            `json:"status"`
	Failed   int               `json:"failed"`
	Quit     bool              `json:"quit"`
}

// OK reports whether every executed action succeeded.
func (o Outcome) OK() bool {
	return o.Failed == 0 && len(o.Statuses) > 0
}

// Assistant is the orchestration loop: it interprets one utterance and executes
// the resulting actions strictly in order, one at a time.
type Assistant struct {
	interpreter Interpreter
	executor    Executor
	readiness   ports.Readiness
	editorNames []string
	hooks       domain.LifecycleHooks
	tracer      trace.Tracer
	logger      *slog.Logger
	newID       func() string
}

// Option defines a functional option for configuring the Assistant.
type Option func(*Assistant)

// WithReadiness sets how the loop waits for a freshly launched editor.
func WithReadiness(r ports.Readiness) Option {
	return func(a *Assistant) {
		a.readiness = r
	}
}

// WithEditorNames sets the application names that refer to the code editor.
func WithEditorNames(names ...string) Option {
	return func(a *Assistant) {
		if len(names) > 0 {
			a.editorNames = names
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *Assistant) {
		a.hooks = a.hooks.Merge(hooks)
	}
}

// WithTracer sets the tracer used for submission and action spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(a *Assistant) {
		a.tracer = tracer
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assistant) {
		a.logger = logger
	}
}

// WithIDGenerator overrides submission id generation.
func WithIDGenerator(fn func() string) Option {
	return func(a *Assistant) {
		a.newID = fn
	}
}

// New creates an Assistant.
func New(interpreter Interpreter, exec Executor, opts ...Option) *Assistant {
	a := &Assistant{
		interpreter: interpreter,
		executor:    exec,
		readiness:   FixedDelay(DefaultEditorDelay),
		editorNames: actions.DefaultEditorNames,
		tracer:      otel.Tracer("github.com/aretw0/companion"),
		logger:      logging.NewNop(),
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Submit runs one utterance through the pipeline and returns the combined outcome.
// A quit action ends the list: later actions are skipped and Outcome.Quit is set.
func (a *Assistant) Submit(ctx context.Context, utterance string) Outcome {
	utterance = strings.TrimSpace(utterance)
	out := Outcome{ID: a.newID()}
	if utterance == "" {
		return out
	}

	ctx, span := a.tracer.Start(ctx, "companion.submit",
		trace.WithAttributes(attribute.String("submission.id", out.ID)))
	defer span.End()

	start := time.Now()
	if a.hooks.OnSubmit != nil {
		a.hooks.OnSubmit(ctx, &domain.SubmitEvent{
			EventBase: domain.EventBase{Timestamp: start, Type: domain.EventSubmit, SubmissionID: out.ID},
			Text:      utterance,
		})
	}
	a.logger.Info("Submission received", "submission_id", out.ID, "text", utterance)

	list := a.interpreter.Interpret(ctx, utterance)
	out.Actions = list
	span.SetAttributes(attribute.Int("submission.actions", len(list)))

	ec := domain.NewExecContext(out.ID)
	for i, action := range list {
		if _, ok := action.(domain.CreateFile); ok && i > 0 && domain.IsEditorLaunch(list[i-1], a.editorNames) {
			app := list[i-1].(domain.OpenApp).App
			a.logger.Debug("Waiting for editor before creating file", "app", app)
			if err := a.readiness.Wait(ctx, app); err != nil {
				a.logger.Warn("Submission interrupted", "submission_id", out.ID, "err", err)
				span.SetStatus(codes.Error, err.Error())
				break
			}
		}

		ec.Index = i
		status := a.execute(ctx, action, ec)
		out.Statuses = append(out.Statuses, status)
		if !executor.Succeeded(action, status) {
			out.Failed++
		}

		if ec.QuitRequested {
			out.Quit = true
			if skipped := len(list) - i - 1; skipped > 0 {
				a.logger.Info("Quit requested, skipping remaining actions", "skipped", skipped)
			}
			break
		}
	}

	out.Status = strings.Join(out.Statuses, Separator)
	if a.hooks.OnSubmitDone != nil {
		a.hooks.OnSubmitDone(ctx, &domain.SubmitEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventSubmitDone, SubmissionID: out.ID},
			Actions:   len(out.Statuses),
			Status:    out.Status,
			Quit:      out.Quit,
			Duration:  time.Since(start),
		})
	}
	a.logger.Info("Submission done", "submission_id", out.ID, "status", out.Status, "failed", out.Failed)
	return out
}

func (a *Assistant) execute(ctx context.Context, action domain.Action, ec *domain.ExecContext) string {
	ctx, span := a.tracer.Start(ctx, "companion.action", trace.WithAttributes(
		attribute.Int("action.index", ec.Index),
		attribute.String("action.kind", action.Kind()),
	))
	defer span.End()

	status := a.executor.Execute(ctx, action, ec)
	span.SetAttributes(attribute.String("action.status", status))
	if !executor.Succeeded(action, status) {
		span.SetStatus(codes.Error, status)
	}
	return status
}
