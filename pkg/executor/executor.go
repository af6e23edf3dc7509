// Package executor dispatches one action to its handler and reports a status string.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/companion/internal/logging"
	"github.com/aretw0/companion/pkg/domain"
)

// Fixed statuses.
const (
	StatusQuit          = "Application closed"
	StatusNotUnderstood = "Command not understood"
)

// AppLauncher opens applications.
type AppLauncher interface {
	Open(ctx context.Context, app string, reuse bool) string
	IsEditor(app string) bool
}

// TaskPerformer runs allow-listed system tasks.
type TaskPerformer interface {
	Perform(ctx context.Context, task string) string
}

// FileCreator generates and saves files.
type FileCreator interface {
	Create(ctx context.Context, kind, topic string, reuse bool) string
}

// Executor maps each action variant to its handler.
type Executor struct {
	launcher AppLauncher
	tasks    TaskPerformer
	files    FileCreator
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks fired around each action.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Executor) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// New creates an Executor.
func New(launcher AppLauncher, tasks TaskPerformer, files FileCreator, opts ...Option) *Executor {
	e := &Executor{
		launcher: launcher,
		tasks:    tasks,
		files:    files,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs one action and returns its status. It never panics; a nil ec
// is replaced by a fresh context.
func (e *Executor) Execute(ctx context.Context, action domain.Action, ec *domain.ExecContext) (status string) {
	if ec == nil {
		ec = domain.NewExecContext("")
	}
	kind := "<nil>"
	if action != nil {
		kind = action.Kind()
	}

	start := time.Now()
	evt := &domain.ActionEvent{
		EventBase: domain.EventBase{Timestamp: start, Type: domain.EventActionStart, SubmissionID: ec.SubmissionID},
		Index:     ec.Index,
		Kind:      kind,
	}
	if e.hooks.OnActionStart != nil {
		e.hooks.OnActionStart(ctx, evt)
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Action handler panicked", "kind", kind, "panic", r)
			status = fmt.Sprintf("Error: %v", r)
		}
		if e.hooks.OnActionDone != nil {
			done := *evt
			done.Timestamp = time.Now()
			done.Type = domain.EventActionDone
			done.Status = status
			done.Failed = !Succeeded(action, status)
			done.Duration = time.Since(start)
			e.hooks.OnActionDone(ctx, &done)
		}
	}()

	status = e.dispatch(ctx, action, ec)
	e.logger.Debug("Action executed", "submission_id", ec.SubmissionID, "index", ec.Index, "kind", kind, "status", status)
	return status
}

func (e *Executor) dispatch(ctx context.Context, action domain.Action, ec *domain.ExecContext) string {
	switch a := action.(type) {
	case domain.OpenApp:
		status := e.launcher.Open(ctx, a.App, ec.EditorOpened)
		if e.launcher.IsEditor(a.App) {
			ec.EditorOpened = true
		}
		return status
	case domain.SystemTask:
		return e.tasks.Perform(ctx, a.Task)
	case domain.CreateFile:
		return e.files.Create(ctx, a.Type, a.Topic, ec.EditorOpened)
	case domain.Quit:
		ec.QuitRequested = true
		return StatusQuit
	case domain.Unknown:
		return StatusNotUnderstood
	case domain.Failure:
		return fmt.Sprintf("Error: %s", a.Message)
	case domain.Invalid:
		return a.MissingMessage()
	case domain.Unrecognized:
		return fmt.Sprintf("Unknown action: %s", a.Action)
	case nil:
		return "Unknown action: <nil>"
	default:
		return fmt.Sprintf("Unknown action: %s", a.Kind())
	}
}
