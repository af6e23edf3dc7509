package actions

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/companion/internal/logging"
)

// TaskRunner runs allow-listed system tasks.
type TaskRunner interface {
	Allowed(name string) bool
	Execute(ctx context.Context, name string) (string, error)
}

// Tasks performs named system tasks.
type Tasks struct {
	runner TaskRunner
	logger *slog.Logger
}

// NewTasks creates a Tasks handler. A nil logger discards output.
func NewTasks(runner TaskRunner, logger *slog.Logger) *Tasks {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Tasks{runner: runner, logger: logger}
}

// Perform runs task when it is allow-listed and reports the outcome.
func (h *Tasks) Perform(ctx context.Context, task string) string {
	if !h.runner.Allowed(task) {
		h.logger.Warn("Task refused", "task", task)
		return fmt.Sprintf("Task '%s' not allowed", task)
	}

	out, err := h.runner.Execute(ctx, task)
	if err != nil {
		h.logger.Error("Task failed", "task", task, "err", err)
		return fmt.Sprintf("Error performing task %s: %v", task, err)
	}
	h.logger.Info("Task performed", "task", task, "output", out)
	return fmt.Sprintf("Performed task: %s", task)
}
