package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/aretw0/companion/internal/logging"
)

// ErrTaskNotAllowed is returned for task names outside the allow-list.
var ErrTaskNotAllowed = errors.New("task not allowed")

// DefaultTaskTimeout bounds a task that does not set its own timeout.
const DefaultTaskTimeout = 60 * time.Second

// Runner executes allow-listed system tasks through a shell.
// It follows a Strict Registry pattern for security (Allow-Listing): only the
// fixed command strings of the catalog ever reach the shell.
type Runner struct {
	catalog *Catalog
	shell   string
	timeout time.Duration
	baseDir string
	logger  *slog.Logger
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithShell sets the shell used to run task commands (default "sh").
func WithShell(shell string) RunnerOption {
	return func(r *Runner) {
		if shell != "" {
			r.shell = shell
		}
	}
}

// WithTimeout sets the default task timeout.
func WithTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithBaseDir sets the working directory for executed tasks.
func WithBaseDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.baseDir = dir
	}
}

// WithRunnerLogger configures the structured logger.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a task Runner over catalog.
func NewRunner(catalog *Catalog, opts ...RunnerOption) *Runner {
	r := &Runner{
		catalog: catalog,
		shell:   "sh",
		timeout: DefaultTaskTimeout,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Allowed reports whether name is in the allow-list.
func (r *Runner) Allowed(name string) bool {
	_, ok := r.catalog.Task(name)
	return ok
}

// Execute runs the named task synchronously and returns its trimmed stdout.
// Unknown names return ErrTaskNotAllowed without running anything.
func (r *Runner) Execute(ctx context.Context, name string) (string, error) {
	task, ok := r.catalog.Task(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrTaskNotAllowed, name)
	}

	timeout := r.timeout
	if task.Timeout > 0 {
		timeout = task.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.shell, "-c", task.Command)
	cmd.Dir = r.baseDir
	configureGraceful(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("Running task", "task", task.Name, "command", task.Command)
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w (%v)", ctxErr, err)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("execution failed: %w. Stderr: %s", err, msg)
		}
		return "", fmt.Errorf("execution failed: %w", err)
	}

	return strings.TrimSpace(stdout.String()), nil
}
