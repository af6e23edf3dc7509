package process

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/aretw0/companion/internal/logging"
	"github.com/aretw0/companion/pkg/ports"
)

// Spawner implements ports.Spawner with os/exec.
type Spawner struct {
	logger *slog.Logger
}

// NewSpawner creates a Spawner. A nil logger discards output.
func NewSpawner(logger *slog.Logger) *Spawner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Spawner{logger: logger}
}

// Start launches cmd in its own process group with stdio detached and reaps
// it in the background. Cancelling ctx after Start returns does not stop it.
func (s *Spawner) Start(ctx context.Context, cmd ports.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c := exec.Command(cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	detach(c)

	if err := c.Start(); err != nil {
		return err
	}

	pid := c.Process.Pid
	s.logger.Debug("Process started", "name", cmd.Name, "pid", pid)
	go func() {
		err := c.Wait()
		s.logger.Debug("Process exited", "name", cmd.Name, "pid", pid, "err", err)
	}()
	return nil
}

// Run launches cmd and waits for it to exit.
func (s *Spawner) Run(ctx context.Context, cmd ports.Command) error {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	configureGraceful(c)

	var stderr bytes.Buffer
	c.Stderr = &stderr
	if err := c.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

// LookPath resolves file against PATH.
func (s *Spawner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}
