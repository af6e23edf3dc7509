package actions

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/aretw0/companion/internal/logging"
	"github.com/aretw0/companion/pkg/ports"
	"github.com/aretw0/companion/pkg/session"
)

// AliasResolver maps a friendly application name to its launch command.
type AliasResolver interface {
	Alias(name string) (string, bool)
}

// Launcher opens desktop applications.
type Launcher struct {
	aliases AliasResolver
	spawner ports.Spawner
	tracker *session.Tracker
	editor  Editor
	logger  *slog.Logger
}

// LauncherOption configures a Launcher.
type LauncherOption func(*Launcher)

// WithEditor configures the code editor.
func WithEditor(e Editor) LauncherOption {
	return func(l *Launcher) {
		l.editor = e.withDefaults()
	}
}

// WithLauncherLogger configures the structured logger.
func WithLauncherLogger(logger *slog.Logger) LauncherOption {
	return func(l *Launcher) {
		l.logger = logger
	}
}

// NewLauncher creates a Launcher.
func NewLauncher(aliases AliasResolver, spawner ports.Spawner, tracker *session.Tracker, opts ...LauncherOption) *Launcher {
	l := &Launcher{
		aliases: aliases,
		spawner: spawner,
		tracker: tracker,
		editor:  DefaultEditor(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Editor returns the configured code editor.
func (l *Launcher) Editor() Editor {
	return l.editor
}

// Open launches app. When app names the editor and reuse is false, a fresh
// workspace is created and the editor opens it in a new window.
func (l *Launcher) Open(ctx context.Context, app string, reuse bool) string {
	name := strings.ToLower(strings.TrimSpace(app))
	isEditor := l.editor.Matches(name)

	command, ok := l.aliases.Alias(name)
	if !ok {
		if isEditor {
			command = l.editor.Command
		} else {
			command = sanitizeCommand(name)
		}
	}

	fields := strings.Fields(command)
	if len(fields) == 0 || !l.executable(fields[0]) {
		l.logger.Warn("Application not found", "app", name, "command", command)
		return fmt.Sprintf("Application '%s' not found or not executable", name)
	}

	cmd := ports.Command{Name: fields[0], Args: fields[1:]}

	if isEditor && !reuse {
		rec, err := l.tracker.NewWorkspace(ctx, l.editor.Key)
		if err != nil {
			l.logger.Error("Failed to prepare editor workspace", "err", err)
			return fmt.Sprintf("Error opening %s: %v", name, err)
		}
		cmd.Args = append(cmd.Args, "--new-window", rec.Folder)
		if err := l.spawner.Start(ctx, cmd); err != nil {
			l.logger.Error("Failed to open application", "app", name, "err", err)
			return fmt.Sprintf("Error opening %s: %v", name, err)
		}
		l.logger.Info("Opened editor with workspace", "folder", rec.Folder)
		return fmt.Sprintf("Opened %s with new workspace", name)
	}

	if isEditor {
		cmd.Args = append(cmd.Args, "--reuse-window")
	}

	if err := l.spawner.Start(ctx, cmd); err != nil {
		l.logger.Error("Failed to open application", "app", name, "err", err)
		return fmt.Sprintf("Error opening %s: %v", name, err)
	}
	l.logger.Info("Opened application", "app", name, "command", cmd.Name)
	return fmt.Sprintf("Opened %s", name)
}

// executable is the safety gate: the program must be on PATH or be an
// existing absolute path with an executable bit.
func (l *Launcher) executable(program string) bool {
	if _, err := l.spawner.LookPath(program); err == nil {
		return true
	}
	if !filepath.IsAbs(program) {
		return false
	}
	info, err := os.Stat(program)
	return err == nil && info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0
}

// sanitizeCommand keeps letters, digits, space, hyphen, underscore and dot.
func sanitizeCommand(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune(" -_.", r) {
			return r
		}
		return -1
	}, name)
}

// IsEditor reports whether app names the configured code editor.
func (l *Launcher) IsEditor(app string) bool {
	return l.editor.Matches(app)
}
