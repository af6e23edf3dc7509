package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/companion/internal/logging"
	"github.com/aretw0/companion/pkg/domain"
	"github.com/aretw0/companion/pkg/ports"
	"github.com/google/uuid"
)

// DefaultKey names the record of the code editor.
const DefaultKey = "editor"

// DefaultPrefix starts every workspace folder name.
const DefaultPrefix = "vscode_workspace_"

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Tracker manages editor workspaces and their session records.
// It uses Reference Counting to garbage collect unused locks.
type Tracker struct {
	store ports.SessionStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	root   string
	prefix string
	now    func() time.Time
	logger *slog.Logger
}

// Option configures the Tracker.
type Option func(*Tracker)

// WithRoot sets the directory under which workspaces are created (default: home directory).
func WithRoot(dir string) Option {
	return func(t *Tracker) {
		if dir != "" {
			t.root = dir
		}
	}
}

// WithPrefix sets the workspace folder name prefix.
func WithPrefix(prefix string) Option {
	return func(t *Tracker) {
		if prefix != "" {
			t.prefix = prefix
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// WithLogger configures a logger for the Tracker.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		t.logger = logger
	}
}

// NewTracker creates a Tracker over store.
func NewTracker(store ports.SessionStore, opts ...Option) *Tracker {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	t := &Tracker{
		store:  store,
		locks:  make(map[string]*lockEntry),
		root:   home,
		prefix: DefaultPrefix,
		now:    time.Now,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Root returns the workspace root directory.
func (t *Tracker) Root() string {
	return t.root
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(key) after unlocking.
func (t *Tracker) acquire(key string) *lockEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, exists := t.locks[key]
	if !exists {
		entry = &lockEntry{}
		t.locks[key] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (t *Tracker) release(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, exists := t.locks[key]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(t.locks, key)
	}
}

// WithLock executes fn while holding the lock for key.
func (t *Tracker) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	entry := t.acquire(key)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		t.release(key)
	}()
	return fn(ctx)
}

// NewWorkspace creates a fresh workspace folder with a README.md placeholder and
// records it under key, replacing any earlier record.
func (t *Tracker) NewWorkspace(ctx context.Context, key string) (*domain.EditorSession, error) {
	var rec *domain.EditorSession
	err := t.WithLock(ctx, key, func(ctx context.Context) error {
		now := t.now()
		stamp := now.Format(domain.Stamp)

		folder, err := t.reserve(stamp)
		if err != nil {
			return err
		}

		readme := fmt.Sprintf("# New Editor Workspace\n\nCreated by companion at %s\n", stamp)
		if err := os.WriteFile(filepath.Join(folder, "README.md"), []byte(readme), 0o644); err != nil {
			return fmt.Errorf("failed to write workspace placeholder: %w", err)
		}

		rec = &domain.EditorSession{
			ID:        uuid.NewString(),
			Folder:    folder,
			CreatedAt: now,
		}
		if err := t.store.Save(ctx, key, rec); err != nil {
			return fmt.Errorf("failed to record session: %w", err)
		}
		t.logger.Info("Editor workspace created", "folder", folder, "session_id", rec.ID)
		return nil
	})
	return rec, err
}

// reserve creates a workspace directory named after stamp, adding a numeric
// suffix when the name is already taken.
func (t *Tracker) reserve(stamp string) (string, error) {
	if err := os.MkdirAll(t.root, 0o755); err != nil {
		return "", fmt.Errorf("failed to create workspace root: %w", err)
	}
	base := filepath.Join(t.root, t.prefix+stamp)
	for i := 1; i < 1000; i++ {
		dir := base
		if i > 1 {
			dir = fmt.Sprintf("%s_%d", base, i)
		}
		err := os.Mkdir(dir, 0o755)
		if err == nil {
			return dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("failed to create workspace: %w", err)
		}
	}
	return "", fmt.Errorf("failed to create workspace: too many folders named %s", base)
}

// Current returns the record under key when its folder still exists.
// Otherwise it returns domain.ErrSessionNotFound.
func (t *Tracker) Current(ctx context.Context, key string) (*domain.EditorSession, error) {
	var rec *domain.EditorSession
	err := t.WithLock(ctx, key, func(ctx context.Context) error {
		var err error
		rec, err = t.store.Load(ctx, key)
		if err != nil {
			return err
		}
		info, statErr := os.Stat(rec.Folder)
		if statErr != nil || !info.IsDir() {
			t.logger.Debug("Recorded workspace is gone", "folder", rec.Folder)
			rec = nil
			return domain.ErrSessionNotFound
		}
		return nil
	})
	return rec, err
}

// Forget removes the record under key. The folder is left on disk.
func (t *Tracker) Forget(ctx context.Context, key string) error {
	return t.WithLock(ctx, key, func(ctx context.Context) error {
		return t.store.Delete(ctx, key)
	})
}
