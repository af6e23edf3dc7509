package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New creates a configured application logger.
// It writes to Stderr (to separate from Stdout status line/JSON-RPC).
// It standardizes common keys (e.g., "error" -> "err").
func New(level slog.Level) *slog.Logger {
	return slog.New(newTextHandler(os.Stderr, level))
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// FileOptions configures the rotating log file.
type FileOptions struct {
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Options selects the log sinks.
type Options struct {
	Level slog.Level
	// Terminal is the text sink (default os.Stderr). Quiet disables it.
	Terminal io.Writer
	Quiet    bool
	// File adds a rotating JSON log file when Path is set.
	File FileOptions
	// Journal adds the systemd journal.
	Journal bool
}

// Build creates a logger fanning out to every configured sink. The returned
// closer releases the log file; it is never nil.
func Build(opts Options) (*slog.Logger, io.Closer) {
	var handlers []slog.Handler
	var closer io.Closer = nopCloser{}

	var terminal slog.Handler
	if !opts.Quiet {
		w := opts.Terminal
		if w == nil {
			w = os.Stderr
		}
		terminal = newTextHandler(w, opts.Level)
		handlers = append(handlers, terminal)
	}

	if opts.File.Path != "" {
		file := &lumberjack.Logger{
			Filename:   opts.File.Path,
			MaxSize:    orDefault(opts.File.MaxSizeMB, 15),
			MaxBackups: orDefault(opts.File.MaxBackups, 3),
			MaxAge:     orDefault(opts.File.MaxAgeDays, 28),
			Compress:   opts.File.Compress,
		}
		handlers = append(handlers, slog.NewJSONHandler(file, &slog.HandlerOptions{
			Level:       opts.Level,
			ReplaceAttr: standardKeys,
		}))
		closer = file
	}

	if opts.Journal {
		journal, err := slogjournal.NewHandler(&slogjournal.Options{
			Level: opts.Level,
			ReplaceGroup: func(key string) string {
				return toJournalKey(key)
			},
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a = standardKeys(groups, a)
				a.Key = toJournalKey(a.Key)
				return a
			},
		})
		if err != nil {
			if terminal != nil {
				record := slog.NewRecord(time.Now(), slog.LevelWarn, "systemd journal unavailable", 0)
				record.Add("err", err)
				_ = terminal.Handle(context.Background(), record)
			}
		} else {
			handlers = append(handlers, journal)
		}
	}

	if len(handlers) == 0 {
		return NewNop(), closer
	}
	if len(handlers) == 1 {
		return slog.New(handlers[0]), closer
	}
	return slog.New(slogmulti.Fanout(handlers...)), closer
}

// ParseLevel maps "debug", "info", "warn" and "error" to slog levels.
// Unknown names give info.
func ParseLevel(name string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo
	}
	return l
}

func newTextHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: standardKeys,
	})
}

func standardKeys(groups []string, a slog.Attr) slog.Attr {
	// Standardize 'error' key to 'err'
	if a.Key == "error" {
		a.Key = "err"
	}
	return a
}

// toJournalKey converts an attribute key to a valid journal field name.
func toJournalKey(str string) string {
	str = strings.ToUpper(str)
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, str)
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
