package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/companion"
	"github.com/aretw0/companion/internal/config"
	"github.com/aretw0/companion/internal/logging"
	"github.com/aretw0/companion/internal/tracing"
	"github.com/aretw0/companion/pkg/actions"
	"github.com/aretw0/companion/pkg/adapters/gemini"
	"github.com/aretw0/companion/pkg/adapters/memory"
	"github.com/aretw0/companion/pkg/adapters/ollama"
	"github.com/aretw0/companion/pkg/adapters/process"
	"github.com/aretw0/companion/pkg/domain"
	"github.com/aretw0/companion/pkg/executor"
	"github.com/aretw0/companion/pkg/interpreter"
	"github.com/aretw0/companion/pkg/observability"
	"github.com/aretw0/companion/pkg/ports"
	"github.com/aretw0/companion/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
)

// BuildOptions adjusts the assembly for a command or a test.
type BuildOptions struct {
	// Generator replaces the configured model provider.
	Generator ports.TextGenerator
	// Spawner replaces the exec-backed process spawner.
	Spawner ports.Spawner
	// Terminal receives the text log sink (default os.Stderr).
	Terminal io.Writer
	Quiet    bool
	Debug    bool
}

// App is the assembled assistant plus the parts the commands drive directly.
type App struct {
	Config      *config.Config
	Logger      *slog.Logger
	Assistant   *companion.Assistant
	Interpreter *interpreter.Interpreter
	Catalog     *process.Catalog
	Spawner     ports.Spawner
	Tracker     *session.Tracker
	Registry    *prometheus.Registry

	closers []func(context.Context) error
}

// Build wires configuration into a ready assistant.
func Build(ctx context.Context, cfg *config.Config, opts BuildOptions) (*App, error) {
	app := &App{Config: cfg}

	level := logging.ParseLevel(cfg.Log.Level)
	if opts.Debug {
		level = slog.LevelDebug
	}
	logger, logCloser := logging.Build(logging.Options{
		Level:    level,
		Terminal: opts.Terminal,
		Quiet:    opts.Quiet,
		File:     cfg.Log.File,
		Journal:  cfg.Log.Journal,
	})
	app.Logger = logger
	app.closers = append(app.closers, func(context.Context) error { return logCloser.Close() })

	if err := app.setupTracing(); err != nil {
		app.Close(ctx)
		return nil, err
	}

	gen := opts.Generator
	if gen == nil {
		var err error
		gen, err = newGenerator(ctx, cfg, logger)
		if err != nil {
			app.Close(ctx)
			return nil, err
		}
	}

	catalogFile, err := cfg.EffectiveCatalog()
	if err != nil {
		app.Close(ctx)
		return nil, err
	}
	app.Catalog = process.NewCatalog(catalogFile)

	app.Spawner = opts.Spawner
	if app.Spawner == nil {
		app.Spawner = process.NewSpawner(logger)
	}

	app.Tracker = session.NewTracker(memory.NewStore(),
		session.WithRoot(cfg.Editor.WorkspaceRoot),
		session.WithPrefix(cfg.Editor.WorkspacePrefix),
		session.WithLogger(logger),
	)
	logger.Debug("Editor workspaces", "root", app.Tracker.Root())

	editor := actions.Editor{Command: cfg.Editor.Command, Names: cfg.Editor.Names}
	launcher := actions.NewLauncher(app.Catalog, app.Spawner, app.Tracker,
		actions.WithEditor(editor),
		actions.WithLauncherLogger(logger),
	)
	runner := process.NewRunner(app.Catalog,
		process.WithShell(cfg.Runner.Shell),
		process.WithTimeout(cfg.Runner.Timeout),
		process.WithBaseDir(cfg.Runner.Dir),
		process.WithRunnerLogger(logger),
	)
	tasks := actions.NewTasks(runner, logger)
	files := actions.NewFiles(gen, app.Spawner, app.Tracker,
		actions.WithFilesEditor(editor),
		actions.WithOutputDir(cfg.OutputDir),
		actions.WithOpener(cfg.Editor.Opener),
		actions.WithContentPrompt(domain.ContentPython, cfg.Prompts.Python),
		actions.WithContentPrompt(domain.ContentWebsite, cfg.Prompts.Website),
		actions.WithFilesLogger(logger),
	)

	app.Registry = prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(app.Registry)
	if err != nil {
		app.Close(ctx)
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	hooks := metrics.Hooks().Merge(observability.LogHooks(logger))

	exec := executor.New(launcher, tasks, files,
		executor.WithLogger(logger),
		executor.WithLifecycleHooks(hooks),
	)
	app.Interpreter = interpreter.New(gen,
		interpreter.WithPrompt(cfg.Prompts.Command),
		interpreter.WithLogger(logger),
	)
	app.Assistant = companion.New(app.Interpreter, exec,
		companion.WithReadiness(companion.FixedDelay(cfg.Editor.ReadyDelay)),
		companion.WithEditorNames(launcher.Editor().Names...),
		companion.WithLifecycleHooks(hooks),
		companion.WithLogger(logger),
	)
	return app, nil
}

func (a *App) setupTracing() error {
	if !a.Config.Tracing.Enabled {
		return nil
	}
	var w io.Writer = os.Stderr
	if path := a.Config.Tracing.File; path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open trace file: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return f.Close() })
		w = f
	}
	shutdown, err := tracing.Setup(w, strings.TrimSpace(companion.Version), true)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	a.closers = append(a.closers, shutdown)
	return nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// newGenerator selects the model provider. A missing Gemini key does not
// fail startup: every request then reports the service as unavailable.
func newGenerator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.TextGenerator, error) {
	switch cfg.Provider {
	case config.ProviderOllama:
		opts := []ollama.Option{ollama.WithModel(cfg.Model), ollama.WithLogger(logger)}
		if cfg.Temperature != nil {
			opts = append(opts, ollama.WithTemperature(*cfg.Temperature))
		}
		return ollama.New(cfg.Host, opts...)
	default:
		key := cfg.ResolveAPIKey()
		if gemini.IsPlaceholder(key) {
			logger.Warn("Gemini API key is not set; model requests will fail", "env", cfg.APIKeyEnv)
			return unavailable(cfg.APIKeyEnv), nil
		}
		opts := []gemini.Option{gemini.WithModel(cfg.Model), gemini.WithLogger(logger)}
		if cfg.Temperature != nil {
			opts = append(opts, gemini.WithTemperature(float32(*cfg.Temperature)))
		}
		return gemini.New(ctx, key, opts...)
	}
}

func unavailable(env string) ports.TextGenerator {
	return ports.GeneratorFunc(func(context.Context, string) (string, error) {
		return "", fmt.Errorf("%w: set %s", domain.ErrServiceUnavailable, env)
	})
}
