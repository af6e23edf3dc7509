package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aretw0/companion/pkg/adapters/process"
	"github.com/fsnotify/fsnotify"
)

// ReloadDebounce groups the burst of events an editor save produces.
const ReloadDebounce = 250 * time.Millisecond

// WatchCatalog watches the configuration file and the external catalog file
// and delivers the effective catalog after each change. Only the latest
// catalog is kept when the consumer is busy. The channel is closed when ctx
// is done.
func WatchCatalog(ctx context.Context, cfg *Config, logger *slog.Logger) (<-chan *process.CatalogFile, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	// Directories are watched so that atomic rename-on-save is seen.
	targets := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, p := range []string{cfg.Path, cfg.CatalogFile} {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			logger.Warn("Catalog watch failed", "dir", dir, "err", err)
		}
	}

	out := make(chan *process.CatalogFile, 1)
	go func() {
		defer close(out)
		defer watcher.Close()

		var fire <-chan time.Time
		var timer *time.Timer
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !targets[filepath.Clean(event.Name)] {
					continue
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(ReloadDebounce)
				} else {
					timer.Reset(ReloadDebounce)
				}
				fire = timer.C
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Catalog watch error", "err", err)
			case <-fire:
				fire = nil
				catalog, err := reload(cfg)
				if err != nil {
					logger.Warn("Catalog reload failed", "err", err)
					continue
				}
				logger.Info("Catalog reloaded", "aliases", len(catalog.Aliases), "tasks", len(catalog.Tasks))
				publish(out, catalog)
			}
		}
	}()
	return out, nil
}

func reload(cfg *Config) (*process.CatalogFile, error) {
	if cfg.Path == "" {
		return cfg.EffectiveCatalog()
	}
	fresh, err := Load(cfg.Path)
	if err != nil {
		return nil, err
	}
	return fresh.EffectiveCatalog()
}

// publish replaces any catalog the consumer has not picked up yet.
func publish(out chan *process.CatalogFile, catalog *process.CatalogFile) {
	for {
		select {
		case out <- catalog:
			return
		default:
		}
		select {
		case <-out:
		default:
		}
	}
}
