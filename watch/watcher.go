// Package watch re-runs the drift report when watched inputs change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/c360studio/specdrift/config"
	"github.com/c360studio/specdrift/report"
)

// DefaultDebounce is how long to wait for more changes before re-running.
const DefaultDebounce = 500 * time.Millisecond

// Watcher re-runs the report when the specification document, a companion
// document, or the mapping artifact changes. Runs are serialized and
// debounced; a run failure is logged and watching continues.
type Watcher struct {
	cfg      *config.Config
	logger   *slog.Logger
	debounce time.Duration
}

// New creates a watcher for the given configuration.
func New(cfg *config.Config, debounce time.Duration, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{cfg: cfg, logger: logger, debounce: debounce}
}

// inputPaths returns the cleaned watched file paths.
func (w *Watcher) inputPaths() map[string]bool {
	paths := map[string]bool{
		filepath.Clean(w.cfg.Spec.Path): true,
	}
	for _, p := range w.cfg.Docs.Paths {
		paths[filepath.Clean(p)] = true
	}
	if p := w.cfg.Annotations.ArtifactPath; p != "" {
		paths[filepath.Clean(p)] = true
	}
	return paths
}

// watchDirs returns the deduplicated parent directories of the watched
// files. Directories are watched, not files, so editor rename-and-replace
// writes are still observed.
func (w *Watcher) watchDirs() []string {
	seen := make(map[string]bool)
	var dirs []string
	for path := range w.inputPaths() {
		dir := filepath.Dir(path)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// Run performs one initial report pass and then blocks, re-running on
// debounced input changes, until the context is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	runner := report.NewRunner(w.cfg, w.logger)
	if _, err := runner.Run(); err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	for _, dir := range w.watchDirs() {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	inputs := w.inputPaths()
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !inputs[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.logger.Debug("input changed", slog.String("path", event.Name), slog.String("op", event.Op.String()))
			if pending {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
			}
			timer.Reset(w.debounce)
			pending = true

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", slog.String("error", err.Error()))

		case <-timer.C:
			pending = false
			if _, err := runner.Run(); err != nil {
				w.logger.Error("report run failed", slog.String("error", err.Error()))
			}
		}
	}
}
