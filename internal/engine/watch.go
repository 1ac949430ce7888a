package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/leaplook/internal/loader"
)

// defaultWatchDebounce coalesces the burst of writes dbt makes to its artifacts.
const defaultWatchDebounce = 300 * time.Millisecond

// Watch regenerates whenever manifest.json or catalog.json changes in the
// target directory, calling fn with each run's outcome. Runs happen one at a
// time on the calling goroutine; changes made during a run trigger one more
// run after it. It blocks until ctx is cancelled.
func (e *Engine) Watch(ctx context.Context, fn func(*Result, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(e.cfg.TargetDir); err != nil {
		return fmt.Errorf("failed to watch target dir: %w", err)
	}
	e.logger.Info("watching for artifact changes", "dir", e.cfg.TargetDir)

	// Debounce timer; it only signals regen so runs stay on this goroutine
	regen := make(chan string, 1)
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !isArtifact(event.Name) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			name := event.Name
			debounceTimer = time.AfterFunc(e.cfg.WatchDebounce, func() {
				select {
				case regen <- name:
				default:
				}
			})

		case name := <-regen:
			if ctx.Err() != nil {
				return nil
			}
			e.logger.Debug("artifact changed, regenerating", "file", name)
			fn(e.Generate(ctx))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.logger.Error("watcher error", "error", err)
		}
	}
}

func isArtifact(path string) bool {
	switch filepath.Base(path) {
	case loader.ManifestFile, loader.CatalogFile:
		return true
	}
	return false
}
