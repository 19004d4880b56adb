// Package watch triggers rebuilds when source files change.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event is a wrapper around fsnotify.Event
type Event struct {
	Name string
	Op   fsnotify.Op
}

// Watcher handles filesystem events and triggers builds
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	dirs     []string
	debounce time.Duration
	onEvent  func(Event)
}

// New creates a new watcher for the specified directories
func New(dirs []string, debounce time.Duration, logger *slog.Logger, onEvent func(Event)) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:  w,
		logger:   logger,
		dirs:     dirs,
		debounce: debounce,
		onEvent:  onEvent,
	}, nil
}

// Start begins watching for events and blocks until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) {
	defer func() { _ = w.watcher.Close() }()

	for _, dir := range w.dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				// Skip hidden directories like .git and the cache
				if filepath.Base(path)[0] == '.' && path != "." {
					return filepath.SkipDir
				}
				return w.watcher.Add(path)
			}
			// A watched entry may be a single file, like site.yaml.
			if path == dir {
				return w.watcher.Add(path)
			}
			return nil
		})
		if err != nil {
			w.logger.Warn("Error walking watch directory", "dir", dir, "error", err)
		}
	}

	w.logger.Info("Watch mode active. Waiting for changes...")

	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Chmod == fsnotify.Chmod {
				continue
			}

			// New directories need to be registered too.
			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.watcher.Add(event.Name)
				}
			}

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				w.onEvent(Event{Name: event.Name, Op: event.Op})
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Watcher error", "error", err)
		}
	}
}
