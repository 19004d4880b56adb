package server

import (
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloader watches the output directory and pushes reload events to
// connected SSE clients.
type reloader struct {
	watcher    *fsnotify.Watcher
	reloadChan chan struct{}
	clientMu   sync.Mutex
	clients    map[chan struct{}]struct{}
	wg         sync.WaitGroup
}

func newReloader() *reloader {
	return &reloader{
		reloadChan: make(chan struct{}, 1),
		clients:    make(map[chan struct{}]struct{}),
	}
}

func (rl *reloader) startWatcher(dir string, debounce time.Duration, logger *slog.Logger) {
	var err error
	rl.watcher, err = fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("Failed to create file watcher", "error", err)
		return
	}

	if err := rl.watcher.Add(dir); err != nil {
		logger.Warn("Failed to watch directory", "dir", dir, "error", err)
		return
	}

	rl.wg.Add(1)
	go func() {
		defer rl.wg.Done()

		var debounceTimer *time.Timer
		for {
			select {
			case event, ok := <-rl.watcher.Events:
				if !ok {
					return
				}
				if event.Op&fsnotify.Chmod != 0 {
					continue
				}

				// Collapse rapid event bursts into one reload.
				if debounceTimer != nil {
					debounceTimer.Reset(debounce)
				} else {
					debounceTimer = time.AfterFunc(debounce, func() {
						select {
						case rl.reloadChan <- struct{}{}:
						default:
						}
					})
				}

			case err, ok := <-rl.watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Watcher error", "error", err)
			}
		}
	}()
}

func (rl *reloader) stop() {
	if rl.watcher != nil {
		_ = rl.watcher.Close()
	}
	rl.wg.Wait()
}

// broadcast fans a reload signal out to every connected client.
func (rl *reloader) broadcast() {
	for range rl.reloadChan {
		rl.clientMu.Lock()
		for clientChan := range rl.clients {
			select {
			case clientChan <- struct{}{}:
			default:
			}
		}
		rl.clientMu.Unlock()
	}
}
