// SPDX-License-Identifier: MIT

// Package watch triggers rescans when the publication tree changes on disk.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/campuslib/mvol-validate/internal/log"
	"github.com/campuslib/mvol-validate/internal/metrics"
)

// Watcher observes a directory tree and invokes a trigger after events have
// settled for a debounce interval. fsnotify does not watch recursively, so
// every directory is registered individually and newly created directories
// are added as they appear.
type Watcher struct {
	root     string
	debounce time.Duration
	trigger  func()
}

// New creates a watcher over root. trigger is called from Run's goroutine
// after each settled burst of filesystem events.
func New(root string, debounce time.Duration, trigger func()) *Watcher {
	return &Watcher{root: root, debounce: debounce, trigger: trigger}
}

// Run watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	logger := log.WithComponentFromContext(ctx, "watch")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify.NewWatcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	if err := w.addTree(watcher); err != nil {
		return err
	}
	logger.Info().Str("event", "watch.start").Str("root", w.root).Msg("watching publication tree")

	// The timer starts stopped; events arm it, and settling fires the
	// trigger.
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
			logger.Debug().Str("event", "watch.settled").Msg("events settled, triggering rescan")
			w.trigger()
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher channel closed")
			}
			if event.Op&fsnotify.Create != 0 {
				// Best effort: the path may be gone again already.
				if err := w.addIfDir(watcher, event.Name); err != nil {
					logger.Debug().Err(err).Str("path", event.Name).Msg("add created directory")
				}
			}
			metrics.IncWatchEvent()
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			logger.Warn().Err(err).Msg("fsnotify watcher error")
		}
	}
}

func (w *Watcher) addTree(watcher *fsnotify.Watcher) error {
	return filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch directory %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) addIfDir(watcher *fsnotify.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return nil
	}
	return watcher.Add(path)
}
