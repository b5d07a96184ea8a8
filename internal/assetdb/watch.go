// pattern: Imperative Shell

package assetdb

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"assettree/internal/logging"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reports changes to a fixed set of files.
// It watches the parent directories so files replaced by rename are still seen.
type Watcher struct {
	files    map[string]bool
	debounce time.Duration
	logger   *logging.ScopedLogger
	watcher  *fsnotify.Watcher
}

// NewWatcher registers the directories of paths with fsnotify.
func NewWatcher(paths []string, debounce time.Duration, logger *logging.ScopedLogger) (*Watcher, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		files:    make(map[string]bool, len(paths)),
		debounce: debounce,
		logger:   logger,
		watcher:  fw,
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}
	return w, nil
}

// Start delivers debounced change batches to onChange until ctx is cancelled.
// onChange runs on the watcher goroutine and receives the changed files sorted.
func (w *Watcher) Start(ctx context.Context, onChange func(changed []string)) error {
	defer func() { _ = w.watcher.Close() }()

	pending := make(map[string]bool)
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			name := filepath.Clean(event.Name)
			if !w.files[name] || event.Op == fsnotify.Chmod {
				continue
			}
			pending[name] = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-fire:
			timer, fire = nil, nil
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			clear(pending)
			slices.Sort(changed)
			w.logger.Debug("watched files changed", "files", changed)
			onChange(changed)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "error", err)
		}
	}
}

// Watch runs a Watcher over paths with the default debounce until ctx is cancelled.
func Watch(ctx context.Context, paths []string, logger *logging.ScopedLogger, onChange func(changed []string)) error {
	w, err := NewWatcher(paths, DefaultDebounce, logger)
	if err != nil {
		return err
	}
	return w.Start(ctx, onChange)
}
