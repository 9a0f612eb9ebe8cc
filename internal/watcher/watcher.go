// Package watcher triggers re-ingestion when watched documents change.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/memrag-cli/internal/logger"
)

// DefaultDebounce batches the burst of events editors emit on save.
const DefaultDebounce = 500 * time.Millisecond

// ChangeFunc is invoked with the path of a created or modified document
// once its event burst has settled.
type ChangeFunc func(ctx context.Context, path string)

// Watcher observes a file or directory tree and calls back on document
// changes. Hidden files and unsupported extensions are ignored.
type Watcher struct {
	fs        *fsnotify.Watcher
	root      string
	supported func(path string) bool
	onChange  ChangeFunc
	debounce  time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// New creates a watcher rooted at path. supported filters paths before the
// callback fires; nil accepts everything.
func New(root string, supported func(path string) bool, onChange ChangeFunc) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{
		fs:        fs,
		root:      root,
		supported: supported,
		onChange:  onChange,
		debounce:  DefaultDebounce,
		timers:    make(map[string]*time.Timer),
	}

	if err := w.addRecursive(root); err != nil {
		fs.Close()
		return nil, err
	}
	return w, nil
}

// addRecursive registers the path and, for directories, every subdirectory.
func (w *Watcher) addRecursive(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat watch path: %w", err)
	}

	if !info.IsDir() {
		// Watching the parent catches editors that replace the file.
		if err := w.fs.Add(filepath.Dir(path)); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	}

	return filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if isHidden(p) && p != path {
			return filepath.SkipDir
		}
		if err := w.fs.Add(p); err != nil {
			return fmt.Errorf("watching %s: %w", p, err)
		}
		return nil
	})
}

// Run processes events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	logger.Info("Watching %s for changes", w.root)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// handleEvent filters one filesystem event and schedules the callback.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return
	}
	if isHidden(event.Name) {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return
	}
	if info.IsDir() {
		// New subdirectories join the watch set.
		if event.Op.Has(fsnotify.Create) {
			if err := w.fs.Add(event.Name); err != nil {
				logger.Warn("Failed to watch new directory %s: %v", event.Name, err)
			}
		}
		return
	}

	if w.supported != nil && !w.supported(event.Name) {
		return
	}

	w.schedule(ctx, event.Name)
}

// schedule arms (or re-arms) the debounce timer for a path.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.timers[path]; ok {
		timer.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		logger.Debug("Change detected: %s", path)
		w.onChange(ctx, path)
	})
}

// Close stops the watcher and cancels pending callbacks.
func (w *Watcher) Close() error {
	w.mu.Lock()
	for path, timer := range w.timers {
		timer.Stop()
		delete(w.timers, path)
	}
	w.mu.Unlock()

	return w.fs.Close()
}

// isHidden reports whether any element of the path starts with a dot.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "." || part == ".." || part == "" {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
