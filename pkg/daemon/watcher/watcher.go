// Package watcher tracks reclaimable space in cleanup target directories.
//
// It watches the configured targets with fsnotify and re-measures their
// size after changes, so the daemon can report how much a cleanup run
// would free without walking the directories on every status request.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jamesainslie/tonic/pkg/toolkit/cleaner"
	"github.com/jamesainslie/tonic/pkg/toolkit/logging"
)

// rescanDelay batches filesystem events: a changed target is re-measured
// at most once per delay window.
const rescanDelay = 2 * time.Second

// Watcher watches cleanup targets and maintains per-target size estimates.
type Watcher struct {
	watcher *fsnotify.Watcher

	mu      sync.RWMutex
	sizes   map[string]int64
	dirty   map[string]bool
	targets []string
	closed  bool
}

// New creates a Watcher.
func New() (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher: fsw,
		sizes:   make(map[string]int64),
		dirty:   make(map[string]bool),
	}, nil
}

// Watch starts tracking a target directory. The initial size is measured
// immediately.
func (w *Watcher) Watch(target string) error {
	abs, err := filepath.Abs(target)
	if err != nil {
		return err
	}

	info, err := os.Lstat(abs)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return nil // Only watch directories
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	if _, ok := w.sizes[abs]; ok {
		w.mu.Unlock()
		return nil // Already watching
	}
	w.sizes[abs] = 0
	w.targets = append(w.targets, abs)
	w.mu.Unlock()

	if err := w.watcher.Add(abs); err != nil {
		logging.Get("watcher").Warn("failed to add watch", "path", abs, "error", err)
	}

	size := cleaner.DirSize(abs)
	w.mu.Lock()
	w.sizes[abs] = size
	w.mu.Unlock()

	return nil
}

// Unwatch stops tracking a target.
func (w *Watcher) Unwatch(target string) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}

	if _, ok := w.sizes[abs]; ok {
		_ = w.watcher.Remove(abs)
		delete(w.sizes, abs)
		delete(w.dirty, abs)
		for i, t := range w.targets {
			if t == abs {
				w.targets = append(w.targets[:i], w.targets[i+1:]...)
				break
			}
		}
	}
}

// Run processes filesystem events until the context is cancelled.
// Changed targets are re-measured on a short delay so event bursts
// trigger a single walk.
func (w *Watcher) Run(ctx context.Context) {
	log := logging.Get("watcher")
	ticker := time.NewTicker(rescanDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.markDirty(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error("watcher error", "error", err)

		case <-ticker.C:
			w.rescanDirty()
		}
	}
}

// markDirty flags the target containing path for re-measurement.
func (w *Watcher) markDirty(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for target := range w.sizes {
		if path == target || isSubPath(path, target) {
			w.dirty[target] = true
		}
	}
}

// rescanDirty re-measures all flagged targets.
func (w *Watcher) rescanDirty() {
	w.mu.Lock()
	var pending []string
	for target := range w.dirty {
		pending = append(pending, target)
	}
	w.dirty = make(map[string]bool)
	w.mu.Unlock()

	for _, target := range pending {
		size := cleaner.DirSize(target)
		w.mu.Lock()
		if _, ok := w.sizes[target]; ok {
			w.sizes[target] = size
		}
		w.mu.Unlock()
	}
}

// Reclaimable returns the current per-target size estimates.
func (w *Watcher) Reclaimable() map[string]int64 {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make(map[string]int64, len(w.sizes))
	for target, size := range w.sizes {
		out[target] = size
	}
	return out
}

// TotalReclaimable returns the sum of all target size estimates.
func (w *Watcher) TotalReclaimable() int64 {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var total int64
	for _, size := range w.sizes {
		total += size
	}
	return total
}

// Close closes the watcher and releases resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}

	w.closed = true
	w.sizes = make(map[string]int64)
	w.dirty = make(map[string]bool)
	return w.watcher.Close()
}

// isSubPath checks if path is under parent directory.
func isSubPath(path, parent string) bool {
	return len(path) > len(parent) && path[:len(parent)+1] == parent+string(filepath.Separator)
}
