package filesystem

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/V4T54L/logviewer/internal/domain"
)

// Watcher invalidates cached snapshots when one of their source files is
// created, written, removed or renamed. Directories are watched rather than
// files so a file recreated by rotation is noticed.
type Watcher struct {
	fsw    *fsnotify.Watcher
	cache  domain.SnapshotCache
	logger *slog.Logger

	mu   sync.Mutex
	dirs map[string]struct{}
}

// NewWatcher creates a watcher feeding invalidations into cache.
func NewWatcher(cache domain.SnapshotCache, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fsw:    fsw,
		cache:  cache,
		logger: logger.With("component", "file_watcher"),
		dirs:   make(map[string]struct{}),
	}, nil
}

// Watch starts watching the directories holding paths.
func (w *Watcher) Watch(paths ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, p := range paths {
		dir := filepath.Dir(p)
		if _, ok := w.dirs[dir]; ok {
			continue
		}
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
		w.dirs[dir] = struct{}{}
		w.logger.Debug("watching directory", "dir", dir)
	}
	return nil
}

// Run consumes file events until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Create) {
		return
	}
	if n := w.cache.InvalidateFile(event.Name); n > 0 {
		w.logger.Info("invalidated snapshots after file change", "file", event.Name, "op", event.Op.String(), "count", n)
	}
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
