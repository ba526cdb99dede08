package indexer

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/felixgeelhaar/fsagent/domain/index"
	"github.com/felixgeelhaar/fsagent/domain/policy"
	"github.com/felixgeelhaar/fsagent/infrastructure/logging"
)

// Watcher keeps the index store loosely in sync with filesystem changes.
// It is best-effort maintenance: missed events are reconciled by the next
// explicit rebuild, and no correctness property depends on it.
type Watcher struct {
	store     index.Store
	protected *policy.ProtectedPathSet
	watcher   *fsnotify.Watcher

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewWatcher creates a watcher updating store.
func NewWatcher(store index.Store, protected *policy.ProtectedPathSet) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		store:     store,
		protected: protected,
		watcher:   w,
	}, nil
}

// Watch registers root and its current subdirectories. Directories
// created later are added as their events arrive.
func (w *Watcher) Watch(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.protected.Contains(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			logging.Warn().Add(logging.Path(path)).Add(logging.Err(err)).Msg("watch add failed")
		}
		return nil
	})
}

// Start consumes events until the context is cancelled or Close is
// called.
func (w *Watcher) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	w.mu.Lock()
	w.cancel = cancel
	w.done = done
	w.mu.Unlock()

	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				w.handle(ctx, event)
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				logging.Warn().Add(logging.Err(err)).Msg("watcher error")
			}
		}
	}()
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	path := filepath.Clean(event.Name)
	if w.protected.Contains(path) {
		return
	}

	switch {
	case event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename):
		if err := w.store.Remove(ctx, path); err != nil {
			logging.Warn().Add(logging.Path(path)).Add(logging.Err(err)).Msg("index remove failed")
		}

	case event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write):
		info, err := os.Stat(path)
		if err != nil {
			return
		}
		if info.IsDir() && event.Op.Has(fsnotify.Create) {
			_ = w.watcher.Add(path)
		}
		if err := w.store.Upsert(ctx, EntryFromInfo(path, info)); err != nil {
			logging.Warn().Add(logging.Path(path)).Add(logging.Err(err)).Msg("index upsert failed")
		}
	}
}

// Close stops event consumption and releases the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.mu.Unlock()

	err := w.watcher.Close()
	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
	return err
}
