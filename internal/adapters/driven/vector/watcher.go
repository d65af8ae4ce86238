package vector

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/clausefinder/internal/core/ports/driven"
	"github.com/custodia-labs/clausefinder/internal/logger"
)

var _ driven.IndexWatcher = (*Watcher)(nil)

// DefaultDebounce coalesces the burst of events one persist produces.
const DefaultDebounce = 500 * time.Millisecond

// Watcher calls a reload function when index artifacts in a directory change.
type Watcher struct {
	dir      string
	debounce time.Duration
	reload   func(context.Context)
	fsw      *fsnotify.Watcher
}

// NewWatcher watches dir, creating it if needed.
func NewWatcher(dir string, debounce time.Duration, reload func(context.Context)) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create index dir %s: %w", dir, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &Watcher{dir: dir, debounce: debounce, reload: reload, fsw: fsw}, nil
}

// Run blocks until ctx is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !isArtifactEvent(event) {
				continue
			}
			logger.Debug("Index artifact changed: %s (%s)", filepath.Base(event.Name), event.Op)
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Index watcher error: %v", err)

		case <-timer.C:
			w.reload(ctx)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func isArtifactEvent(event fsnotify.Event) bool {
	name := filepath.Base(event.Name)
	if name != VectorsFile && name != FlatFile {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Rename)
}
