package driven

import "context"

// IndexWatcher follows persisted index artifacts and triggers reloads when
// another process rewrites them.
type IndexWatcher interface {
	// Run blocks until ctx is cancelled, calling the reload function
	// once a burst of changes settles.
	Run(ctx context.Context) error

	// Close releases the underlying watch.
	Close() error
}

// WatcherFactory opens an IndexWatcher over dir that calls reload on change.
type WatcherFactory func(dir string, reload func(context.Context)) (IndexWatcher, error)
