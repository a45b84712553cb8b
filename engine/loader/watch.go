package loader

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the description at path whenever it is written or replaced and passes the result to fn.
// Decoding errors are passed to fn as well; the cached description is kept in that case.
// The parent directory is watched so that editors which save by renaming are picked up.
// Watch blocks until ctx is done.
//
// Parameters:
//   - ctx: stops the watch when done
//   - l: the loader whose cache is refreshed
//   - path: the description file
//   - fn: called on the watching goroutine after every reload attempt
//
// Returns:
//   - error: error if the watcher cannot be created, nil once ctx is done
func Watch(ctx context.Context, l Loader, path string, fn func(*Description, error)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("loader: watch %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("loader: watch %s: %w", path, err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("loader: watch %s: %w", path, err)
	}
	log.Printf("[Loader] watching %s", path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			d, err := l.Reload(path)
			fn(d, err)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[Loader] watcher error for %s: %v", path, err)
		}
	}
}
