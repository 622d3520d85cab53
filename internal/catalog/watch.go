package catalog

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the catalog file whenever it changes on disk and hands the
// result to onReload until ctx is cancelled. A reload that fails validation
// is reported with a nil catalog so the caller can surface the error without
// dropping its current catalog.
//
// The parent directory is watched rather than the file itself: editors that
// save via rename would otherwise detach the watch.
func Watch(ctx context.Context, path string, onReload func(*Catalog, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			cat, err := LoadFile(abs)
			onReload(cat, err)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			onReload(nil, err)
		}
	}
}
