package app

import (
	"context"
	"path/filepath"

	"github.com/corey/prox/internal/ports"
)

// Watch emits one round of results for paths, then re-searches each file as the
// watcher reports it changed, until ctx is cancelled.
func (a *App) Watch(ctx context.Context, w ports.Watcher, paths []string, q Query, emit func([]FileResult)) error {
	if err := a.Validate(q); err != nil {
		return err
	}

	// The watcher reports absolute paths; results keep the names the user typed.
	display := make(map[string]string, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		display[abs] = p
	}

	changes := make(chan string, len(paths)+1)
	if err := w.Watch(paths, func(path string) {
		select {
		case changes <- path:
		default: // a re-search for this burst is already queued
		}
	}); err != nil {
		return err
	}
	defer w.Stop()

	results, err := a.SearchFiles(ctx, paths, q)
	if err != nil {
		return err
	}
	emit(results)

	for {
		select {
		case <-ctx.Done():
			return nil
		case abs := <-changes:
			name, ok := display[abs]
			if !ok {
				name = abs
			}
			a.Logger.Debug("file changed", "path", name)
			emit([]FileResult{a.SearchFile(ctx, name, q)})
		}
	}
}
