package corpus

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// Watch reloads the corpus file each time it changes on disk and calls
// onChange with the new posts. Invalid revisions are logged and skipped.
// The watcher stops when ctx is done.
func Watch(ctx context.Context, path string, onChange func(posts []Post)) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return errors.WithStack(err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WithStack(err)
	}

	// Editors often replace the file instead of writing it, so the parent
	// directory is watched.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return errors.Wrapf(err, "could not watch '%s'", path)
	}

	go func() {
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}

				if filepath.Clean(ev.Name) != path {
					continue
				}

				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}

				posts, err := Load(path)
				if err != nil {
					slog.ErrorContext(ctx, "could not reload corpus", slog.String("path", path), slog.Any("error", errors.WithStack(err)))
					continue
				}

				slog.InfoContext(ctx, "corpus reloaded", slog.String("path", path), slog.Int("posts", len(posts)))

				onChange(posts)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}

				slog.ErrorContext(ctx, "corpus watcher error", slog.Any("error", errors.WithStack(err)))
			}
		}
	}()

	return nil
}
