package uploads

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// EventCallback is called after a watcher-observed change to the uploads
// directory. kind is one of "created" or "deleted".
type EventCallback func(kind string, filename string)

// Watch starts an fsnotify watcher on the uploads directory and reports
// file changes until ctx is cancelled. Files dropped into the directory
// by hand (scp, rsync) generate the same events as API uploads, so
// connected pages stay in sync either way.
func Watch(ctx context.Context, fs *FS, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(fs.Root()); err != nil {
		return err
	}

	logger.Info("uploads watcher: started", slog.String("root", fs.Root()))

	for {
		select {
		case <-ctx.Done():
			logger.Info("uploads watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			name := filepath.Base(ev.Name)
			// Ignore the atomic-write temp files and dotfiles.
			if strings.HasPrefix(name, ".") {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				logger.Debug("uploads watcher: created", slog.String("file", name))
				if cb != nil {
					cb("created", name)
				}

			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				logger.Debug("uploads watcher: removed", slog.String("file", name))
				if cb != nil {
					cb("deleted", name)
				}
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("uploads watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
