package intake

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// WatchConfig configures the directory watcher.
type WatchConfig struct {
	Dir         string // directory to watch, non-recursive
	InitialScan bool   // if true, emit files already present at startup
}

// StartWatcher emits the path of every PDF that appears in the watch
// directory. One notification is emitted per file once it is fully
// written (create or rename into the directory). The channel closes
// when the context is cancelled.
func StartWatcher(ctx context.Context, cfg WatchConfig) (<-chan string, error) {
	if cfg.Dir == "" {
		return nil, errors.New("no watch directory provided")
	}

	evCh := make(chan string, 256)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Error("failed to create fsnotify watcher", "error", err)
		return nil, err
	}
	if err := w.Add(cfg.Dir); err != nil {
		slog.Error("failed to watch directory", "dir", cfg.Dir, "error", err)
		_ = w.Close()
		return nil, err
	}

	go func() {
		defer close(evCh)
		defer func() {
			if err := w.Close(); err != nil {
				slog.Warn("closing watcher", "error", err)
			}
		}()

		if cfg.InitialScan {
			entries, err := os.ReadDir(cfg.Dir)
			if err != nil {
				slog.Error("initial scan failed", "dir", cfg.Dir, "error", err)
			}
			for _, entry := range entries {
				if entry.IsDir() || !isPDF(entry.Name()) {
					continue
				}
				select {
				case evCh <- filepath.Join(cfg.Dir, entry.Name()):
				case <-ctx.Done():
					return
				}
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Create) || !isPDF(ev.Name) {
					continue
				}
				slog.Info("new document detected", "file", filepath.Base(ev.Name))
				select {
				case evCh <- ev.Name:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.Error("watcher error", "error", err)
			}
		}
	}()

	return evCh, nil
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}
