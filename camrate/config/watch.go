package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce collapses the burst of events editors emit for one save.
const reloadDebounce = 100 * time.Millisecond

// Watch reloads path whenever it changes and passes every valid config to
// onChange. Invalid files are logged and skipped, the previous config stays
// in effect. Watch blocks until ctx is done.
//
// The parent directory is watched rather than the file, so editors that save
// by renaming a temp file over the original keep being tracked.
func Watch(ctx context.Context, path string, onChange func(Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	slog.Info("Watching config for changes", "path", abs)

	reload := time.NewTimer(reloadDebounce)
	reload.Stop()
	defer reload.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-reload.C:
			cfg, err := Load(abs)
			if err != nil {
				slog.Warn("Ignoring invalid config change", "path", abs, "error", err)
				continue
			}
			slog.Info("Config reloaded", "path", abs, "cameras", len(cfg.Cameras))
			onChange(cfg)
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// reload once the file has been quiet for reloadDebounce
			reload.Reset(reloadDebounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Config watcher error", "error", err)
		}
	}
}
