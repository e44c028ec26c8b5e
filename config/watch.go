package config

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads path whenever it changes on disk and hands the result to
// onChange from a background goroutine. The returned stop function closes
// the watcher. Reload errors are reported through onError and do not stop
// the watch; a half-written file simply reloads on the next event.
func Watch(path string, onChange func(Settings), onError func(error)) (stop func(), err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("settings watcher: %w", err)
	}
	// Watch the directory: editors typically replace the file, which drops
	// a direct file watch.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	abs, _ := filepath.Abs(path)
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if evAbs, _ := filepath.Abs(event.Name); evAbs != abs {
					continue
				}
				if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
					continue
				}
				s, err := Load(path)
				if err != nil {
					onError(err)
					continue
				}
				onChange(s)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				onError(err)
			}
		}
	}()
	return func() { watcher.Close() }, nil
}
