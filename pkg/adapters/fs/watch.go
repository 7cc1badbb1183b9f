package fs

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch calls onChange once the vault has been quiet for the debounce period after a
// change to a matching document. It blocks until ctx is done.
//
// onChange runs on the watch goroutine; events arriving meanwhile are coalesced into
// the next call.
func (r *Repository) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := r.recursiveAdd(watcher, r.Path); err != nil {
		return err
	}

	r.setWatcherActive(true)
	defer r.setWatcherActive(false)
	if r.config.Logger != nil {
		r.config.Logger.Debug("watching vault", "path", r.Path, "debounce", r.config.Debounce)
	}

	timer := time.NewTimer(r.config.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			if !r.relevant(watcher, event) {
				continue
			}
			if r.config.Logger != nil {
				r.config.Logger.Debug("vault changed", "name", event.Name, "op", event.Op.String())
			}
			timer.Reset(r.config.Debounce)
			pending = true

		case <-timer.C:
			if pending {
				pending = false
				onChange()
			}

		case wErr, ok := <-watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			if r.config.Logger != nil {
				r.config.Logger.Error("fsnotify error", "error", wErr)
			}
			if r.config.ErrorHandler != nil {
				r.config.ErrorHandler(wErr)
			}
		}
	}
}

// relevant filters an event down to matching documents. New directories are added
// to the watch list as a side effect.
func (r *Repository) relevant(watcher *fsnotify.Watcher, event fsnotify.Event) bool {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, TempFilePrefix) {
		return false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if skipDir(base) {
				return false
			}
			if err := r.recursiveAdd(watcher, event.Name); err != nil && r.config.Logger != nil {
				r.config.Logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
			}
			return true
		}
	}

	rel, err := filepath.Rel(r.Path, event.Name)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, part := range strings.Split(rel, "/")[:strings.Count(rel, "/")] {
		if skipDir(part) {
			return false
		}
	}
	if r.matches(rel) {
		return true
	}
	// A removed or renamed directory may have held documents.
	return (event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) && filepath.Ext(rel) == ""
}

func (r *Repository) recursiveAdd(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != r.Path && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}
