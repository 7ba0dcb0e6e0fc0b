// Package watcher follows the library catalog file on disk so edits show up
// in the media panel without a restart.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/heimdex/heimdex-editor/internal/library"
)

type Watcher interface {
	Watch(ctx context.Context, path string) error
	Stop() error
	OnChange(callback func(path string, event EventType))
}

type EventType int

const (
	EventCreate EventType = iota
	EventModify
	EventDelete
)

func (e EventType) String() string {
	switch e {
	case EventCreate:
		return "create"
	case EventModify:
		return "modify"
	default:
		return "delete"
	}
}

// FileWatcher watches a single file. It subscribes to the parent directory
// because editors commonly replace files with a rename, which drops a watch
// placed on the file itself.
type FileWatcher struct {
	logger *slog.Logger

	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	callback func(path string, event EventType)
	done     chan struct{}
}

func NewFileWatcher(logger *slog.Logger) *FileWatcher {
	return &FileWatcher{logger: logger}
}

func (w *FileWatcher) OnChange(callback func(path string, event EventType)) {
	w.mu.Lock()
	w.callback = callback
	w.mu.Unlock()
}

// Watch starts delivering events for path until ctx is cancelled or Stop is
// called. It returns once the watch is registered.
func (w *FileWatcher) Watch(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	w.mu.Lock()
	if w.watcher != nil {
		w.mu.Unlock()
		fw.Close()
		return fmt.Errorf("watcher already running")
	}
	w.watcher = fw
	w.done = make(chan struct{})
	done := w.done
	w.mu.Unlock()

	w.logger.Info("watching library file", "path", abs)
	go w.loop(ctx, fw, abs, done)
	return nil
}

func (w *FileWatcher) Stop() error {
	w.mu.Lock()
	fw := w.watcher
	done := w.done
	w.watcher = nil
	w.mu.Unlock()

	if fw == nil {
		return nil
	}
	err := fw.Close()
	<-done
	return err
}

func (w *FileWatcher) loop(ctx context.Context, fw *fsnotify.Watcher, target string, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.watcher == fw {
				w.watcher = nil
			}
			w.mu.Unlock()
			fw.Close()
			return
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			kind, ok := classify(ev.Op)
			if !ok {
				continue
			}
			w.mu.Lock()
			cb := w.callback
			w.mu.Unlock()
			if cb != nil {
				cb(target, kind)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("library watch error", "error", err)
		}
	}
}

func classify(op fsnotify.Op) (EventType, bool) {
	switch {
	case op.Has(fsnotify.Create):
		return EventCreate, true
	case op.Has(fsnotify.Write):
		return EventModify, true
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return EventDelete, true
	default:
		return 0, false
	}
}

// LibraryReloader returns a change callback that reparses the catalog file
// and swaps it into cat. Parse failures keep the previous records. onReload
// may be nil.
func LibraryReloader(cat *library.Catalog, logger *slog.Logger, onReload func([]library.Record)) func(string, EventType) {
	return func(path string, event EventType) {
		if event == EventDelete {
			logger.Warn("library file removed, keeping current catalog", "path", path)
			return
		}
		records, err := library.Load(path)
		if err != nil {
			logger.Warn("library reload failed, keeping current catalog", "path", path, "error", err)
			return
		}
		cat.Replace(records)
		logger.Info("library reloaded", "path", path, "records", len(records), "event", event.String())
		if onReload != nil {
			onReload(records)
		}
	}
}
