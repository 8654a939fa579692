// Package watcher watches template directories for changes with
// debouncing, so a burst of editor writes produces one invalidation.
// The watch command and the factory's cache eviction both consume it.
package watcher

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/anilanar/Nancy/internal/logging"
)

// EventType represents the type of file change.
type EventType int

const (
	EventTypeCreated EventType = iota
	EventTypeModified
	EventTypeDeleted
	EventTypeRenamed
)

// String returns the string representation of the EventType.
func (e EventType) String() string {
	switch e {
	case EventTypeCreated:
		return "created"
	case EventTypeModified:
		return "modified"
	case EventTypeDeleted:
		return "deleted"
	case EventTypeRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// ChangeEvent represents one file change.
type ChangeEvent struct {
	Type EventType
	// Path is relative to the watch root, '/'-delimited: the same
	// virtual path the view source exposes.
	Path string
	Time time.Time
}

// FileFilter determines if a file should produce events.
type FileFilter func(path string) bool

// ChangeHandler handles a debounced batch of changes.
type ChangeHandler func(events []ChangeEvent) error

// ExtensionFilter accepts only paths carrying one of the given
// suffixes.
func ExtensionFilter(exts []string) FileFilter {
	return func(path string) bool {
		for _, ext := range exts {
			if strings.HasSuffix(path, ext) {
				return true
			}
		}

		return false
	}
}

// TemplateWatcher watches a directory tree for template changes.
type TemplateWatcher struct {
	watcher  *fsnotify.Watcher
	root     string
	debounce time.Duration
	filters  []FileFilter
	handlers []ChangeHandler
	logger   logging.Logger
	mutex    sync.RWMutex
}

// NewTemplateWatcher creates a watcher over the directory tree rooted
// at root. A nil logger discards watch diagnostics.
func NewTemplateWatcher(root string, debounce time.Duration, logger logging.Logger) (*TemplateWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = logging.NewNop()
	}

	tw := &TemplateWatcher{
		watcher:  w,
		root:     root,
		debounce: debounce,
		logger:   logger.WithComponent("watcher"),
	}

	if err := tw.addRecursive(root); err != nil {
		w.Close()
		return nil, err
	}

	return tw, nil
}

// AddFilter adds a file filter; with no filters every change passes.
func (tw *TemplateWatcher) AddFilter(filter FileFilter) {
	tw.mutex.Lock()
	defer tw.mutex.Unlock()
	tw.filters = append(tw.filters, filter)
}

// AddHandler adds a change handler.
func (tw *TemplateWatcher) AddHandler(handler ChangeHandler) {
	tw.mutex.Lock()
	defer tw.mutex.Unlock()
	tw.handlers = append(tw.handlers, handler)
}

// Start runs the watch loop until ctx is cancelled. Changes are
// grouped: after the first event, everything arriving within the
// debounce window joins its batch.
func (tw *TemplateWatcher) Start(ctx context.Context) error {
	defer tw.watcher.Close()

	var (
		pending []ChangeEvent
		timer   *time.Timer
		fire    <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-tw.watcher.Events:
			if !ok {
				return nil
			}
			change, accept := tw.translate(event)
			if !accept {
				continue
			}
			pending = append(pending, change)
			if timer == nil {
				timer = time.NewTimer(tw.debounce)
				fire = timer.C
			}

		case err, ok := <-tw.watcher.Errors:
			if !ok {
				return nil
			}
			// Transient fsnotify errors are not fatal.
			tw.logger.Warn(ctx, err, "filesystem watch error")

		case <-fire:
			batch := pending
			pending = nil
			timer = nil
			fire = nil
			tw.dispatch(batch)
		}
	}
}

func (tw *TemplateWatcher) dispatch(events []ChangeEvent) {
	if len(events) == 0 {
		return
	}

	tw.mutex.RLock()
	handlers := make([]ChangeHandler, len(tw.handlers))
	copy(handlers, tw.handlers)
	tw.mutex.RUnlock()

	for _, handler := range handlers {
		_ = handler(events)
	}
}

// translate maps an fsnotify event to a ChangeEvent in virtual-path
// form, applying filters.
func (tw *TemplateWatcher) translate(event fsnotify.Event) (ChangeEvent, bool) {
	rel, err := filepath.Rel(tw.root, event.Name)
	if err != nil {
		return ChangeEvent{}, false
	}
	virtual := filepath.ToSlash(rel)

	// New directories join the watch set; they are not changes.
	if event.Op.Has(fsnotify.Create) {
		if info, statErr := osStat(event.Name); statErr == nil && info.IsDir() {
			_ = tw.addRecursive(event.Name)
			return ChangeEvent{}, false
		}
	}

	tw.mutex.RLock()
	filters := tw.filters
	tw.mutex.RUnlock()

	for _, filter := range filters {
		if !filter(virtual) {
			return ChangeEvent{}, false
		}
	}

	change := ChangeEvent{Path: virtual, Time: time.Now()}
	switch {
	case event.Op.Has(fsnotify.Create):
		change.Type = EventTypeCreated
	case event.Op.Has(fsnotify.Write):
		change.Type = EventTypeModified
	case event.Op.Has(fsnotify.Remove):
		change.Type = EventTypeDeleted
	case event.Op.Has(fsnotify.Rename):
		change.Type = EventTypeRenamed
	default:
		return ChangeEvent{}, false
	}

	return change, true
}
