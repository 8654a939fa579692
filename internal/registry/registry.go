// Package registry caches compiled view chains keyed by descriptor
// content, so a chain is compiled once per distinct resolution and
// reused across renders. Watchers receive invalidation events when
// template changes evict entries.
package registry

import (
	"sync"
	"time"

	"github.com/anilanar/Nancy/internal/view"
)

// ChainEntry is one cached compiled chain.
type ChainEntry struct {
	Key        string
	Templates  []string
	Namespace  string
	Chain      []*view.View
	CompiledAt time.Time
}

// UsesTemplate reports whether the chain was compiled from the given
// template path.
func (e *ChainEntry) UsesTemplate(virtualPath string) bool {
	for _, t := range e.Templates {
		if t == virtualPath {
			return true
		}
	}

	return false
}

// Event represents a change in the cache.
type Event struct {
	Type      EventType
	Entry     *ChainEntry
	Timestamp time.Time
}

// EventType represents the type of cache event.
type EventType int

const (
	EventTypeStored EventType = iota
	EventTypeInvalidated
)

// ChainRegistry caches compiled chains.
type ChainRegistry struct {
	entries  map[string]*ChainEntry
	mutex    sync.RWMutex
	watchers []chan Event
}

// NewChainRegistry creates an empty registry.
func NewChainRegistry() *ChainRegistry {
	return &ChainRegistry{
		entries: make(map[string]*ChainEntry),
	}
}

// Get retrieves a cached chain by descriptor key.
func (r *ChainRegistry) Get(key string) (*ChainEntry, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	entry, exists := r.entries[key]
	return entry, exists
}

// Store adds or replaces a compiled chain. Storing a fully compiled
// entry is the only way anything becomes visible to renderers, so a
// partially compiled chain can never be observed.
func (r *ChainRegistry) Store(entry *ChainEntry) {
	r.mutex.Lock()
	entry.CompiledAt = time.Now()
	r.entries[entry.Key] = entry
	r.mutex.Unlock()

	r.notify(Event{Type: EventTypeStored, Entry: entry, Timestamp: entry.CompiledAt})
}

// Count returns the number of cached chains.
func (r *ChainRegistry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.entries)
}

// InvalidateTemplate evicts every chain compiled from the given
// template path and returns how many were evicted.
func (r *ChainRegistry) InvalidateTemplate(virtualPath string) int {
	r.mutex.Lock()
	var evicted []*ChainEntry
	for key, entry := range r.entries {
		if entry.UsesTemplate(virtualPath) {
			delete(r.entries, key)
			evicted = append(evicted, entry)
		}
	}
	r.mutex.Unlock()

	now := time.Now()
	for _, entry := range evicted {
		r.notify(Event{Type: EventTypeInvalidated, Entry: entry, Timestamp: now})
	}

	return len(evicted)
}

// InvalidateAll empties the cache, e.g. after a provider swap.
func (r *ChainRegistry) InvalidateAll() {
	r.mutex.Lock()
	evicted := make([]*ChainEntry, 0, len(r.entries))
	for key, entry := range r.entries {
		delete(r.entries, key)
		evicted = append(evicted, entry)
	}
	r.mutex.Unlock()

	now := time.Now()
	for _, entry := range evicted {
		r.notify(Event{Type: EventTypeInvalidated, Entry: entry, Timestamp: now})
	}
}

// Watch registers a channel receiving cache events. Slow receivers
// miss events rather than block stores.
func (r *ChainRegistry) Watch() <-chan Event {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ch := make(chan Event, 16)
	r.watchers = append(r.watchers, ch)

	return ch
}

func (r *ChainRegistry) notify(event Event) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, watcher := range r.watchers {
		select {
		case watcher <- event:
		default:
			// Skip if channel is full
		}
	}
}
