package viewsource

import (
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/anilanar/Nancy/internal/errors"
)

// MemSource serves templates from an in-memory map. Safe for
// concurrent readers; Add may be called while renders are running
// against other paths.
type MemSource struct {
	mutex   sync.RWMutex
	entries map[string]string
}

// NewMemSource creates an in-memory source seeded with the given
// path-to-content entries.
func NewMemSource(entries map[string]string) *MemSource {
	m := &MemSource{entries: make(map[string]string, len(entries))}
	for p, content := range entries {
		m.entries[normalize(p)] = content
	}

	return m
}

// Add registers or replaces a template.
func (m *MemSource) Add(virtualPath, content string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.entries[normalize(virtualPath)] = content
}

// Remove deletes a template.
func (m *MemSource) Remove(virtualPath string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.entries, normalize(virtualPath))
}

// Exists implements Source.
func (m *MemSource) Exists(virtualPath string) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	_, ok := m.entries[normalize(virtualPath)]
	return ok
}

// Open implements Source.
func (m *MemSource) Open(virtualPath string) (io.ReadCloser, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	content, ok := m.entries[normalize(virtualPath)]
	if !ok {
		return nil, errors.NewIOError(virtualPath, fs.ErrNotExist)
	}

	return io.NopCloser(strings.NewReader(content)), nil
}

// List implements Source.
func (m *MemSource) List(folder string) ([]string, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	prefix := ""
	if folder != "" {
		prefix = normalize(folder) + "/"
	}

	var entries []string
	for p := range m.entries {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		// Direct children only.
		if strings.Contains(p[len(prefix):], "/") {
			continue
		}
		entries = append(entries, p)
	}
	sort.Strings(entries)

	return entries, nil
}

func normalize(p string) string {
	return path.Clean(strings.TrimPrefix(p, "/"))
}
