package viewsource

import (
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/anilanar/Nancy/internal/errors"
)

// DirSource serves templates from a filesystem rooted at a directory.
// Virtual paths map one-to-one onto paths below the root.
type DirSource struct {
	fsys fs.FS
}

// NewDirSource creates a source over a physical directory.
func NewDirSource(root string) *DirSource {
	return &DirSource{fsys: os.DirFS(root)}
}

// NewFSSource creates a source over any fs.FS, e.g. an embed.FS.
func NewFSSource(fsys fs.FS) *DirSource {
	return &DirSource{fsys: fsys}
}

// Exists implements Source.
func (d *DirSource) Exists(virtualPath string) bool {
	name, ok := cleanVirtualPath(virtualPath)
	if !ok {
		return false
	}

	info, err := fs.Stat(d.fsys, name)
	return err == nil && !info.IsDir()
}

// Open implements Source.
func (d *DirSource) Open(virtualPath string) (io.ReadCloser, error) {
	name, ok := cleanVirtualPath(virtualPath)
	if !ok {
		return nil, errors.NewIOError(virtualPath, fs.ErrInvalid)
	}

	f, err := d.fsys.Open(name)
	if err != nil {
		return nil, errors.NewIOError(virtualPath, err)
	}

	return f, nil
}

// List implements Source.
func (d *DirSource) List(folder string) ([]string, error) {
	name := "."
	if folder != "" {
		var ok bool
		if name, ok = cleanVirtualPath(folder); !ok {
			return nil, errors.NewIOError(folder, fs.ErrInvalid)
		}
	}

	dirents, err := fs.ReadDir(d.fsys, name)
	if err != nil {
		return nil, errors.NewIOError(folder, err)
	}

	var entries []string
	for _, e := range dirents {
		if e.IsDir() {
			continue
		}
		entries = append(entries, path.Join(folder, e.Name()))
	}
	sort.Strings(entries)

	return entries, nil
}

// cleanVirtualPath normalizes a virtual path for fs.FS access and
// rejects anything that would escape the root.
func cleanVirtualPath(p string) (string, bool) {
	cleaned := path.Clean(strings.TrimPrefix(p, "/"))
	if cleaned == "" || cleaned == "." || strings.HasPrefix(cleaned, "..") {
		return "", false
	}

	return cleaned, true
}
