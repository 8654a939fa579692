// Package viewsource defines the narrow capability the engine uses to
// locate and read templates: a virtual, '/'-delimited path space that
// can be backed by a physical directory or an in-memory map. The core
// never learns which implementation it is talking to.
package viewsource

import "io"

// Source exposes a virtual view folder to the engine.
type Source interface {
	// Exists reports whether a template exists at the virtual path.
	Exists(virtualPath string) bool

	// Open returns the template contents at the virtual path. The
	// caller owns the returned reader and must close it.
	Open(virtualPath string) (io.ReadCloser, error)

	// List returns the virtual paths of all entries directly under the
	// given folder ("" for the root). Used by tooling; resolution only
	// needs Exists and Open.
	List(folder string) ([]string, error)
}

// ReadAll is a convenience for callers that want the whole template.
func ReadAll(s Source, virtualPath string) ([]byte, error) {
	r, err := s.Open(virtualPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}
