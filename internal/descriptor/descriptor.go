// Package descriptor implements view descriptor resolution: turning a
// (module, view, master) request into the ordered chain of template
// paths to compose, plus the derived target namespace.
package descriptor

import "strings"

// Descriptor is the result of one resolution. Templates[0] is the
// innermost child view; increasing indices are successive enclosing
// master layouts. Immutable once returned.
type Descriptor struct {
	Templates       []string
	TargetNamespace string
}

// Key returns a stable identity for the resolved chain, suitable for
// caching compiled views. Two resolutions over the same provider state
// produce equal keys exactly when they produce equal chains.
func (d *Descriptor) Key() string {
	return strings.Join(d.Templates, "|")
}

// Child returns the innermost view path.
func (d *Descriptor) Child() string {
	return d.Templates[0]
}

// Masters returns the enclosing layout paths, innermost first.
func (d *Descriptor) Masters() []string {
	return d.Templates[1:]
}

// namespaceOf derives the target namespace from a virtual path: its
// first path segment (the module folder), or the path itself when it
// has no separator.
func namespaceOf(virtualPath string) string {
	if i := strings.IndexByte(virtualPath, '/'); i >= 0 {
		return virtualPath[:i]
	}

	return virtualPath
}
