package descriptor

import (
	"context"
	"path"
	"strings"

	"github.com/anilanar/Nancy/internal/errors"
	"github.com/anilanar/Nancy/internal/logging"
	"github.com/anilanar/Nancy/internal/viewsource"
)

// Options is the ambient ruleset the builder probes with.
type Options struct {
	// Extensions are the suffixes that count as view templates, in
	// probe order (".view", ".html", ...).
	Extensions []string

	// SharedFolders are the fallback roots probed after the module
	// folder ("Shared", "Layouts", ...).
	SharedFolders []string

	// ConventionalMaster is the layout name probed under the shared
	// folders when no master is requested explicitly ("Application").
	ConventionalMaster string

	// ChainDepth bounds how many conventional masters may stack on top
	// of the child view. 0 disables conventional lookup entirely.
	ChainDepth int
}

// Builder resolves view descriptors against a Source.
type Builder struct {
	source viewsource.Source
	opts   Options
	logger logging.Logger
}

// NewBuilder creates a descriptor builder. A nil logger is replaced
// with a no-op one.
func NewBuilder(source viewsource.Source, opts Options, logger logging.Logger) *Builder {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Builder{
		source: source,
		opts:   opts,
		logger: logger.WithComponent("descriptor"),
	}
}

// Build resolves the template chain for a view request.
//
// The child view is probed under <moduleName>/ first, then under each
// shared folder; a view name that already contains a path separator is
// addressed as-is and skips the module-prefix probe. An explicitly
// requested master that cannot be found is a hard failure; an absent
// conventional master is not.
func (b *Builder) Build(ctx context.Context, moduleName, viewName, masterName string, findDefaultMaster bool) (*Descriptor, error) {
	childPath, probed := b.resolve(moduleName, viewName)
	if childPath == "" {
		b.logger.Debug(ctx, "view not found", "view", viewName, "module", moduleName, "probed", probed)
		return nil, errors.NewViewNotFoundError(viewName, probed)
	}

	d := &Descriptor{
		Templates: []string{childPath},
		// Always derived from the child view, never from a master.
		TargetNamespace: namespaceOf(childPath),
	}

	if masterName != "" {
		masterPath, masterProbed := b.resolve(moduleName, masterName)
		if masterPath == "" {
			// Explicit request + not found never degrades to "no master".
			return nil, errors.NewMasterNotFoundError(masterName, masterProbed)
		}
		d.Templates = append(d.Templates, masterPath)
	} else if findDefaultMaster {
		b.appendConventionalMasters(d)
	}

	b.logger.Debug(ctx, "resolved descriptor",
		"view", viewName,
		"templates", d.Templates,
		"namespace", d.TargetNamespace,
	)

	return d, nil
}

// appendConventionalMasters probes the conventional master name under
// the shared folders, stacking up to ChainDepth layouts. A path already
// present in the chain terminates it; with a single conventional name
// the chain therefore stops after one level regardless of depth.
func (b *Builder) appendConventionalMasters(d *Descriptor) {
	for level := 0; level < b.opts.ChainDepth; level++ {
		masterPath := b.probeShared(b.opts.ConventionalMaster)
		if masterPath == "" || contains(d.Templates, masterPath) {
			return
		}
		d.Templates = append(d.Templates, masterPath)
	}
}

// resolve probes for a view name and returns the first existing path,
// plus every candidate probed (for error reporting).
func (b *Builder) resolve(moduleName, name string) (found string, probed []string) {
	var bases []string
	if strings.ContainsRune(name, '/') {
		// Explicit relative addressing: use as-is, no module prefix.
		bases = []string{path.Clean(name)}
	} else {
		if moduleName != "" {
			bases = append(bases, path.Join(moduleName, name))
		}
		for _, shared := range b.opts.SharedFolders {
			bases = append(bases, path.Join(shared, name))
		}
	}

	for _, base := range bases {
		for _, candidate := range b.withExtensions(base) {
			probed = append(probed, candidate)
			if found == "" && b.source.Exists(candidate) {
				found = candidate
			}
		}
		if found != "" {
			return found, probed
		}
	}

	return "", probed
}

// probeShared probes a name under the shared folders only.
func (b *Builder) probeShared(name string) string {
	for _, shared := range b.opts.SharedFolders {
		for _, candidate := range b.withExtensions(path.Join(shared, name)) {
			if b.source.Exists(candidate) {
				return candidate
			}
		}
	}

	return ""
}

// withExtensions expands a base path into concrete candidates. A path
// that already carries a configured extension is probed verbatim.
func (b *Builder) withExtensions(base string) []string {
	for _, ext := range b.opts.Extensions {
		if strings.HasSuffix(base, ext) {
			return []string{base}
		}
	}

	candidates := make([]string, 0, len(b.opts.Extensions))
	for _, ext := range b.opts.Extensions {
		candidates = append(candidates, base+ext)
	}

	return candidates
}

func contains(paths []string, p string) bool {
	for _, existing := range paths {
		if existing == p {
			return true
		}
	}

	return false
}
