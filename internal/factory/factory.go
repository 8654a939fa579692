// Package factory is the engine's top-level entry point: it resolves a
// view request into a descriptor, compiles the template chain (once
// per distinct chain), and hands back a renderable instance. The view
// source provider is hot-swappable; a swap is a single atomic
// assignment observed only by resolutions started afterwards.
package factory

import (
	"context"
	"io"
	"sync/atomic"

	"golang.org/x/text/language"

	"github.com/anilanar/Nancy/internal/config"
	"github.com/anilanar/Nancy/internal/descriptor"
	"github.com/anilanar/Nancy/internal/logging"
	"github.com/anilanar/Nancy/internal/registry"
	"github.com/anilanar/Nancy/internal/rendering"
	"github.com/anilanar/Nancy/internal/view"
	"github.com/anilanar/Nancy/internal/viewsource"
)

// Request identifies a view to resolve. Module typically comes from
// the caller's routing context.
type Request struct {
	Module string
	View   string
	// Master optionally names an explicit layout; empty means "use
	// the conventional master if one exists".
	Master string
	// SkipDefaultMaster suppresses conventional master lookup when no
	// explicit master is named.
	SkipDefaultMaster bool
	// Locale overrides the factory's default render locale.
	Locale language.Tag
}

// Result carries a successfully compiled view instance or the error
// that prevented one.
type Result struct {
	View *view.Instance
	Err  error
}

// Ok reports whether the result carries a renderable view.
func (r Result) Ok() bool {
	return r.Err == nil
}

// Render is the render handle: it runs the instance against a fresh
// rendering context and writes the composed output to w.
func (r Result) Render(ctx context.Context, w io.Writer) error {
	if r.Err != nil {
		return r.Err
	}

	return r.View.Render(ctx, rendering.NewContext(), w)
}

// Options configures a Factory.
type Options struct {
	Resolution descriptor.Options
	// Compiler turns template source into render logic. Defaults to
	// the Go template compiler.
	Compiler view.Compiler
	// Locale is the default render locale.
	Locale language.Tag
	Logger logging.Logger
}

// OptionsFromConfig maps engine configuration onto factory options.
func OptionsFromConfig(cfg *config.Config, logger logging.Logger) Options {
	tag, err := language.Parse(cfg.Render.Locale)
	if err != nil {
		tag = language.English
	}

	return Options{
		Resolution: descriptor.Options{
			Extensions:         cfg.Views.Extensions,
			SharedFolders:      cfg.Views.SharedFolders,
			ConventionalMaster: cfg.Masters.ConventionalName,
			ChainDepth:         cfg.Masters.ChainDepth,
		},
		Locale: tag,
		Logger: logger,
	}
}

// Factory resolves, compiles and caches views.
type Factory struct {
	source   atomic.Pointer[sourceBox]
	opts     Options
	compiler view.Compiler
	registry *registry.ChainRegistry
	logger   logging.Logger
}

// sourceBox wraps the interface value for atomic.Pointer.
type sourceBox struct {
	src viewsource.Source
}

// New creates a factory over the given provider.
func New(source viewsource.Source, opts Options) *Factory {
	if opts.Compiler == nil {
		opts.Compiler = view.NewTemplateCompiler()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}

	f := &Factory{
		opts:     opts,
		compiler: opts.Compiler,
		registry: registry.NewChainRegistry(),
		logger:   opts.Logger.WithComponent("factory"),
	}
	f.source.Store(&sourceBox{src: source})

	return f
}

// Source returns the provider subsequent resolutions will use.
func (f *Factory) Source() viewsource.Source {
	return f.source.Load().src
}

// SwapSource atomically replaces the provider. In-flight resolutions
// keep the provider they captured at start; the compiled-chain cache
// is emptied so stale chains cannot serve the new provider's requests.
func (f *Factory) SwapSource(source viewsource.Source) {
	f.source.Store(&sourceBox{src: source})
	f.registry.InvalidateAll()
	f.logger.Info(context.Background(), "view source swapped")
}

// Registry exposes the compiled-chain cache, e.g. for watch-driven
// invalidation.
func (f *Factory) Registry() *registry.ChainRegistry {
	return f.registry
}

// FindView resolves and compiles the requested view. The provider is
// captured once at entry, so one resolution never mixes templates from
// two providers.
func (f *Factory) FindView(ctx context.Context, req Request) Result {
	src := f.Source()

	builder := descriptor.NewBuilder(src, f.opts.Resolution, f.opts.Logger)
	d, err := builder.Build(ctx, req.Module, req.View, req.Master, !req.SkipDefaultMaster)
	if err != nil {
		return Result{Err: err}
	}

	entry, err := f.compiledChain(ctx, src, d)
	if err != nil {
		return Result{Err: err}
	}

	locale := f.opts.Locale
	if req.Locale != (language.Tag{}) {
		locale = req.Locale
	}

	instance := view.NewInstance(entry.Chain, d.TargetNamespace).
		WithLocale(locale).
		WithResolver(&partialResolver{factory: f, src: src})

	return Result{View: instance}
}

// compiledChain returns the cached chain for a descriptor, compiling
// it first if needed. Two goroutines may compile the same chain
// redundantly; last store wins and both entries are complete, which is
// the dedup guarantee this engine needs.
func (f *Factory) compiledChain(ctx context.Context, src viewsource.Source, d *descriptor.Descriptor) (*registry.ChainEntry, error) {
	if entry, ok := f.registry.Get(d.Key()); ok {
		return entry, nil
	}

	chain := make([]*view.View, 0, len(d.Templates))
	for _, path := range d.Templates {
		source, err := viewsource.ReadAll(src, path)
		if err != nil {
			// No partially compiled chain escapes: fail the whole
			// resolution on the first read error.
			return nil, err
		}

		logic, err := f.compiler.Compile(path, source)
		if err != nil {
			return nil, err
		}

		chain = append(chain, view.New(path, logic))
	}

	entry := &registry.ChainEntry{
		Key:       d.Key(),
		Templates: d.Templates,
		Namespace: d.TargetNamespace,
		Chain:     chain,
	}
	f.registry.Store(entry)

	f.logger.Debug(ctx, "compiled view chain", "key", d.Key(), "templates", len(chain))

	return entry, nil
}

// partialResolver locates nested views against the provider captured
// for the enclosing render, keeping a single render on one provider.
type partialResolver struct {
	factory *Factory
	src     viewsource.Source
}

// ResolvePartial implements view.PartialResolver. Partials resolve
// like child views (module folder first, shared folders after) and
// never pick up a master layout.
func (p *partialResolver) ResolvePartial(ctx context.Context, namespace, name string) (*view.View, error) {
	builder := descriptor.NewBuilder(p.src, p.factory.opts.Resolution, p.factory.opts.Logger)
	d, err := builder.Build(ctx, namespace, name, "", false)
	if err != nil {
		return nil, err
	}

	entry, err := p.factory.compiledChain(ctx, p.src, d)
	if err != nil {
		return nil, err
	}

	return entry.Chain[0], nil
}
