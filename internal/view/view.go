// Package view holds compiled, render-callable views: a single
// template bound to logic, and the instance type composing a child
// view with its master layout chain. Composition follows the layout
// model of mold-style engines: the child renders first into the
// default section, then each enclosing layout renders over it, placing
// the accumulated body and named sections wherever it references them.
package view

import (
	"bytes"
	"context"
	"io"
	"reflect"
	"strings"

	"golang.org/x/text/language"

	"github.com/anilanar/Nancy/internal/errors"
	"github.com/anilanar/Nancy/internal/rendering"
)

// View is one compiled template.
type View struct {
	path  string
	logic Logic
	// modelType is the model type the template was compiled for;
	// nil means untyped (any model, or none).
	modelType reflect.Type
}

// New creates an untyped compiled view.
func New(path string, logic Logic) *View {
	return &View{path: path, logic: logic}
}

// NewTyped creates a compiled view expecting models assignable to the
// type of the prototype value.
func NewTyped(path string, logic Logic, prototype any) *View {
	return &View{path: path, logic: logic, modelType: reflect.TypeOf(prototype)}
}

// Path returns the view's virtual path.
func (v *View) Path() string {
	return v.path
}

// Namespace returns the first segment of the view's path.
func (v *View) Namespace() string {
	if i := strings.IndexByte(v.path, '/'); i >= 0 {
		return v.path[:i]
	}

	return v.path
}

// Instance is a compiled view chain ready to render: the child view at
// index 0 plus its enclosing layouts, the optional bound model, and
// the configuration threaded through the render call.
type Instance struct {
	chain     []*View
	namespace string

	model    any
	modelSet bool

	locale   language.Tag
	resolver PartialResolver
}

// NewInstance creates an instance over a compiled chain. The chain
// must be non-empty; namespace is the target namespace from the
// descriptor.
func NewInstance(chain []*View, namespace string) *Instance {
	return &Instance{chain: chain, namespace: namespace}
}

// Namespace returns the derived target namespace.
func (i *Instance) Namespace() string {
	return i.namespace
}

// Child returns the innermost compiled view.
func (i *Instance) Child() *View {
	return i.chain[0]
}

// WithLocale sets the locale formatting helpers observe during this
// instance's renders. The locale is explicit per-render state, never
// read from process-ambient configuration.
func (i *Instance) WithLocale(tag language.Tag) *Instance {
	i.locale = tag
	return i
}

// WithResolver sets the partial resolver available to template logic.
func (i *Instance) WithResolver(r PartialResolver) *Instance {
	i.resolver = r
	return i
}

// SetModel binds a model to the instance. Binding a model of a type
// the child view was not compiled for fails here, at bind time, so
// rendering never observes a half-bound state. A nil model is valid.
func (i *Instance) SetModel(model any) error {
	if model == nil {
		i.model = nil
		i.modelSet = true
		return nil
	}

	if want := i.chain[0].modelType; want != nil {
		got := reflect.TypeOf(model)
		if !got.AssignableTo(want) {
			return errors.NewModelTypeError(i.chain[0].path, want.String(), got.String())
		}
	}

	i.model = model
	i.modelSet = true

	return nil
}

// Render executes the chain against rc and writes the composed output
// to w. The child view runs first; its main output accumulates in the
// default section. Each enclosing layout then renders into a fresh
// layer, placing the body and named sections where it references
// them; the composed layer becomes the body for the next layout.
//
// Rendering mutates rc; repeated calls against one context append.
// Callers use one rendering context per logical render.
func (i *Instance) Render(ctx context.Context, rc *rendering.Context, w io.Writer) error {
	frame := &Frame{
		ctx:      ctx,
		rc:       rc,
		view:     i.chain[0],
		model:    i.model,
		locale:   i.locale,
		resolver: i.resolver,
	}

	if err := i.chain[0].logic.Execute(frame); err != nil {
		return errors.NewRenderError(i.chain[0].path, err)
	}

	for _, master := range i.chain[1:] {
		layer := &bytes.Buffer{}
		masterFrame := frame.child(master, i.model, 0, 0)

		if err := rc.WithTarget(layer, func() error {
			return master.logic.Execute(masterFrame)
		}); err != nil {
			return errors.NewRenderError(master.path, err)
		}

		rc.SetSection(rendering.DefaultSection, layer.String())
	}

	_, err := io.WriteString(w, rc.SectionContent(rendering.DefaultSection))

	return err
}
