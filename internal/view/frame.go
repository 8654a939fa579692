package view

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/anilanar/Nancy/internal/rendering"
)

// PartialResolver locates and compiles a nested view by name, scoped
// to the namespace of the view that requests it. Implemented by the
// factory.
type PartialResolver interface {
	ResolvePartial(ctx context.Context, namespace, name string) (*View, error)
}

// Frame is the helper surface template logic executes against. It
// carries the shared rendering context, the bound model, the render
// locale, and the partial resolver. Frames are cheap; each partial
// invocation gets its own.
type Frame struct {
	ctx      context.Context
	rc       *rendering.Context
	view     *View
	model    any
	locale   language.Tag
	resolver PartialResolver

	// ordinal is the 1-based position within a collection partial,
	// 0 outside of one.
	ordinal int
	count   int
}

// Context returns the request context of the render invocation.
func (f *Frame) Context() context.Context {
	return f.ctx
}

// Model returns the bound model, nil when none was set.
func (f *Frame) Model() any {
	return f.model
}

// Path returns the virtual path of the executing template.
func (f *Frame) Path() string {
	return f.view.Path()
}

// Write emits raw text into the active buffer.
func (f *Frame) Write(s string) {
	f.rc.WriteString(s)
}

// Writef emits formatted raw text into the active buffer.
func (f *Frame) Writef(format string, args ...any) {
	f.rc.WriteString(fmt.Sprintf(format, args...))
}

// HTML emits text with <, >, & and quotes escaped to entity form. Use
// for any untrusted interpolation.
func (f *Frame) HTML(s string) {
	f.rc.WriteString(html.EscapeString(s))
}

// Format renders a value using the locale established for this render
// invocation. Numbers pick up locale digit grouping; times use the
// locale-independent RFC 1123 form; everything else falls back to its
// default formatting. The printer is built at call time so a locale
// swapped in for the render is always observed, never a cached one.
func (f *Frame) Format(v any) string {
	p := message.NewPrinter(f.locale)

	switch val := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return p.Sprint(number.Decimal(val))
	case float32, float64:
		return p.Sprint(number.Decimal(val))
	case time.Time:
		return val.Format(time.RFC1123)
	default:
		return fmt.Sprint(v)
	}
}

// Section captures everything fn writes into the named content area.
// Captures nest and append.
func (f *Frame) Section(name string, fn func() error) error {
	return f.rc.CaptureSection(name, fn)
}

// HasSection reports whether a named area has content.
func (f *Frame) HasSection(name string) bool {
	return f.rc.HasSection(name)
}

// RenderSection places a named area's accumulated content at this
// position, or runs defaultAction when the area is empty. Layouts call
// this to decide final document order.
func (f *Frame) RenderSection(name string, defaultAction func(io.Writer) error) error {
	return f.rc.RenderSection(name, defaultAction)
}

// RenderBody places the child view's main output. Shorthand layouts
// use at their content slot.
func (f *Frame) RenderBody() error {
	return f.rc.RenderSection(rendering.DefaultSection, nil)
}

// Ordinal returns the 1-based position when executing inside a
// collection partial, 0 otherwise.
func (f *Frame) Ordinal() int {
	return f.ordinal
}

// Count returns the collection length inside a collection partial,
// 0 otherwise.
func (f *Frame) Count() int {
	return f.count
}

// Alternate returns odd for 1-based odd ordinals and even otherwise.
// Outside a collection partial it returns odd, matching the single
// "first row" case.
func (f *Frame) Alternate(odd, even string) string {
	if f.ordinal%2 == 0 && f.ordinal != 0 {
		return even
	}

	return odd
}

// Partial resolves and renders a nested view with the given model,
// sharing this render's context so counters and named sections remain
// visible across partials. The model may be nil.
func (f *Frame) Partial(name string, model any) error {
	partial, err := f.resolvePartial(name)
	if err != nil {
		return err
	}

	return partial.logic.Execute(f.child(partial, model, 0, 0))
}

// PartialEach renders a nested view once per item, with the frame's
// ordinal running 1..len(items) for alternating styling.
func (f *Frame) PartialEach(name string, items []any) error {
	partial, err := f.resolvePartial(name)
	if err != nil {
		return err
	}

	for i, item := range items {
		if err := partial.logic.Execute(f.child(partial, item, i+1, len(items))); err != nil {
			return err
		}
	}

	return nil
}

// CaptureOutput runs fn with writes redirected into buf instead of the
// active buffer. Compiler adapters use this to hand composed fragments
// to engines that want a return value rather than a writer.
func (f *Frame) CaptureOutput(buf *bytes.Buffer, fn func() error) error {
	return f.rc.WithTarget(buf, fn)
}

func (f *Frame) resolvePartial(name string) (*View, error) {
	if f.resolver == nil {
		return nil, fmt.Errorf("no partial resolver configured for %q", f.view.Path())
	}

	return f.resolver.ResolvePartial(f.ctx, f.view.Namespace(), name)
}

// child derives a frame for a nested view sharing this render's state.
func (f *Frame) child(v *View, model any, ordinal, count int) *Frame {
	return &Frame{
		ctx:      f.ctx,
		rc:       f.rc,
		view:     v,
		model:    model,
		locale:   f.locale,
		resolver: f.resolver,
		ordinal:  ordinal,
		count:    count,
	}
}
