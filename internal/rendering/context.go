// Package rendering implements the per-render state container: a
// default output buffer plus named section buffers, scoped capture of
// writes into a section, and placement of accumulated sections at the
// point a layout references them.
//
// One Context exists per top-level render invocation and is shared by
// reference across the child view, every partial, and the layout
// chain. A single render is strictly sequential; the Context is not
// safe for concurrent writers and never needs to be.
package rendering

import (
	"bytes"
	"io"
)

// DefaultSection is the reserved name under which a child view's main
// output accumulates; a layout places it like any other section.
const DefaultSection = "body"

// Context is the mutable bag of output buffers for one render.
type Context struct {
	sections map[string]*bytes.Buffer
	// active is the write-target stack. The top receives Write calls;
	// section capture and layer composition push onto it.
	active []*bytes.Buffer
}

// NewContext creates a context whose initial write target is the
// default section.
func NewContext() *Context {
	body := &bytes.Buffer{}
	return &Context{
		sections: map[string]*bytes.Buffer{DefaultSection: body},
		active:   []*bytes.Buffer{body},
	}
}

// Write appends to the currently active buffer. Implements io.Writer.
func (c *Context) Write(p []byte) (int, error) {
	return c.top().Write(p)
}

// WriteString appends a string to the currently active buffer.
func (c *Context) WriteString(s string) {
	c.top().WriteString(s)
}

// CaptureSection redirects writes to the named section for the
// duration of fn. The previously active buffer is restored on exit,
// including on panic. Captures nest; multiple captures of one name
// append in call order.
func (c *Context) CaptureSection(name string, fn func() error) error {
	c.push(c.section(name))
	defer c.pop()

	return fn()
}

// WithTarget redirects writes to an arbitrary buffer for the duration
// of fn. Used when composing a layout layer over already-rendered
// content.
func (c *Context) WithTarget(buf *bytes.Buffer, fn func() error) error {
	c.push(buf)
	defer c.pop()

	return fn()
}

// HasSection reports whether the named section has accumulated any
// content.
func (c *Context) HasSection(name string) bool {
	buf, ok := c.sections[name]
	return ok && buf.Len() > 0
}

// RenderSection emits the named section's accumulated content into the
// active buffer at the caller's position. Placement order is decided
// entirely by where layouts call this, not by write order. Reading is
// idempotent: the same accumulated content is emitted on every call.
// If the section is empty, defaultAction (when non-nil) supplies
// fallback content.
func (c *Context) RenderSection(name string, defaultAction func(io.Writer) error) error {
	if c.HasSection(name) {
		_, err := c.top().Write(c.sections[name].Bytes())
		return err
	}

	if defaultAction != nil {
		return defaultAction(c.top())
	}

	return nil
}

// SectionContent returns the accumulated content of a section.
func (c *Context) SectionContent(name string) string {
	if buf, ok := c.sections[name]; ok {
		return buf.String()
	}

	return ""
}

// SetSection replaces a section's content wholesale. The layout chain
// uses this to make each composed layer the next layer's body.
func (c *Context) SetSection(name, content string) {
	buf := c.section(name)
	buf.Reset()
	buf.WriteString(content)
}

func (c *Context) section(name string) *bytes.Buffer {
	buf, ok := c.sections[name]
	if !ok {
		buf = &bytes.Buffer{}
		c.sections[name] = buf
	}

	return buf
}

func (c *Context) top() *bytes.Buffer {
	return c.active[len(c.active)-1]
}

func (c *Context) push(buf *bytes.Buffer) {
	c.active = append(c.active, buf)
}

func (c *Context) pop() {
	if len(c.active) > 1 {
		c.active = c.active[:len(c.active)-1]
	}
}
