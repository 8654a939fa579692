package view

import (
	"bytes"
	"fmt"
	"html/template"
	"reflect"

	"github.com/anilanar/Nancy/internal/errors"
	"github.com/anilanar/Nancy/internal/rendering"
)

// Template helper func names available to Go-template views.
const (
	renderFunc      = "render"
	partialFunc     = "partial"
	partialEachFunc = "partialEach"
	formatFunc      = "format"
	ordinalFunc     = "ordinal"
	alternateFunc   = "alternate"
)

// TemplateCompiler compiles Go html/template source into render logic.
//
// A view's {{define "name"}} blocks are captured into the named content
// area of the same name before the main body executes, so a layout can
// place them with {{render "name"}} wherever it wants them. The main
// body writes into the default section. Layouts use {{render}} for the
// child body and {{render "name"}} for named areas; {{partial}} and
// {{partialEach}} invoke nested views sharing the render's state.
type TemplateCompiler struct {
	funcs template.FuncMap
}

// NewTemplateCompiler creates a compiler with the standard helper
// surface.
func NewTemplateCompiler() *TemplateCompiler {
	return &TemplateCompiler{}
}

// WithFuncs adds caller-supplied template funcs available to every
// compiled view.
func (c *TemplateCompiler) WithFuncs(funcs template.FuncMap) *TemplateCompiler {
	c.funcs = funcs
	return c
}

// Compile implements Compiler.
func (c *TemplateCompiler) Compile(virtualPath string, source []byte) (Logic, error) {
	// Helper funcs are frame-bound, so parsing uses placeholders; the
	// real implementations attach to a clone at execution time.
	tmpl, err := template.New(virtualPath).Funcs(placeholderFuncs()).Funcs(c.funcs).Parse(string(source))
	if err != nil {
		return nil, errors.NewCompileError(virtualPath, err)
	}

	return &templateLogic{name: virtualPath, tmpl: tmpl}, nil
}

type templateLogic struct {
	name string
	tmpl *template.Template
}

// Execute implements Logic. The pristine compiled template is cloned
// per execution; the clone binds this frame's helpers and is the only
// copy ever executed, keeping the original clonable.
func (l *templateLogic) Execute(f *Frame) error {
	clone, err := l.tmpl.Clone()
	if err != nil {
		return err
	}
	clone = clone.Funcs(frameFuncs(f))

	data := templateData(f)

	// Defined blocks become named content areas.
	for _, t := range clone.Templates() {
		name := t.Name()
		if name == l.name {
			continue
		}
		if err := f.Section(name, func() error {
			return clone.ExecuteTemplate(frameWriter{f}, name, data)
		}); err != nil {
			return err
		}
	}

	return clone.ExecuteTemplate(frameWriter{f}, l.name, data)
}

// frameWriter adapts a frame to io.Writer so template execution writes
// into whatever buffer is active (body, a captured section, a layer).
type frameWriter struct {
	f *Frame
}

func (w frameWriter) Write(p []byte) (int, error) {
	w.f.Write(string(p))
	return len(p), nil
}

// templateData is what template actions evaluate against. An absent
// model degrades to an empty map so field references render as empty
// fragments instead of failing.
func templateData(f *Frame) any {
	if f.Model() == nil {
		return map[string]any{}
	}

	return f.Model()
}

func placeholderFuncs() template.FuncMap {
	return template.FuncMap{
		renderFunc:      func(...string) template.HTML { return "" },
		partialFunc:     func(string, ...any) (template.HTML, error) { return "", nil },
		partialEachFunc: func(string, any) (template.HTML, error) { return "", nil },
		formatFunc:      func(any) string { return "" },
		ordinalFunc:     func() int { return 0 },
		alternateFunc:   func(string, string) string { return "" },
	}
}

// frameFuncs binds the helper surface to the executing frame.
func frameFuncs(f *Frame) template.FuncMap {
	return template.FuncMap{
		renderFunc: func(name ...string) (template.HTML, error) {
			target := rendering.DefaultSection
			if len(name) > 0 {
				target = name[0]
			}
			var buf bytes.Buffer
			err := f.CaptureOutput(&buf, func() error {
				return f.RenderSection(target, nil)
			})
			return template.HTML(buf.String()), err
		},
		partialFunc: func(name string, model ...any) (template.HTML, error) {
			var m any
			if len(model) > 0 {
				m = model[0]
			}
			var buf bytes.Buffer
			err := f.CaptureOutput(&buf, func() error {
				return f.Partial(name, m)
			})
			return template.HTML(buf.String()), err
		},
		partialEachFunc: func(name string, items any) (template.HTML, error) {
			slice, err := anySlice(items)
			if err != nil {
				return "", err
			}
			var buf bytes.Buffer
			err = f.CaptureOutput(&buf, func() error {
				return f.PartialEach(name, slice)
			})
			return template.HTML(buf.String()), err
		},
		formatFunc: func(v any) string {
			return f.Format(v)
		},
		ordinalFunc: func() int {
			return f.Ordinal()
		},
		alternateFunc: func(odd, even string) string {
			return f.Alternate(odd, even)
		},
	}
}

func anySlice(items any) ([]any, error) {
	if items == nil {
		return nil, nil
	}
	if s, ok := items.([]any); ok {
		return s, nil
	}

	v := reflect.ValueOf(items)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil, fmt.Errorf("partialEach requires a collection, got %T", items)
	}

	out := make([]any, v.Len())
	for i := range out {
		out[i] = v.Index(i).Interface()
	}

	return out, nil
}
