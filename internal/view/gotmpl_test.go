package view

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/anilanar/Nancy/internal/rendering"
)

func compileTemplate(t *testing.T, path, src string) *View {
	t.Helper()

	logic, err := NewTemplateCompiler().Compile(path, []byte(src))
	require.NoError(t, err)

	return New(path, logic)
}

func TestTemplateCompiler_PlainMarkupPassesThrough(t *testing.T) {
	child := compileTemplate(t, "Stub/index.view", "<div>index</div>")
	i := NewInstance([]*View{child}, "Stub")

	assert.Equal(t, "<div>index</div>", renderInstance(t, i))
}

func TestTemplateCompiler_ModelFields(t *testing.T) {
	child := compileTemplate(t, "Stub/detail.view", "<h1>{{.Name}}</h1>")
	i := NewInstance([]*View{child}, "Stub")
	require.NoError(t, i.SetModel(product{Name: "Widget"}))

	assert.Equal(t, "<h1>Widget</h1>", renderInstance(t, i))
}

func TestTemplateCompiler_AbsentModelDegradesToEmpty(t *testing.T) {
	child := compileTemplate(t, "Stub/detail.view", "<h1>{{.Name}}</h1>")
	i := NewInstance([]*View{child}, "Stub")

	// No model bound: field references render as empty fragments.
	assert.Equal(t, "<h1></h1>", renderInstance(t, i))
}

func TestTemplateCompiler_DefinedBlocksBecomeSections(t *testing.T) {
	child := compileTemplate(t, "Stub/index.view",
		`{{define "header"}}<h1>Welcome</h1>{{end}}main content`)
	master := compileTemplate(t, "Shared/Application.view",
		`{{render "header"}}|{{render}}`)

	i := NewInstance([]*View{child, master}, "Stub")

	assert.Equal(t, "<h1>Welcome</h1>|main content", renderInstance(t, i))
}

func TestTemplateCompiler_LayoutOrdersSections(t *testing.T) {
	child := compileTemplate(t, "Stub/index.view",
		`{{define "header"}}HEADER{{end}}{{define "footer"}}FOOTER{{end}}CONTENT`)
	master := compileTemplate(t, "Shared/Application.view",
		`{{render "footer"}}|{{render}}|{{render "header"}}`)

	i := NewInstance([]*View{child, master}, "Stub")

	assert.Equal(t, "FOOTER|CONTENT|HEADER", renderInstance(t, i))
}

func TestTemplateCompiler_PartialInvocation(t *testing.T) {
	partial := compileTemplate(t, "Stub/widget.view", "<span>{{.}}</span>")
	child := compileTemplate(t, "Stub/index.view", `before {{partial "widget" "hello"}} after`)

	i := NewInstance([]*View{child}, "Stub").
		WithResolver(mapResolver{"widget": partial})

	assert.Equal(t, "before <span>hello</span> after", renderInstance(t, i))
}

func TestTemplateCompiler_PartialEachWithAlternate(t *testing.T) {
	item := compileTemplate(t, "Stub/item.view",
		`<li class="{{alternate "odd" "even"}}">{{.}}</li>`)
	child := compileTemplate(t, "Stub/list.view", `{{partialEach "item" .Items}}`)

	i := NewInstance([]*View{child}, "Stub").
		WithResolver(mapResolver{"item": item})
	require.NoError(t, i.SetModel(map[string]any{
		"Items": []string{"1", "2", "3", "4", "5"},
	}))

	want := `<li class="odd">1</li><li class="even">2</li><li class="odd">3</li>` +
		`<li class="even">4</li><li class="odd">5</li>`
	assert.Equal(t, want, renderInstance(t, i))
}

func TestTemplateCompiler_FormatHelper(t *testing.T) {
	child := compileTemplate(t, "Stub/index.view", `{{format .Total}}`)

	i := NewInstance([]*View{child}, "Stub").WithLocale(language.German)
	require.NoError(t, i.SetModel(map[string]any{"Total": 9999}))

	assert.Equal(t, "9.999", renderInstance(t, i))
}

func TestTemplateCompiler_AutoEscapesInterpolation(t *testing.T) {
	child := compileTemplate(t, "Stub/index.view", `<p>{{.Comment}}</p>`)

	i := NewInstance([]*View{child}, "Stub")
	require.NoError(t, i.SetModel(map[string]any{"Comment": `<script>alert(1)</script>`}))

	out := renderInstance(t, i)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestTemplateCompiler_SyntaxErrorSurfacesAtCompile(t *testing.T) {
	_, err := NewTemplateCompiler().Compile("Stub/broken.view", []byte("{{if}}"))
	assert.Error(t, err)
}

func TestTemplateCompiler_CloneKeepsOriginalReusable(t *testing.T) {
	child := compileTemplate(t, "Stub/index.view", "<div>{{.Name}}</div>")

	// Two renders from one compiled view, separate contexts.
	for _, name := range []string{"first", "second"} {
		i := NewInstance([]*View{child}, "Stub")
		require.NoError(t, i.SetModel(map[string]any{"Name": name}))

		var out bytes.Buffer
		require.NoError(t, i.Render(context.Background(), rendering.NewContext(), &out))
		assert.Equal(t, "<div>"+name+"</div>", out.String())
	}
}
