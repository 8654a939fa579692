package factory

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/anilanar/Nancy/internal/config"
	ngerrors "github.com/anilanar/Nancy/internal/errors"
	"github.com/anilanar/Nancy/internal/viewsource"
)

func newTestFactory(entries map[string]string) *Factory {
	return New(
		viewsource.NewMemSource(entries),
		OptionsFromConfig(config.Default(), nil),
	)
}

func render(t *testing.T, f *Factory, req Request) string {
	t.Helper()

	result := f.FindView(context.Background(), req)
	require.True(t, result.Ok(), "unexpected error: %v", result.Err)

	var out bytes.Buffer
	require.NoError(t, result.Render(context.Background(), &out))

	return out.String()
}

func TestFindView_SingleViewNoMaster(t *testing.T) {
	f := newTestFactory(map[string]string{
		"Stub/index.view": "<div>index</div>",
	})

	result := f.FindView(context.Background(), Request{Module: "Stub", View: "index"})
	require.True(t, result.Ok())
	assert.Equal(t, "Stub", result.View.Namespace())

	var out bytes.Buffer
	require.NoError(t, result.Render(context.Background(), &out))
	assert.Equal(t, "<div>index</div>", out.String())
}

func TestFindView_ConventionalMasterComposes(t *testing.T) {
	f := newTestFactory(map[string]string{
		"Stub/index.view":         "<div>index</div>",
		"Shared/Application.view": "<html>{{render}}</html>",
	})

	out := render(t, f, Request{Module: "Stub", View: "index"})
	assert.Equal(t, "<html><div>index</div></html>", out)
}

func TestFindView_NotFoundResult(t *testing.T) {
	f := newTestFactory(nil)

	result := f.FindView(context.Background(), Request{Module: "Stub", View: "index"})
	assert.False(t, result.Ok())
	assert.Nil(t, result.View)
	assert.True(t, errors.Is(result.Err, ngerrors.ErrViewNotFound))

	var out bytes.Buffer
	assert.Error(t, result.Render(context.Background(), &out))
}

func TestFindView_ExplicitMasterMissing(t *testing.T) {
	f := newTestFactory(map[string]string{
		"Stub/index.view": "<div>index</div>",
	})

	result := f.FindView(context.Background(), Request{Module: "Stub", View: "index", Master: "Custom"})
	assert.False(t, result.Ok())
	assert.True(t, errors.Is(result.Err, ngerrors.ErrMasterNotFound))
}

func TestFindView_CompiledChainCached(t *testing.T) {
	f := newTestFactory(map[string]string{
		"Stub/index.view": "<div>index</div>",
	})

	first := f.FindView(context.Background(), Request{Module: "Stub", View: "index"})
	require.True(t, first.Ok())
	assert.Equal(t, 1, f.Registry().Count())

	second := f.FindView(context.Background(), Request{Module: "Stub", View: "index"})
	require.True(t, second.Ok())
	assert.Equal(t, 1, f.Registry().Count(), "second resolution reuses the cached chain")

	assert.Same(t, first.View.Child(), second.View.Child())
}

func TestSwapSource_AffectsOnlyLaterResolutions(t *testing.T) {
	first := viewsource.NewMemSource(map[string]string{
		"Stub/index.view": "from first provider",
	})
	second := viewsource.NewMemSource(map[string]string{
		"Stub/index.view": "from second provider",
	})

	f := New(first, OptionsFromConfig(config.Default(), nil))

	// Resolution completed before the swap keeps its compiled chain.
	before := f.FindView(context.Background(), Request{Module: "Stub", View: "index"})
	require.True(t, before.Ok())

	f.SwapSource(second)

	var out bytes.Buffer
	require.NoError(t, before.Render(context.Background(), &out))
	assert.Equal(t, "from first provider", out.String())

	// A resolution started after the swap sees the new provider.
	assert.Equal(t, "from second provider",
		render(t, f, Request{Module: "Stub", View: "index"}))
}

func TestSwapSource_EmptiesCache(t *testing.T) {
	f := newTestFactory(map[string]string{
		"Stub/index.view": "<div>index</div>",
	})
	f.FindView(context.Background(), Request{Module: "Stub", View: "index"})
	require.Equal(t, 1, f.Registry().Count())

	f.SwapSource(viewsource.NewMemSource(nil))

	assert.Equal(t, 0, f.Registry().Count())
}

func TestFindView_PartialsResolveThroughProvider(t *testing.T) {
	f := newTestFactory(map[string]string{
		"Stub/index.view":  `<ul>{{partialEach "row" .Items}}</ul>`,
		"Stub/row.view":    `<li class="{{alternate "odd" "even"}}">{{.}}</li>`,
		"Shared/foot.view": `ignored`,
	})

	result := f.FindView(context.Background(), Request{Module: "Stub", View: "index"})
	require.True(t, result.Ok())
	require.NoError(t, result.View.SetModel(map[string]any{
		"Items": []string{"a", "b", "c", "d", "e"},
	}))

	var out bytes.Buffer
	require.NoError(t, result.Render(context.Background(), &out))

	want := `<ul><li class="odd">a</li><li class="even">b</li><li class="odd">c</li>` +
		`<li class="even">d</li><li class="odd">e</li></ul>`
	assert.Equal(t, want, out.String())
}

func TestFindView_PartialSharedFallback(t *testing.T) {
	f := newTestFactory(map[string]string{
		"Stub/index.view":    `{{partial "banner"}}`,
		"Shared/banner.view": `<div>shared banner</div>`,
	})

	assert.Equal(t, "<div>shared banner</div>",
		render(t, f, Request{Module: "Stub", View: "index"}))
}

func TestFindView_SectionsAcrossChain(t *testing.T) {
	f := newTestFactory(map[string]string{
		"Stub/index.view": `{{define "header"}}HEADER{{end}}` +
			`{{define "footer"}}FOOTER{{end}}CONTENT`,
		"Shared/Application.view": `{{render "footer"}}|{{render}}|{{render "header"}}`,
	})

	assert.Equal(t, "FOOTER|CONTENT|HEADER",
		render(t, f, Request{Module: "Stub", View: "index"}))
}

func TestFindView_LocaleOverride(t *testing.T) {
	f := newTestFactory(map[string]string{
		"Stub/index.view": `{{format .N}}`,
	})

	result := f.FindView(context.Background(), Request{
		Module: "Stub",
		View:   "index",
		Locale: language.German,
	})
	require.True(t, result.Ok())
	require.NoError(t, result.View.SetModel(map[string]any{"N": 1234567}))

	var out bytes.Buffer
	require.NoError(t, result.Render(context.Background(), &out))
	assert.Equal(t, "1.234.567", out.String())
}

func TestFindView_SkipDefaultMaster(t *testing.T) {
	f := newTestFactory(map[string]string{
		"Stub/index.view":         "<div>index</div>",
		"Shared/Application.view": "<html>{{render}}</html>",
	})

	out := render(t, f, Request{Module: "Stub", View: "index", SkipDefaultMaster: true})
	assert.Equal(t, "<div>index</div>", out)
}
