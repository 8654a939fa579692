package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anilanar/Nancy/internal/config"
)

func writeViews(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for path, content := range files {
		full := filepath.Join(root, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}

	return root
}

func testCommand() *cobra.Command {
	c := &cobra.Command{}
	c.SetContext(context.Background())
	return c
}

func TestRunRender_ComposesLayout(t *testing.T) {
	root := writeViews(t, map[string]string{
		"Home/index.view":         "<div>welcome</div>",
		"Shared/Application.view": "<html>{{render}}</html>",
	})

	cfg := config.Default()
	cfg.Views.Root = root

	var out bytes.Buffer
	err := runRender(testCommand(), newFactory(cfg), renderOptions{module: "Home"}, "index", &out)
	require.NoError(t, err)
	assert.Equal(t, "<html><div>welcome</div></html>", out.String())
}

func TestRunRender_ViewMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Views.Root = t.TempDir()

	var out bytes.Buffer
	err := runRender(testCommand(), newFactory(cfg), renderOptions{module: "Home"}, "index", &out)
	assert.Error(t, err)
}

func TestLoadModel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Name: Widget\nPrice: 9.5\n"), 0o644))

	model, err := loadModel(path)
	require.NoError(t, err)
	assert.Equal(t, "Widget", model["Name"])
	assert.Equal(t, 9.5, model["Price"])
}

func TestLoadModel_BadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\t:::not yaml"), 0o644))

	_, err := loadModel(path)
	assert.Error(t, err)
}
