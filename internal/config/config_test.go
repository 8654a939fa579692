package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "views", cfg.Views.Root)
	assert.Equal(t, []string{".view", ".html"}, cfg.Views.Extensions)
	assert.Equal(t, []string{"Shared", "Layouts"}, cfg.Views.SharedFolders)
	assert.Equal(t, "Application", cfg.Masters.ConventionalName)
	assert.Equal(t, 1, cfg.Masters.ChainDepth)
	assert.Equal(t, "en", cfg.Render.Locale)
	assert.Equal(t, 300*time.Millisecond, cfg.Watch.Debounce)
}

func TestLoad_ViperOverrides(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("views.extensions", []string{".spark"})
	viper.Set("masters.conventional_name", "Site")
	viper.Set("render.locale", "de-DE")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{".spark"}, cfg.Views.Extensions)
	assert.Equal(t, "Site", cfg.Masters.ConventionalName)
	assert.Equal(t, "de-DE", cfg.Render.Locale)
	// Untouched settings keep their defaults.
	assert.Equal(t, []string{"Shared", "Layouts"}, cfg.Views.SharedFolders)
}

func TestLoad_ChainDepthZeroDisablesChaining(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("masters.chain_depth", 0)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Masters.ChainDepth)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"extension without dot", func(c *Config) { c.Views.Extensions = []string{"view"} }},
		{"traversal in shared folder", func(c *Config) { c.Views.SharedFolders = []string{"../etc"} }},
		{"separator in master name", func(c *Config) { c.Masters.ConventionalName = "Shared/Application" }},
		{"negative chain depth", func(c *Config) { c.Masters.ChainDepth = -1 }},
		{"bogus locale", func(c *Config) { c.Render.Locale = "not a locale!" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, validate(cfg))
		})
	}
}
