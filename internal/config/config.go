// Package config provides configuration management for the view engine
// using Viper for flexible loading from files, environment variables,
// and command-line flags.
//
// The configuration system supports YAML files and environment variable
// overrides with a NANCY_ prefix. It manages the view resolution
// ruleset (template extensions, shared folder names, the conventional
// master name and chain depth), the default render locale, and the
// watch-mode debounce interval.
package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Views   ViewsConfig   `yaml:"views"`
	Masters MastersConfig `yaml:"masters"`
	Render  RenderConfig  `yaml:"render"`
	Watch   WatchConfig   `yaml:"watch"`
	Log     LogConfig     `yaml:"log"`
}

// ViewsConfig is the ambient ruleset the descriptor builder consumes:
// which suffixes count as view templates and which folders are probed
// as shared fallbacks.
type ViewsConfig struct {
	Root          string   `yaml:"root"`
	Extensions    []string `yaml:"extensions"`
	SharedFolders []string `yaml:"shared_folders"`
}

type MastersConfig struct {
	ConventionalName string `yaml:"conventional_name"`
	ChainDepth       int    `yaml:"chain_depth"`
}

type RenderConfig struct {
	Locale string `yaml:"locale"`
}

type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Handle keys set via viper (workaround for viper handling of
	// slices and underscore keys)
	if viper.IsSet("views.root") {
		config.Views.Root = viper.GetString("views.root")
	}
	if viper.IsSet("views.extensions") && len(config.Views.Extensions) == 0 {
		config.Views.Extensions = viper.GetStringSlice("views.extensions")
	}
	if viper.IsSet("views.shared_folders") && len(config.Views.SharedFolders) == 0 {
		config.Views.SharedFolders = viper.GetStringSlice("views.shared_folders")
	}
	if viper.IsSet("masters.conventional_name") {
		config.Masters.ConventionalName = viper.GetString("masters.conventional_name")
	}
	if viper.IsSet("masters.chain_depth") {
		config.Masters.ChainDepth = viper.GetInt("masters.chain_depth")
	}
	if viper.IsSet("render.locale") {
		config.Render.Locale = viper.GetString("render.locale")
	}
	if viper.IsSet("watch.debounce") {
		config.Watch.Debounce = viper.GetDuration("watch.debounce")
	}
	if viper.IsSet("log.level") {
		config.Log.Level = viper.GetString("log.level")
	}

	applyDefaults(&config)

	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Default returns the configuration used when no file, env or flag
// overrides are present.
func Default() *Config {
	var config Config
	applyDefaults(&config)
	return &config
}

func applyDefaults(config *Config) {
	if config.Views.Root == "" {
		config.Views.Root = "views"
	}
	if len(config.Views.Extensions) == 0 {
		config.Views.Extensions = []string{".view", ".html"}
	}
	if len(config.Views.SharedFolders) == 0 {
		config.Views.SharedFolders = []string{"Shared", "Layouts"}
	}
	if config.Masters.ConventionalName == "" {
		config.Masters.ConventionalName = "Application"
	}
	if config.Masters.ChainDepth == 0 && !viper.IsSet("masters.chain_depth") {
		config.Masters.ChainDepth = 1
	}
	if config.Render.Locale == "" {
		config.Render.Locale = "en"
	}
	if config.Watch.Debounce == 0 {
		config.Watch.Debounce = 300 * time.Millisecond
	}
	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "text"
	}
}
