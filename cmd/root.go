// Package cmd provides the command-line interface for the view engine
// with configuration from files, environment variables and flags.
//
// Configuration sources, in precedence order:
//
//	1. Command-line flags (--config, --views, etc.)
//	2. NANCY_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (NANCY_VIEWS_ROOT, etc.)
//	4. Configuration file (.nancy.yml)
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/anilanar/Nancy/internal/config"
	"github.com/anilanar/Nancy/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nancy",
	Short: "Resolve and render view templates with master layouts",
	Long: `Nancy resolves a logical view name into a chain of templates (child
view plus master layouts) and renders the chain into a single output
stream, with named content areas, partials and culture-aware
formatting.

Quick Start:
  nancy render index --views ./views --module Home
  nancy list --views ./views
  nancy watch index --views ./views --module Home`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .nancy.yml, can also use NANCY_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().String("views", "", "views root directory")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	viper.BindPFlag("views.root", rootCmd.PersistentFlags().Lookup("views"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig initializes the configuration system.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("NANCY_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".nancy")
	}

	// NANCY_VIEWS_ROOT, NANCY_MASTERS_CONVENTIONAL_NAME, ...
	viper.SetEnvPrefix("NANCY")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the CLI logger from loaded configuration.
func newLogger(cfg *config.Config) logging.Logger {
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
}
