package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/anilanar/Nancy/internal/config"
	"github.com/anilanar/Nancy/internal/factory"
	"github.com/anilanar/Nancy/internal/viewsource"
)

// renderOptions are the per-request knobs shared by the render and
// watch commands. Each command binds its own instance, so flag state
// never bleeds between commands.
type renderOptions struct {
	module          string
	master          string
	noDefaultMaster bool
	modelFile       string
	locale          string
	output          string
}

var renderFlags renderOptions

var renderCmd = &cobra.Command{
	Use:     "render <view>",
	Aliases: []string{"r"},
	Short:   "Resolve a view and render it to stdout or a file",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		out := io.Writer(os.Stdout)
		if renderFlags.output != "" {
			f, err := os.Create(renderFlags.output)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()
			out = f
		}

		return runRender(cmd, newFactory(cfg), renderFlags, args[0], out)
	},
}

func init() {
	bindRenderFlags(renderCmd, &renderFlags)
	renderCmd.Flags().StringVarP(&renderFlags.output, "out", "o", "", "output file (default stdout)")

	rootCmd.AddCommand(renderCmd)
}

// bindRenderFlags registers the resolution flags on a command.
func bindRenderFlags(cmd *cobra.Command, opts *renderOptions) {
	cmd.Flags().StringVarP(&opts.module, "module", "m", "", "module folder the view belongs to")
	cmd.Flags().StringVar(&opts.master, "master", "", "explicit master layout name")
	cmd.Flags().BoolVar(&opts.noDefaultMaster, "no-default-master", false, "skip conventional master lookup")
	cmd.Flags().StringVar(&opts.modelFile, "model", "", "YAML file bound as the view model")
	cmd.Flags().StringVar(&opts.locale, "locale", "", "render locale (overrides config)")
}

// newFactory builds a view factory over the configured views root.
func newFactory(cfg *config.Config) *factory.Factory {
	return factory.New(
		viewsource.NewDirSource(cfg.Views.Root),
		factory.OptionsFromConfig(cfg, newLogger(cfg)),
	)
}

func runRender(cmd *cobra.Command, f *factory.Factory, opts renderOptions, viewName string, out io.Writer) error {
	req := factory.Request{
		Module:            opts.module,
		View:              viewName,
		Master:            opts.master,
		SkipDefaultMaster: opts.noDefaultMaster,
	}

	if opts.locale != "" {
		tag, err := language.Parse(opts.locale)
		if err != nil {
			return fmt.Errorf("invalid locale %q: %w", opts.locale, err)
		}
		req.Locale = tag
	}

	result := f.FindView(cmd.Context(), req)
	if !result.Ok() {
		return result.Err
	}

	if opts.modelFile != "" {
		model, err := loadModel(opts.modelFile)
		if err != nil {
			return err
		}
		if err := result.View.SetModel(model); err != nil {
			return err
		}
	}

	return result.Render(cmd.Context(), out)
}

// loadModel reads a YAML document into a map usable as an untyped view
// model.
func loadModel(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model file: %w", err)
	}

	var model map[string]any
	if err := yaml.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("parsing model file %s: %w", path, err)
	}

	return model, nil
}
