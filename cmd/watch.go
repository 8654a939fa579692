package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/anilanar/Nancy/internal/config"
	"github.com/anilanar/Nancy/internal/factory"
	"github.com/anilanar/Nancy/internal/logging"
	"github.com/anilanar/Nancy/internal/registry"
	"github.com/anilanar/Nancy/internal/watcher"
)

var watchFlags renderOptions

var watchCmd = &cobra.Command{
	Use:     "watch <view>",
	Aliases: []string{"w"},
	Short:   "Re-render a view whenever its templates change",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		logger := newLogger(cfg)

		// One factory for the whole session: renders between changes
		// hit the compiled-chain cache, and a changed template evicts
		// exactly the chains built from it.
		f := newFactory(cfg)
		go logCacheEvents(cmd.Context(), f.Registry().Watch(), logger)

		tw, err := watcher.NewTemplateWatcher(cfg.Views.Root, cfg.Watch.Debounce, logger)
		if err != nil {
			return fmt.Errorf("watching %s: %w", cfg.Views.Root, err)
		}
		tw.AddFilter(watcher.ExtensionFilter(cfg.Views.Extensions))
		tw.AddHandler(renderOnChange(cmd, f, watchFlags, args[0], cmd.OutOrStdout()))

		// Initial render before the first change.
		if err := runRender(cmd, f, watchFlags, args[0], cmd.OutOrStdout()); err != nil {
			fmt.Fprintln(os.Stderr, "render failed:", err)
		}

		return tw.Start(cmd.Context())
	},
}

func init() {
	bindRenderFlags(watchCmd, &watchFlags)

	rootCmd.AddCommand(watchCmd)
}

// renderOnChange evicts the chains compiled from each changed template
// and re-renders the view through the shared factory, so untouched
// chains stay cached across passes.
func renderOnChange(cmd *cobra.Command, f *factory.Factory, opts renderOptions, viewName string, out io.Writer) watcher.ChangeHandler {
	return func(events []watcher.ChangeEvent) error {
		for _, ev := range events {
			fmt.Fprintf(os.Stderr, "%s %s\n", ev.Type, ev.Path)
			f.Registry().InvalidateTemplate(ev.Path)
		}

		if err := runRender(cmd, f, opts, viewName, out); err != nil {
			fmt.Fprintln(os.Stderr, "render failed:", err)
		}

		return nil
	}
}

// logCacheEvents reports compiled-chain cache activity while watch
// mode runs.
func logCacheEvents(ctx context.Context, events <-chan registry.Event, logger logging.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev.Type {
			case registry.EventTypeStored:
				logger.Debug(ctx, "cached compiled chain", "key", ev.Entry.Key)
			case registry.EventTypeInvalidated:
				logger.Debug(ctx, "evicted compiled chain", "key", ev.Entry.Key)
			}
		}
	}
}
