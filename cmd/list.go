package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/anilanar/Nancy/internal/config"
	"github.com/anilanar/Nancy/internal/viewsource"
)

var listCmd = &cobra.Command{
	Use:     "list [folder...]",
	Aliases: []string{"ls"},
	Short:   "List resolvable views per module folder",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		folders := args
		if len(folders) == 0 {
			folders, err = moduleFolders(cfg.Views.Root)
			if err != nil {
				return err
			}
		}

		source := viewsource.NewDirSource(cfg.Views.Root)
		for _, folder := range folders {
			entries, err := source.List(folder)
			if err != nil {
				return err
			}
			for _, entry := range entries {
				fmt.Fprintln(cmd.OutOrStdout(), entry)
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

// moduleFolders returns the top-level folders of the views root.
func moduleFolders(root string) ([]string, error) {
	dirents, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading views root %s: %w", root, err)
	}

	var folders []string
	for _, d := range dirents {
		if d.IsDir() {
			folders = append(folders, d.Name())
		}
	}
	sort.Strings(folders)

	return folders, nil
}
