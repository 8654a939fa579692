package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/anilanar/Nancy/internal/errors"
)

func validate(config *Config) error {
	if len(config.Views.Extensions) == 0 {
		return errors.NewConfigError("views.extensions must not be empty")
	}

	for _, ext := range config.Views.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return errors.NewConfigError(fmt.Sprintf("invalid view extension %q", ext))
		}
	}

	for _, folder := range config.Views.SharedFolders {
		if err := validateFolderName(folder); err != nil {
			return err
		}
	}

	if err := validateFolderName(config.Masters.ConventionalName); err != nil {
		return err
	}

	if config.Masters.ChainDepth < 0 {
		return errors.NewConfigError("masters.chain_depth must not be negative")
	}

	if _, err := language.Parse(config.Render.Locale); err != nil {
		return errors.NewConfigError(fmt.Sprintf("invalid render locale %q", config.Render.Locale))
	}

	return nil
}

// validateFolderName rejects names that would escape the virtual path
// space when joined into a probe path.
func validateFolderName(name string) error {
	if name == "" {
		return errors.NewConfigError("folder name must not be empty")
	}
	if strings.Contains(name, "..") {
		return errors.NewConfigError(fmt.Sprintf("folder name %q contains directory traversal", name))
	}
	if strings.ContainsAny(name, `/\`) {
		return errors.NewConfigError(fmt.Sprintf("folder name %q contains a path separator", name))
	}

	return nil
}
