package watcher

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var osStat = os.Stat

// addRecursive adds a directory and all its subdirectories to the
// fsnotify watch set, skipping hidden directories.
func (tw *TemplateWatcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			return fs.SkipDir
		}

		return tw.watcher.Add(path)
	})
}
