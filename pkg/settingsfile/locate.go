// SPDX-License-Identifier: MPL-2.0

package settingsfile

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// Locate returns the paths of fileName in the direct child directories of root,
// dot-directories included, sorted by directory name. It returns a
// *NotFoundError when there is none.
func Locate(root, fileName string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read project directory: %w", err)
	}

	var found []string
	for _, e := range entries {
		if !isDir(root, e) {
			continue
		}
		candidate := filepath.Join(root, e.Name(), fileName)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			found = append(found, candidate)
		}
	}
	if len(found) == 0 {
		return nil, &NotFoundError{Root: root, FileName: fileName}
	}
	slices.Sort(found)
	return found, nil
}

// isDir follows symlinks so a linked resource directory is searched too.
func isDir(root string, e os.DirEntry) bool {
	if e.IsDir() {
		return true
	}
	if e.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(root, e.Name()))
	return err == nil && info.IsDir()
}
