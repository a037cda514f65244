// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"testing"
)

// ResourceDir is the resource directory NewSettingsProject creates.
const ResourceDir = ".mm"

// NewSettingsProject creates a project root in a temporary directory with a
// resource directory holding settings.<ext>, and returns the root.
func NewSettingsProject(t testing.TB, ext, content string) string {
	t.Helper()
	root := t.TempDir()
	MustWriteFile(t, filepath.Join(root, ResourceDir, "settings"+ext), content)
	return root
}
