// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"runtime"
	"testing"
)

// SetConfigHome points the platform's user configuration directory at dir and
// returns a function that restores it. The tool configuration then lives
// under dir/modelmanager on Linux and Windows, and under
// dir/Library/Application Support/modelmanager on macOS.
func SetConfigHome(t testing.TB, dir string) func() {
	t.Helper()

	switch runtime.GOOS {
	case "windows":
		return MustSetenv(t, "APPDATA", dir)
	case "darwin":
		return MustSetenv(t, "HOME", dir)
	default:
		return MustSetenv(t, "XDG_CONFIG_HOME", dir)
	}
}

// ConfigHomeDir returns the application config directory SetConfigHome(dir)
// leads to.
func ConfigHomeDir(dir, app string) string {
	if runtime.GOOS == "darwin" {
		return filepath.Join(dir, "Library", "Application Support", app)
	}
	return filepath.Join(dir, app)
}
