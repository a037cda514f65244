// SPDX-License-Identifier: MPL-2.0

package project

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelmanager/modelmanager/internal/issue"
	"github.com/modelmanager/modelmanager/internal/testutil"
	"github.com/modelmanager/modelmanager/pkg/settingsfile"
)

func TestSetupFormats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format   string
		wantFile string
	}{
		{"", "settings.cue"},
		{"cue", "settings.cue"},
		{"json", "settings.json"},
		{"hcl", "settings.hcl"},
		{"toml", "settings.toml"},
		{".yaml", "settings.yaml"},
		{"YML", "settings.yml"},
	}

	for _, tt := range tests {
		t.Run(tt.wantFile+"/"+tt.format, func(t *testing.T) {
			t.Parallel()
			root := t.TempDir()

			path, err := Setup(t.Context(), root, SetupOptions{Format: tt.format})
			if err != nil {
				t.Fatalf("Setup() error = %v", err)
			}
			if want := filepath.Join(root, DefaultResourceDir, tt.wantFile); path != want {
				t.Errorf("Setup() path = %q, want %q", path, want)
			}

			p, err := New(t.Context(), root, WithSettingsFile(tt.wantFile), WithLogger(discardLogger()))
			if err != nil {
				t.Fatalf("New() after Setup error = %v", err)
			}
			if got, _ := p.Get("project_name"); got != "example" {
				t.Errorf("project_name = %v, want example", got)
			}
		})
	}
}

func TestSetupRefusesExistingResourceDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.MustMkdirAll(t, filepath.Join(root, ".cfg"), 0o755)

	_, err := Setup(t.Context(), root, SetupOptions{ResourceDir: ".cfg"})
	if !errors.Is(err, fs.ErrExist) {
		t.Fatalf("Setup() error = %v, want fs.ErrExist", err)
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.Page() == nil || ae.Page().Id() != issue.ResourceDirExistsId {
		t.Errorf("Setup() error = %v, want the resource-dir-exists page", err)
	}
}

func TestSetupForceOverwrites(t *testing.T) {
	t.Parallel()

	root := testutil.NewSettingsProject(t, ".cue", "stale: true\n")

	path, err := Setup(t.Context(), root, SetupOptions{ResourceDir: testutil.ResourceDir, Force: true})
	if err != nil {
		t.Fatalf("Setup(force) error = %v", err)
	}
	if content := testutil.MustReadFile(t, path); strings.Contains(content, "stale") {
		t.Errorf("settings file was not overwritten: %q", content)
	}
}

func TestSetupCustomFileName(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path, err := Setup(t.Context(), root, SetupOptions{FileName: "project.cue", Format: "hcl"})
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if filepath.Base(path) != "project.hcl" {
		t.Errorf("Setup() path = %q, want project.hcl", path)
	}
}

func TestSetupUnsupportedFormat(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	_, err := Setup(t.Context(), root, SetupOptions{Format: "ini"})
	if !errors.Is(err, settingsfile.ErrUnsupportedFormat) {
		t.Errorf("Setup() error = %v, want ErrUnsupportedFormat", err)
	}
	if _, statErr := os.Stat(filepath.Join(root, DefaultResourceDir)); !errors.Is(statErr, fs.ErrNotExist) {
		t.Errorf("resource directory created for an unsupported format: %v", statErr)
	}
}
