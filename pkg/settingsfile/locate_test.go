// SPDX-License-Identifier: MPL-2.0

package settingsfile

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/modelmanager/modelmanager/internal/testutil"
)

func TestLocate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		files []string
		want  []string
	}{
		{"dot directory", []string{".mm/settings.cue"}, []string{".mm/settings.cue"}},
		{"plain directory", []string{"resources/settings.cue"}, []string{"resources/settings.cue"}},
		{"several sorted by directory", []string{"zeta/settings.cue", ".mm/settings.cue", "alpha/settings.cue"},
			[]string{".mm/settings.cue", "alpha/settings.cue", "zeta/settings.cue"}},
		{"root and nested files ignored", []string{"settings.cue", "a/b/settings.cue", "c/other.cue"}, nil},
		{"none", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := t.TempDir()
			for _, f := range tt.files {
				testutil.MustWriteFile(t, filepath.Join(root, filepath.FromSlash(f)), "x: 1\n")
			}

			got, err := Locate(root, "settings.cue")
			if tt.want == nil {
				var nf *NotFoundError
				if !errors.As(err, &nf) || !errors.Is(err, ErrConfigNotFound) {
					t.Fatalf("Locate() error = %v, want NotFoundError", err)
				}
				if nf.Root != root || nf.FileName != "settings.cue" {
					t.Errorf("NotFoundError = %+v", nf)
				}
				return
			}
			if err != nil {
				t.Fatalf("Locate() error = %v", err)
			}
			want := make([]string, len(tt.want))
			for i, w := range tt.want {
				want[i] = filepath.Join(root, filepath.FromSlash(w))
			}
			if !slices.Equal(got, want) {
				t.Errorf("Locate() = %v, want %v", got, want)
			}
		})
	}
}

func TestLocateMissingRoot(t *testing.T) {
	t.Parallel()

	_, err := Locate(filepath.Join(t.TempDir(), "absent"), "settings.cue")
	if err == nil || errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Locate() error = %v, want a read error", err)
	}
}
