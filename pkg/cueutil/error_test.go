// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

func TestFormatError(t *testing.T) {
	t.Parallel()

	t.Run("nil error returns nil", func(t *testing.T) {
		t.Parallel()

		if err := FormatError(nil, "settings.cue"); err != nil {
			t.Errorf("FormatError(nil) = %v, want nil", err)
		}
	})

	t.Run("non-CUE error keeps its cause", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("disk on fire")
		err := FormatError(cause, "settings.cue")
		if !errors.Is(err, cause) {
			t.Errorf("FormatError() = %v, want it to wrap the cause", err)
		}
		if !strings.HasPrefix(err.Error(), "settings.cue: ") {
			t.Errorf("FormatError() = %q, want file prefix", err)
		}
	})

	t.Run("CUE error carries the field path", func(t *testing.T) {
		t.Parallel()

		_, err := Compile([]byte("a: {b: int & \"x\"}"), WithFilename("settings.cue"))
		if err == nil {
			t.Fatal("Compile() succeeded on conflicting values")
		}
		if !strings.Contains(err.Error(), "settings.cue: a.b") {
			t.Errorf("Compile() error = %q, want it to name a.b", err)
		}
	})
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path []string
		want string
	}{
		{nil, ""},
		{[]string{"name"}, "name"},
		{[]string{"plugins", "db"}, "plugins.db"},
		{[]string{"paths", "0"}, "paths[0]"},
		{[]string{"runs", "0", "inputs", "2", "file"}, "runs[0].inputs[2].file"},
		{[]string{"0", "x"}, "0.x"},
	}

	for _, tt := range tests {
		if got := formatPath(tt.path); got != tt.want {
			t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"empty", 0, false},
		{"within limit", 11, false},
		{"at limit", 100, false},
		{"over limit", 101, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := CheckFileSize(make([]byte, tt.size), 100, "settings.cue")
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckFileSize(%d) error = %v, wantErr %v", tt.size, err, tt.wantErr)
			}
			if err != nil && (!strings.Contains(err.Error(), "101") || !strings.Contains(err.Error(), "settings.cue")) {
				t.Errorf("CheckFileSize() error = %q, want size and file name", err)
			}
		})
	}
}
