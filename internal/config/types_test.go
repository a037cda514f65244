// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
	"time"
)

func TestColorScheme_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value ColorScheme
		want  bool
	}{
		{ColorSchemeAuto, true},
		{ColorSchemeDark, true},
		{ColorSchemeLight, true},
		{"", false},
		{"neon", false},
	}

	for _, tt := range tests {
		valid, errs := tt.value.IsValid()
		if valid != tt.want {
			t.Errorf("ColorScheme(%q).IsValid() = %v, want %v", tt.value, valid, tt.want)
		}
		if !valid && (len(errs) != 1 || !errors.Is(errs[0], ErrInvalidColorScheme)) {
			t.Errorf("ColorScheme(%q) errors = %v", tt.value, errs)
		}
	}
}

func TestWatchConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cfg   WatchConfig
		want  time.Duration
		valid bool
	}{
		{"default when empty", WatchConfig{}, 500 * time.Millisecond, true},
		{"explicit", WatchConfig{Debounce: "2s"}, 2 * time.Second, true},
		{"unparsable", WatchConfig{Debounce: "soon"}, 0, false},
		{"negative", WatchConfig{Debounce: "-1s"}, 0, false},
		{"bad glob", WatchConfig{Patterns: []string{"[a-"}}, 500 * time.Millisecond, false},
		{"blank ignore", WatchConfig{Ignore: []string{" "}}, 500 * time.Millisecond, false},
		{"good globs", WatchConfig{Patterns: []string{"**/*.cue"}, Ignore: []string{"tmp/**"}}, 500 * time.Millisecond, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if d, err := tt.cfg.DebounceDuration(); err == nil && d != tt.want {
				t.Errorf("DebounceDuration() = %v, want %v", d, tt.want)
			}
			valid, errs := tt.cfg.IsValid()
			if valid != tt.valid {
				t.Errorf("IsValid() = %v (%v), want %v", valid, errs, tt.valid)
			}
			if !valid && !errors.Is(errs[0], ErrInvalidWatchConfig) {
				t.Errorf("errors = %v, want ErrInvalidWatchConfig", errs)
			}
		})
	}
}

func TestConfig_IsValid(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.SettingsFile = "dir/settings.cue"
	cfg.UI.ColorScheme = "neon"

	valid, errs := cfg.IsValid()
	if valid {
		t.Fatal("IsValid() = true, want false")
	}
	var ce *InvalidConfigError
	if !errors.As(errs[0], &ce) || len(ce.FieldErrors) != 2 {
		t.Fatalf("errors = %v, want two field errors", errs)
	}
	if !errors.Is(errs[0], ErrInvalidConfig) || !errors.Is(ce.FieldErrors[1], ErrInvalidUIConfig) {
		t.Errorf("error chain = %v", errs)
	}
}
