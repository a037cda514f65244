// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultSettingsFile is the settings file searched for by default.
	DefaultSettingsFile = "settings.cue"
	// DefaultResourceDir is the directory "setup" creates.
	DefaultResourceDir = ".mm"
	// DefaultDebounce is the default watch debounce.
	DefaultDebounce = "500ms"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidWatchConfig is the sentinel error wrapped by InvalidWatchConfigError.
	ErrInvalidWatchConfig = errors.New("invalid watch config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidWatchConfigError is returned when a WatchConfig has invalid fields.
	InvalidWatchConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// SettingsFile is the settings file name searched for in a project.
		SettingsFile string `json:"settings_file" mapstructure:"settings_file"`
		// ResourceDir is the directory "setup" creates in a project.
		ResourceDir string `json:"resource_dir" mapstructure:"resource_dir"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
		// CLI configures command execution output
		CLI CLIConfig `json:"cli" mapstructure:"cli"`
		// Watch configures "modelmanager watch"
		Watch WatchConfig `json:"watch" mapstructure:"watch"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables debug logging and stack traces
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// CLIConfig configures how generated commands report calls and failures.
	CLIConfig struct {
		// Trace prints ">>> name(args)" to stderr before each call
		Trace bool `json:"trace" mapstructure:"trace"`
		// ExitOnFailure makes a failed call exit with status 1
		ExitOnFailure bool `json:"exit_on_failure" mapstructure:"exit_on_failure"`
	}

	// WatchConfig configures file watching.
	WatchConfig struct {
		// Debounce is a Go duration string
		Debounce string `json:"debounce" mapstructure:"debounce"`
		// Patterns are doublestar globs of files to watch; empty means all
		Patterns []string `json:"patterns" mapstructure:"patterns"`
		// Ignore are doublestar globs of files to ignore
		Ignore []string `json:"ignore" mapstructure:"ignore"`
	}
)

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// IsValid returns whether the UIConfig has valid fields.
func (c UIConfig) IsValid() (bool, []error) {
	if valid, errs := c.ColorScheme.IsValid(); !valid {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidUIConfig and the field errors for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() []error {
	return append([]error{ErrInvalidUIConfig}, e.FieldErrors...)
}

// DebounceDuration parses Debounce. It returns the default when Debounce is
// empty.
func (c WatchConfig) DebounceDuration() (time.Duration, error) {
	s := c.Debounce
	if s == "" {
		s = DefaultDebounce
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("debounce: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("debounce: negative duration %s", s)
	}
	return d, nil
}

// IsValid returns whether the debounce parses and every glob is well formed.
func (c WatchConfig) IsValid() (bool, []error) {
	var errs []error
	if _, err := c.DebounceDuration(); err != nil {
		errs = append(errs, err)
	}
	for _, p := range slices.Concat(c.Patterns, c.Ignore) {
		if strings.TrimSpace(p) == "" || !doublestar.ValidatePattern(filepath.ToSlash(p)) {
			errs = append(errs, fmt.Errorf("invalid glob pattern %q", p))
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidWatchConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidWatchConfigError.
func (e *InvalidWatchConfigError) Error() string {
	return fmt.Sprintf("invalid watch config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidWatchConfig and the field errors for errors.Is() compatibility.
func (e *InvalidWatchConfigError) Unwrap() []error {
	return append([]error{ErrInvalidWatchConfig}, e.FieldErrors...)
}

// IsValid returns whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if strings.TrimSpace(c.SettingsFile) == "" || strings.ContainsAny(c.SettingsFile, `/\`) {
		errs = append(errs, fmt.Errorf("settings_file %q must be a plain file name", c.SettingsFile))
	}
	if strings.TrimSpace(c.ResourceDir) == "" {
		errs = append(errs, errors.New("resource_dir must not be empty"))
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Watch.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig and the field errors for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		SettingsFile: DefaultSettingsFile,
		ResourceDir:  DefaultResourceDir,
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
		CLI: CLIConfig{
			Trace:         true,
			ExitOnFailure: false,
		},
		Watch: WatchConfig{
			Debounce: DefaultDebounce,
			Patterns: []string{},
			Ignore:   []string{},
		},
	}
}
