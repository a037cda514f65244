// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// defaultDebounce is the quiet period used when Config.Debounce is not set.
const defaultDebounce = 500 * time.Millisecond

// ErrInvalidConfig is wrapped by every Config validation error.
var ErrInvalidConfig = errors.New("invalid watch config")

// defaultIgnores are never watched: VCS metadata, editor swap and backup
// files, OS metadata and Go build output.
var defaultIgnores = []string{
	"**/.git/**",
	"**/.hg/**",
	"**/.svn/**",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.DS_Store",
	"**/*.test",
}

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Patterns select the files that trigger the callback, e.g.
		// "**/*.cue". Empty watches every file that is not ignored.
		Patterns []string

		// Ignore are globs of files that never trigger the callback, in
		// addition to the default ignores.
		Ignore []string

		// Debounce is the quiet period after the last event before the
		// callback fires. Zero or negative values use 500ms.
		Debounce time.Duration

		// ClearScreen clears the terminal on Stdout before each callback.
		ClearScreen bool

		// RunOnStart calls OnChange once with no changed paths as soon as
		// Run starts.
		RunOnStart bool

		// BaseDir is the directory watched recursively. Empty means the
		// working directory. Changed paths are reported relative to it.
		BaseDir string

		// OnChange receives the sorted, deduplicated changed paths. Its error
		// is logged and does not stop the watcher.
		OnChange func(ctx context.Context, changed []string) error

		// Stdout receives the clear-screen sequence. nil means os.Stdout.
		Stdout io.Writer

		// Logger receives watcher diagnostics. nil means slog.Default().
		Logger *slog.Logger
	}

	// InvalidPatternError reports a glob that doublestar cannot parse.
	InvalidPatternError struct {
		// Kind is "watch" or "ignore".
		Kind    string
		Pattern string
	}
)

// Error implements the error interface.
func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid %s pattern %q", e.Kind, e.Pattern)
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidPatternError) Unwrap() error { return ErrInvalidConfig }

// Validate checks every pattern. Empty and malformed globs are rejected.
func (c Config) Validate() error {
	var errs []error
	for _, group := range []struct {
		kind     string
		patterns []string
	}{{"watch", c.Patterns}, {"ignore", c.Ignore}} {
		for _, p := range group.patterns {
			if strings.TrimSpace(p) == "" || !doublestar.ValidatePattern(p) {
				errs = append(errs, &InvalidPatternError{Kind: group.kind, Pattern: p})
			}
		}
	}
	return errors.Join(errs...)
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	out := make([]string, len(defaultIgnores))
	copy(out, defaultIgnores)
	return out
}
