// SPDX-License-Identifier: MPL-2.0

package settingsfile

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"

	"github.com/modelmanager/modelmanager/pkg/cueutil"
	"github.com/modelmanager/modelmanager/pkg/settings"
)

// DefaultFileName is the settings file searched for when none is configured.
const DefaultFileName = "settings.cue"

type (
	// Loader locates, evaluates and merges settings. Nothing is cached: every
	// Load reads the file again.
	Loader struct {
		fileName    string
		maxFileSize int64
		evaluators  map[string]Evaluator
		logger      *slog.Logger
	}

	// LoaderOption configures a Loader.
	LoaderOption func(*Loader)

	// Result is the outcome of a Load.
	Result struct {
		// Symbols is the module, then the file, then the overrides, merged.
		Symbols settings.Symbols
		// Path is the settings file that was evaluated.
		Path string
		// FileKeys are the public names the settings file defines, sorted.
		FileKeys []string
		// OverrideKeys are the names supplied as overrides, sorted.
		OverrideKeys []string
	}
)

// WithFileName sets the settings file name to search for.
func WithFileName(name string) LoaderOption {
	return func(l *Loader) {
		if name != "" {
			l.fileName = name
		}
	}
}

// WithLogger sets the logger used for discovery warnings.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithEvaluator registers e for files with extension ext (including the dot).
func WithEvaluator(ext string, e Evaluator) LoaderOption {
	return func(l *Loader) {
		l.evaluators[ext] = e
	}
}

// WithMaxFileSize overrides the settings file size limit.
func WithMaxFileSize(size int64) LoaderOption {
	return func(l *Loader) {
		l.maxFileSize = size
	}
}

// NewLoader returns a loader with the default evaluators.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		fileName:    DefaultFileName,
		maxFileSize: cueutil.DefaultMaxFileSize,
		evaluators:  defaultEvaluators(),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// FileName returns the settings file name the loader searches for.
func (l *Loader) FileName() string { return l.fileName }

// Find locates the settings file under root. When several directories hold
// one, a warning is logged and the first in name order is used.
func (l *Loader) Find(root string) (string, error) {
	found, err := Locate(root, l.fileName)
	if err != nil {
		return "", err
	}
	if len(found) > 1 {
		l.logger.Warn("multiple settings files found, using the first", "using", found[0], "ignored", found[1:])
	}
	return found[0], nil
}

// Load finds and evaluates the settings file under root and merges module,
// file values and overrides, later sources winning.
func (l *Loader) Load(ctx context.Context, root string, module settings.Symbols, overrides map[string]any) (*Result, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load settings canceled: %w", ctx.Err())
	default:
	}

	path, err := l.Find(root)
	if err != nil {
		return nil, err
	}
	fileSymbols, err := l.Evaluate(ctx, path, root)
	if err != nil {
		return nil, err
	}

	return &Result{
		Symbols:      module.Merge(fileSymbols, overrides),
		Path:         path,
		FileKeys:     slices.Sorted(maps.Keys(fileSymbols)),
		OverrideKeys: slices.Sorted(maps.Keys(overrides)),
	}, nil
}

// Evaluate evaluates a single settings file. Private names are dropped.
func (l *Loader) Evaluate(ctx context.Context, path, root string) (settings.Symbols, error) {
	ext := extOf(path)
	ev, ok := l.evaluators[ext]
	if !ok {
		return nil, &EvalError{Path: path, Err: fmt.Errorf("%w %q", ErrUnsupportedFormat, ext)}
	}

	src := Source{Path: path, Root: root}
	if !rawEvaluators[ext] {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &EvalError{Path: path, Err: err}
		}
		if err := cueutil.CheckFileSize(data, l.maxFileSize, path); err != nil {
			return nil, &EvalError{Path: path, Err: err}
		}
		src.Data = data
	}

	values, err := ev.Evaluate(ctx, src)
	if err != nil {
		return nil, &EvalError{Path: path, Err: err}
	}
	l.logger.Debug("evaluated settings file", "path", path, "names", len(values))
	return settings.Symbols(values).Public(), nil
}
