// SPDX-License-Identifier: MPL-2.0

package project

import (
	"log/slog"
	"maps"

	"github.com/modelmanager/modelmanager/pkg/settings"
	"github.com/modelmanager/modelmanager/pkg/settingsfile"
)

type (
	// Option configures a Project.
	Option func(*options)

	options struct {
		module       settings.Symbols
		overrides    map[string]any
		fileName     string
		logger       *slog.Logger
		loaderOpts   []settingsfile.LoaderOption
		optionalFile bool
	}
)

// WithModule sets the compiled configuration module.
func WithModule(module settings.Symbols) Option {
	return func(o *options) { o.module = module.Clone() }
}

// WithOverrides sets values that take precedence over the module and the
// settings file.
func WithOverrides(overrides map[string]any) Option {
	return func(o *options) {
		if o.overrides == nil {
			o.overrides = make(map[string]any, len(overrides))
		}
		maps.Copy(o.overrides, overrides)
	}
}

// WithSettingsFile sets the settings file name searched for under the root.
func WithSettingsFile(name string) Option {
	return func(o *options) { o.fileName = name }
}

// WithLogger sets the logger shared by the loader, registry and invoker.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithLoaderOptions passes extra options to the settings loader, e.g. a
// custom evaluator.
func WithLoaderOptions(opts ...settingsfile.LoaderOption) Option {
	return func(o *options) { o.loaderOpts = append(o.loaderOpts, opts...) }
}

// WithOptionalSettingsFile makes a missing settings file non-fatal; the
// project is then built from the module and overrides alone.
func WithOptionalSettingsFile() Option {
	return func(o *options) { o.optionalFile = true }
}
