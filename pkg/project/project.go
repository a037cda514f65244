// SPDX-License-Identifier: MPL-2.0

package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"

	"github.com/modelmanager/modelmanager/internal/issue"
	"github.com/modelmanager/modelmanager/pkg/settings"
	"github.com/modelmanager/modelmanager/pkg/settingsfile"
)

// Project is one project directory with its configuration module loaded.
//
// A Project is single-writer state: Load, Reload and Settings must not run
// concurrently with each other or with calls into the project.
type Project struct {
	dir      string
	opts     options
	loader   *settingsfile.Loader
	logger   *slog.Logger
	registry *settings.Registry
	invoker  *settings.Invoker

	// symbols is the merged module, settings file and overrides of the last
	// load, plus values set through Settings.
	symbols      settings.Symbols
	settingsFile string
}

// New creates the project rooted at dir and loads it.
func New(ctx context.Context, dir string, opts ...Option) (*Project, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve project directory %q: %w", dir, err)
	}

	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	loaderOpts := append([]settingsfile.LoaderOption{
		settingsfile.WithFileName(o.fileName),
		settingsfile.WithLogger(o.logger),
	}, o.loaderOpts...)

	p := &Project{
		dir:    abs,
		opts:   o,
		loader: settingsfile.NewLoader(loaderOpts...),
		logger: o.logger,
	}
	if err := p.Load(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// Load reads the settings file again and rebuilds the registry, namespace
// and invoker from scratch.
func (p *Project) Load(ctx context.Context) error {
	res, err := p.loader.Load(ctx, p.dir, p.opts.module, p.opts.overrides)
	switch {
	case errors.Is(err, settingsfile.ErrConfigNotFound) && p.opts.optionalFile:
		res = &settingsfile.Result{
			Symbols:      p.opts.module.Merge(p.opts.overrides),
			OverrideKeys: slices.Sorted(maps.Keys(p.opts.overrides)),
		}
	case err != nil:
		return p.loadError(err)
	}

	registry := settings.NewRegistry(p, settings.WithRoot(p.dir), settings.WithLogger(p.logger))
	registry.Register(res.Symbols)

	p.registry = registry
	p.invoker = settings.NewInvoker(registry.Namespace(), p.logger)
	p.symbols = res.Symbols
	p.settingsFile = res.Path

	p.logger.Debug("project loaded",
		"dir", p.dir,
		"settings", res.Path,
		"variables", len(registry.Variables),
		"functions", len(registry.Functions),
		"plugins", len(registry.Plugins))
	return nil
}

// Reload adds overrides to the project's overrides and loads the project
// again. Overrides given to New or to earlier reloads stay in effect.
func (p *Project) Reload(ctx context.Context, overrides map[string]any) error {
	if len(overrides) > 0 {
		if p.opts.overrides == nil {
			p.opts.overrides = make(map[string]any, len(overrides))
		}
		maps.Copy(p.opts.overrides, overrides)
	}
	return p.Load(ctx)
}

// Settings registers kv on top of the loaded project without reading the
// settings file again. The values also survive later reloads.
func (p *Project) Settings(kv map[string]any) {
	if len(kv) == 0 {
		return
	}
	if p.opts.overrides == nil {
		p.opts.overrides = make(map[string]any, len(kv))
	}
	maps.Copy(p.opts.overrides, kv)
	p.symbols = p.symbols.Merge(kv)
	p.registry.Register(kv)
}

// Clone returns a new project rooted at dir built from a copy of this
// project's merged symbols, with overrides on top. The clone does not need a
// settings file of its own; one found under dir is merged in. Path-valued
// variables resolve against dir.
func (p *Project) Clone(ctx context.Context, dir string, overrides map[string]any) (*Project, error) {
	return New(ctx, dir,
		WithModule(p.symbols),
		WithOverrides(overrides),
		WithSettingsFile(p.loader.FileName()),
		WithLogger(p.logger),
		WithLoaderOptions(p.opts.loaderOpts...),
		WithOptionalSettingsFile(),
	)
}

// Dir returns the absolute project root.
func (p *Project) Dir() string { return p.dir }

// SettingsFile returns the settings file of the last load. It is empty when
// the project was built without one.
func (p *Project) SettingsFile() string { return p.settingsFile }

// Registry returns the project's registry.
func (p *Project) Registry() *settings.Registry { return p.registry }

// Logger returns the project's logger.
func (p *Project) Logger() *slog.Logger { return p.logger }

// Symbols returns a copy of the merged symbols the project was built from.
func (p *Project) Symbols() settings.Symbols { return p.symbols.Clone() }

// Get resolves a dotted path: a variable, a function's callable, a plugin
// instance or any attribute reachable from them.
func (p *Project) Get(path string) (any, error) {
	return p.registry.Namespace().Get(path)
}

// Function returns the descriptor registered at path.
func (p *Project) Function(path string) (*settings.FunctionDescriptor, error) {
	d, ok := p.registry.Functions[path]
	if !ok {
		return nil, &settings.UndefinedPathError{Path: path, Segment: path}
	}
	return d, nil
}

// Call invokes the function at path with typed positional arguments.
func (p *Project) Call(ctx context.Context, path string, args ...any) (any, error) {
	return p.CallWith(ctx, path, args, nil)
}

// CallWith invokes the function at path with typed positional and keyword
// arguments.
func (p *Project) CallWith(ctx context.Context, path string, args []any, kwargs map[string]any) (any, error) {
	d, err := p.Function(path)
	if err != nil {
		return nil, err
	}
	return p.invoker.Call(ctx, d, args, kwargs)
}

// Invoke invokes the function at path with raw command-line tokens.
func (p *Project) Invoke(ctx context.Context, path string, positional []string, options map[string]string) (any, error) {
	d, err := p.Function(path)
	if err != nil {
		return nil, err
	}
	return p.invoker.Invoke(ctx, d, positional, options)
}

// Configured reports whether every setting the function at path declares it
// needs is a project variable. Functions that declare nothing are configured.
func (p *Project) Configured(path string) (bool, error) {
	d, err := p.Function(path)
	if err != nil {
		return false, err
	}
	return len(p.Missing(d)) == 0, nil
}

// Missing returns the settings d requires that are not project variables.
func (p *Project) Missing(d *settings.FunctionDescriptor) []string {
	var missing []string
	for _, key := range d.Requires() {
		if _, ok := p.registry.Variables[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

func (p *Project) loadError(err error) error {
	var nf *settingsfile.NotFoundError
	if errors.As(err, &nf) {
		return issue.NewErrorContext().
			WithOperation("load project").
			WithResource(p.dir).
			WithIssue(issue.SettingsNotFoundId).
			WithSuggestions(
				fmt.Sprintf("Run 'modelmanager setup' in %s to create a starter %s", p.dir, nf.FileName),
				"Pass -p/--projectdir to point at another project",
			).
			Wrap(err).
			BuildError()
	}

	var ee *settingsfile.EvalError
	if errors.As(err, &ee) && filepath.Ext(ee.Path) == ".so" {
		return issue.NewErrorContext().
			WithOperation("open Go plugin module").
			WithResource(ee.Path).
			WithIssue(issue.GoPluginUnsupportedId).
			WithSuggestion("Rebuild the module with the same Go version and dependencies as this binary").
			Wrap(err).
			BuildError()
	}
	if errors.As(err, &ee) {
		return issue.NewErrorContext().
			WithOperation("evaluate project settings").
			WithResource(ee.Path).
			WithIssue(issue.SettingsParseErrorId).
			WithSuggestion("Fix the reported location and run the command again").
			Wrap(err).
			BuildError()
	}
	return fmt.Errorf("load project %s: %w", p.dir, err)
}
