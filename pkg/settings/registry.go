// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"errors"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/iancoleman/strcase"
)

type (
	// Registry holds the registered symbols of one project: the plugin tree and
	// flat indices of variables, functions and plugins by dotted path.
	//
	// A Registry is single-writer state. Register must not run concurrently with
	// itself or with reads.
	Registry struct {
		// Variables maps variable names to values.
		Variables map[string]any
		// Functions maps dotted paths to function descriptors.
		Functions map[string]*FunctionDescriptor
		// Plugins maps dotted paths to plugin nodes.
		Plugins map[string]*PluginNode

		root     *PluginNode
		owner    reflect.Value
		dir      string
		ns       *Namespace
		logger   *slog.Logger
		failures map[string]*PluginConstructionError
	}

	// RegistryOption configures a Registry.
	RegistryOption func(*Registry)
)

// WithRoot sets the directory string variables are resolved against.
func WithRoot(dir string) RegistryOption {
	return func(r *Registry) { r.dir = dir }
}

// WithLogger sets the logger used for skipped members and plugin failures.
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry creates an empty registry whose functions and plugins are bound
// to owner.
func NewRegistry(owner any, opts ...RegistryOption) *Registry {
	r := &Registry{
		Variables: make(map[string]any),
		Functions: make(map[string]*FunctionDescriptor),
		Plugins:   make(map[string]*PluginNode),
		root:      newNode("", "", "", nil, false),
		logger:    slog.Default(),
		failures:  make(map[string]*PluginConstructionError),
	}
	if owner != nil {
		r.owner = reflect.ValueOf(owner)
	}
	for _, opt := range opts {
		opt(r)
	}
	r.ns = NewNamespace(r.logger)
	return r
}

// Root returns the root of the plugin tree. Its Functions and Plugins are the
// top-level ones.
func (r *Registry) Root() *PluginNode { return r.root }

// Namespace returns the attribute namespace kept in sync with the registry.
func (r *Registry) Namespace() *Namespace { return r.ns }

// Owner returns the value functions and plugins are bound to.
func (r *Registry) Owner() any {
	if !r.owner.IsValid() {
		return nil
	}
	return r.owner.Interface()
}

// Dir returns the directory string variables are resolved against.
func (r *Registry) Dir() string { return r.dir }

// FunctionPaths returns every registered function path, sorted.
func (r *Registry) FunctionPaths() []string { return sortedKeys(r.Functions) }

// PluginPaths returns every registered plugin path, sorted.
func (r *Registry) PluginPaths() []string { return sortedKeys(r.Plugins) }

// VariableNames returns every registered variable name, sorted.
func (r *Registry) VariableNames() []string { return sortedKeys(r.Variables) }

// Failures returns the plugins that could not be constructed, sorted by path.
func (r *Registry) Failures() []*PluginConstructionError {
	out := make([]*PluginConstructionError, 0, len(r.failures))
	for _, path := range sortedKeys(r.failures) {
		out = append(out, r.failures[path])
	}
	return out
}

// Lookup resolves a dotted path through the flat indices, falling back to the
// namespace for members that are not registered (plugin fields, map keys).
// A callable plugin resolves to its instance; its Call method is available
// from Functions.
func (r *Registry) Lookup(path string) (any, error) {
	if v, ok := r.Variables[path]; ok {
		return v, nil
	}
	if n, ok := r.Plugins[path]; ok {
		return n.Instance()
	}
	if d, ok := r.Functions[path]; ok {
		return d.callable, nil
	}
	return r.ns.Get(path)
}

// Register classifies and registers symbols. It may be called repeatedly; a
// name registered again replaces the previous entry and everything below it.
//
// Variables are registered first, then functions, classes and properties,
// each group in name order.
func (r *Registry) Register(symbols Symbols) {
	var groups [4][]string
	for _, name := range slices.Sorted(maps.Keys(symbols)) {
		if IsPrivate(name) {
			continue
		}
		if strings.Contains(name, ".") {
			r.logger.Warn("ignoring symbol with dotted name", "name", name)
			continue
		}
		kind := Classify(symbols[name])
		groups[kind] = append(groups[kind], name)
	}

	for _, name := range groups[KindVariable] {
		r.registerVariable(name, symbols[name])
	}
	for _, name := range groups[KindFunction] {
		r.registerFunction(name, asFunction(symbols[name]))
	}
	for _, name := range groups[KindClass] {
		r.registerClass(strings.ToLower(name), symbols[name])
	}
	for _, name := range groups[KindProperty] {
		r.registerProperty(name, symbols[name])
	}
}

func (r *Registry) registerVariable(name string, v any) {
	r.forget(name)
	v = r.resolvePath(v)
	r.Variables[name] = v
	r.ns.Bind(name, v)
}

// resolvePath makes a string that names an existing path under the project
// root absolute.
func (r *Registry) resolvePath(v any) any {
	s, ok := v.(string)
	if !ok || s == "" || r.dir == "" {
		return v
	}
	p := s
	if !filepath.IsAbs(p) {
		p = filepath.Join(r.dir, p)
	}
	if _, err := os.Stat(p); err != nil {
		return v
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

func (r *Registry) registerFunction(name string, f Function) {
	r.forget(name)
	d, err := describeFunc(name, f, r.owner)
	if err != nil {
		r.logger.Warn("skipping function", "function", name, "error", err)
		return
	}
	r.Functions[name] = d
	r.root.Functions[name] = d
	r.ns.Bind(name, d.callable)
}

func (r *Registry) registerClass(name string, v any) {
	ctorFn, doc := asConstructor(v)
	r.forget(name)
	ctor, typ, err := constructor(name, ctorFn, r.ownerType())
	if err != nil {
		r.fail(name, err)
		return
	}
	inst, err := construct(ctor, r.owner)
	if err != nil {
		r.fail(name, err)
		return
	}
	node := newNode(name, name, doc, typ, false)
	node.cell = &cell{node: node, value: inst, loaded: true}
	r.registerPlugin(node, r.root)
	r.ns.Bind(name, node.cell)
}

func (r *Registry) registerProperty(name string, v any) {
	ctorFn, doc := asConstructor(v)
	r.forget(name)
	ctor, typ, err := constructor(name, ctorFn, r.ownerType())
	if err != nil {
		r.fail(name, err)
		return
	}
	node := newNode(name, name, doc, typ, true)
	owner := r.owner
	node.cell = &cell{node: node, load: pluginLoader(name, func() (reflect.Value, error) {
		return construct(ctor, owner)
	})}
	r.registerPlugin(node, r.root)
	r.ns.Bind(name, node.cell)
}

// registerPlugin indexes a plugin and recursively registers its methods and
// nested plugins.
func (r *Registry) registerPlugin(node, parent *PluginNode) {
	r.Plugins[node.path] = node
	parent.Plugins[node.name] = node
	delete(r.failures, node.path)

	sample := node.sample()
	if node.doc == "" {
		node.doc = strings.TrimSpace(pluginDoc(sample))
	}
	allowed := memberFilter(sample)
	docs := methodDocs(sample)
	reqs := requiredSettings(sample)

	if m, ok := node.typ.MethodByName(callMethod); ok && allowed(strcase.ToSnake(callMethod)) {
		d, err := describeMethod(node, m, strcase.ToSnake(callMethod), lookupByMember(docs, m.Name), lookupByMember(reqs, m.Name), r.owner)
		if err == nil {
			d.name, d.path = node.name, node.path
			d.callable.name = node.path
			if d.doc == "" {
				d.doc = node.doc
			}
			node.call = d
			r.Functions[node.path] = d
			return
		}
		r.logger.Debug("skipping plugin call method", "plugin", node.path, "error", err)
	}

	for i := range node.typ.NumMethod() {
		m := node.typ.Method(i)
		local := strcase.ToSnake(m.Name)
		if reservedMethods[m.Name] || m.Name == callMethod || !allowed(local) {
			continue
		}
		d, err := describeMethod(node, m, local, lookupByMember(docs, m.Name), lookupByMember(reqs, m.Name), r.owner)
		if err != nil {
			r.logger.Debug("skipping plugin member", "plugin", node.path, "member", m.Name, "error", err)
			continue
		}
		node.Functions[local] = d
		r.Functions[d.path] = d
	}

	st := node.typ.Elem()
	for i := range st.NumField() {
		f := st.Field(i)
		tag, ok := f.Tag.Lookup("plugin")
		if !ok || !f.IsExported() {
			continue
		}
		local := tag
		if local == "" {
			local = strcase.ToSnake(f.Name)
		}
		if !allowed(local) {
			continue
		}
		path := node.path + "." + local
		if f.Type.Kind() != reflect.Pointer || f.Type.Elem().Kind() != reflect.Struct {
			r.logger.Warn("skipping nested plugin", "plugin", path, "reason", "field must be a pointer to a struct")
			continue
		}
		child := newNode(local, path, f.Tag.Get("help"), f.Type, node.lazy)
		child.cell = &cell{node: child, load: pluginLoader(path, fieldLoader(node.cell, f.Index))}
		if !node.lazy {
			if _, err := child.cell.get(); err != nil {
				r.fail(path, err)
				continue
			}
		}
		r.registerPlugin(child, node)
	}
}

// forget removes a top-level name and everything registered below it.
func (r *Registry) forget(name string) {
	prefix := name + "."
	delete(r.Variables, name)
	delete(r.Functions, name)
	delete(r.Plugins, name)
	delete(r.failures, name)
	delete(r.root.Functions, name)
	delete(r.root.Plugins, name)
	for path := range r.Functions {
		if strings.HasPrefix(path, prefix) {
			delete(r.Functions, path)
		}
	}
	for path := range r.Plugins {
		if strings.HasPrefix(path, prefix) {
			delete(r.Plugins, path)
		}
	}
	for path := range r.failures {
		if strings.HasPrefix(path, prefix) {
			delete(r.failures, path)
		}
	}
	r.ns.Unbind(name)
}

func (r *Registry) fail(path string, err error) {
	var pce *PluginConstructionError
	if !errors.As(err, &pce) {
		pce = &PluginConstructionError{Path: path, Err: err}
	}
	r.failures[path] = pce
	r.logger.Warn("plugin unavailable", "plugin", path, "error", pce.Err)
}

func (r *Registry) ownerType() reflect.Type {
	if !r.owner.IsValid() {
		return nil
	}
	return r.owner.Type()
}

// pluginLoader reports load failures as PluginConstructionError for path,
// keeping the innermost failing plugin's error as is.
func pluginLoader(path string, load func() (reflect.Value, error)) func() (reflect.Value, error) {
	return func() (reflect.Value, error) {
		v, err := load()
		if err != nil {
			var pce *PluginConstructionError
			if errors.As(err, &pce) {
				return reflect.Value{}, err
			}
			return reflect.Value{}, &PluginConstructionError{Path: path, Err: err}
		}
		return v, nil
	}
}
