// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"errors"
	"log/slog"
	"reflect"
	"strings"

	"github.com/iancoleman/strcase"
)

var errNoMember = errors.New("no such member")

// Namespace is the attribute table of one project. Top-level names are bound
// directly; deeper names are reached through the plugin they belong to.
type Namespace struct {
	attrs  map[string]any
	logger *slog.Logger
}

// NewNamespace returns an empty namespace.
func NewNamespace(logger *slog.Logger) *Namespace {
	if logger == nil {
		logger = slog.Default()
	}
	return &Namespace{attrs: make(map[string]any), logger: logger}
}

// Bind sets a top-level attribute. Dotted names are not bound; they exist only
// as members of their parent.
func (ns *Namespace) Bind(name string, value any) {
	if strings.Contains(name, ".") {
		ns.logger.Debug("not binding dotted name", "name", name)
		return
	}
	ns.attrs[name] = value
}

// Unbind removes a top-level attribute.
func (ns *Namespace) Unbind(name string) {
	delete(ns.attrs, name)
}

// Names returns the bound top-level names, sorted.
func (ns *Namespace) Names() []string { return sortedKeys(ns.attrs) }

// Has reports whether path resolves. Evaluation errors count as present.
func (ns *Namespace) Has(path string) bool {
	_, err := ns.Get(path)
	return !errors.Is(err, ErrUndefinedPath)
}

// Get resolves a dotted path segment by segment.
//
// A missing segment yields an *UndefinedPathError. An error raised while
// evaluating an existing member, such as a lazy plugin whose constructor fails
// or a Getter returning an error, is returned unchanged.
func (ns *Namespace) Get(path string) (any, error) {
	segments := strings.Split(path, ".")
	cur, ok := ns.attrs[segments[0]]
	if !ok {
		return nil, &UndefinedPathError{Path: path, Segment: segments[0]}
	}
	for _, seg := range segments[1:] {
		next, err := member(cur, seg)
		if errors.Is(err, errNoMember) {
			return nil, &UndefinedPathError{Path: path, Segment: seg}
		}
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return resolve(cur)
}

// variable returns a top-level attribute that is neither a function nor a
// plugin.
func (ns *Namespace) variable(name string) (any, bool) {
	switch v := ns.attrs[name].(type) {
	case nil, *cell, *Callable:
		return nil, false
	default:
		return v, true
	}
}

// resolve materialises a plugin cell into its instance.
func resolve(v any) (any, error) {
	c, ok := v.(*cell)
	if !ok {
		return v, nil
	}
	inst, err := c.get()
	if err != nil {
		return nil, err
	}
	return inst.Interface(), nil
}

func member(obj any, name string) (any, error) {
	if c, ok := obj.(*cell); ok {
		if d, ok := c.node.Functions[name]; ok {
			return d.callable, nil
		}
		if child, ok := c.node.Plugins[name]; ok {
			return child.cell, nil
		}
		v, err := resolve(c)
		if err != nil {
			return nil, err
		}
		obj = v
	}
	if _, ok := obj.(*Callable); ok {
		return nil, errNoMember
	}

	if g, ok := obj.(Getter); ok {
		v, found, err := g.Lookup(name)
		if err != nil {
			return nil, err
		}
		if found {
			return v, nil
		}
	}
	return reflectMember(reflect.ValueOf(obj), name)
}

// reflectMember finds an exported field, map entry or method named name (or
// whose snake_case form is name).
func reflectMember(rv reflect.Value, name string) (any, error) {
	if !rv.IsValid() {
		return nil, errNoMember
	}
	for i := range rv.NumMethod() {
		m := rv.Type().Method(i)
		if m.Name == name || strcase.ToSnake(m.Name) == name {
			return rv.Method(i).Interface(), nil
		}
	}
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, errNoMember
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Struct:
		t := rv.Type()
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			if _, isPlugin := f.Tag.Lookup("plugin"); isPlugin {
				continue
			}
			if f.Name == name || strcase.ToSnake(f.Name) == name {
				return rv.Field(i).Interface(), nil
			}
		}
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, errNoMember
		}
		v := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if v.IsValid() {
			return v.Interface(), nil
		}
	}
	return nil, errNoMember
}
