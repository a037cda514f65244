// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/iancoleman/strcase"
)

// callMethod is the method registered at the plugin's own path.
const callMethod = "Call"

// reservedMethods are never registered as plugin functions.
var reservedMethods = map[string]bool{
	"PluginDoc":        true,
	"PluginMembers":    true,
	"MethodDocs":       true,
	"RequiredSettings": true,
	"Lookup":           true,
	"String":           true,
	"GoString":         true,
	"Error":            true,
	"MarshalJSON":      true,
	"MarshalText":      true,
}

var errNilPlugin = errors.New("not initialised")

type (
	// Documented plugins provide their own help text.
	Documented interface {
		PluginDoc() string
	}

	// MemberLister plugins restrict registration to the listed members.
	// Names may be given as Go method or field names or in snake_case.
	MemberLister interface {
		PluginMembers() []string
	}

	// MethodDocumenter plugins provide help text per method, keyed by Go
	// method name or snake_case name.
	MethodDocumenter interface {
		MethodDocs() map[string]string
	}

	// SettingsRequirer plugins declare the project variables each method reads,
	// keyed by Go method name or snake_case name.
	SettingsRequirer interface {
		RequiredSettings() map[string][]string
	}

	// Getter plugins resolve members dynamically. A false result means the
	// member does not exist; an error means it exists but failed to evaluate.
	Getter interface {
		Lookup(name string) (any, bool, error)
	}

	// PluginNode is one plugin in the registry tree.
	PluginNode struct {
		// Functions are the plugin's methods keyed by local name.
		Functions map[string]*FunctionDescriptor
		// Plugins are the nested plugins keyed by local name.
		Plugins map[string]*PluginNode

		name string
		path string
		doc  string
		typ  reflect.Type
		lazy bool
		cell *cell
		call *FunctionDescriptor
	}

	// cell holds a plugin instance, constructing it on first use.
	cell struct {
		node   *PluginNode
		load   func() (reflect.Value, error)
		value  reflect.Value
		loaded bool
	}
)

func newNode(name, path, doc string, typ reflect.Type, lazy bool) *PluginNode {
	n := &PluginNode{
		Functions: make(map[string]*FunctionDescriptor),
		Plugins:   make(map[string]*PluginNode),
		name:      name,
		path:      path,
		doc:       strings.TrimSpace(doc),
		typ:       typ,
		lazy:      lazy,
	}
	return n
}

func (c *cell) get() (reflect.Value, error) {
	if c.loaded {
		return c.value, nil
	}
	v, err := c.load()
	if err != nil {
		return reflect.Value{}, err
	}
	c.value, c.loaded = v, true
	return v, nil
}

// Name returns the local name of the plugin.
func (n *PluginNode) Name() string { return n.name }

// Path returns the dotted path of the plugin.
func (n *PluginNode) Path() string { return n.path }

// Doc returns the plugin's help text.
func (n *PluginNode) Doc() string { return n.doc }

// Type returns the plugin's pointer type.
func (n *PluginNode) Type() reflect.Type { return n.typ }

// Lazy reports whether the plugin is constructed on first access.
func (n *PluginNode) Lazy() bool { return n.lazy }

// Loaded reports whether the plugin instance exists.
func (n *PluginNode) Loaded() bool { return n.cell != nil && n.cell.loaded }

// Call returns the function registered at the plugin's own path, or nil.
func (n *PluginNode) Call() *FunctionDescriptor { return n.call }

// Instance returns the plugin instance, constructing a lazy plugin if needed.
func (n *PluginNode) Instance() (any, error) {
	if n.cell == nil {
		return nil, &UndefinedPathError{Path: n.path}
	}
	v, err := n.cell.get()
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// FunctionNames returns the local names of the plugin's functions, sorted.
func (n *PluginNode) FunctionNames() []string { return sortedKeys(n.Functions) }

// PluginNames returns the local names of nested plugins, sorted.
func (n *PluginNode) PluginNames() []string { return sortedKeys(n.Plugins) }

// sample returns a value to query the plugin's optional interfaces on: the
// instance when it exists, otherwise a zero value of its type.
func (n *PluginNode) sample() any {
	if n.Loaded() {
		return n.cell.value.Interface()
	}
	return reflect.New(n.typ.Elem()).Interface()
}

// constructor validates a plugin constructor and returns it with its result type.
func constructor(name string, ctor any, ownerType reflect.Type) (reflect.Value, reflect.Type, error) {
	invalid := func(format string, args ...any) (reflect.Value, reflect.Type, error) {
		return reflect.Value{}, nil, &InvalidCallableError{Name: name, Reason: fmt.Sprintf(format, args...)}
	}
	if ctor == nil {
		return invalid("nil constructor")
	}
	cv := reflect.ValueOf(ctor)
	ct := cv.Type()
	if ct.Kind() != reflect.Func {
		return invalid("constructor must be a function, got %s", ct)
	}
	switch ct.NumIn() {
	case 0:
	case 1:
		if ownerType == nil || !ownerType.AssignableTo(ct.In(0)) {
			return invalid("constructor parameter %s does not accept the owner", ct.In(0))
		}
	default:
		return invalid("constructor takes at most the owner as argument")
	}
	switch {
	case ct.NumOut() == 1:
	case ct.NumOut() == 2 && ct.Out(1) == errorType:
	default:
		return invalid("constructor must return *T or (*T, error)")
	}
	out := ct.Out(0)
	if out.Kind() != reflect.Pointer || out.Elem().Kind() != reflect.Struct {
		return invalid("constructor must return a pointer to a struct, got %s", out)
	}
	return cv, out, nil
}

// construct calls a validated constructor, turning errors, nil results and
// panics into an error.
func construct(ctor reflect.Value, owner reflect.Value) (inst reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("constructor panicked: %v", r)
		}
	}()
	var in []reflect.Value
	if ctor.Type().NumIn() == 1 {
		in = []reflect.Value{owner}
	}
	out := ctor.Call(in)
	if len(out) == 2 && !out[1].IsNil() {
		return reflect.Value{}, out[1].Interface().(error)
	}
	if out[0].IsNil() {
		return reflect.Value{}, errNilPlugin
	}
	return out[0], nil
}

// fieldLoader reads a nested plugin field from its parent instance.
func fieldLoader(parent *cell, index []int) func() (reflect.Value, error) {
	return func() (reflect.Value, error) {
		pv, err := parent.get()
		if err != nil {
			return reflect.Value{}, err
		}
		f := pv.Elem().FieldByIndex(index)
		if f.IsNil() {
			return reflect.Value{}, errNilPlugin
		}
		return f, nil
	}
}

// memberFilter returns a predicate over snake_case member names built from the
// plugin's allow-list, or one that accepts everything.
func memberFilter(sample any) func(string) bool {
	ml, ok := sample.(MemberLister)
	if !ok {
		return func(string) bool { return true }
	}
	members, err := safeCall(ml.PluginMembers)
	if err != nil || members == nil {
		return func(string) bool { return true }
	}
	allowed := make(map[string]bool, len(members))
	for _, m := range members {
		allowed[strcase.ToSnake(m)] = true
	}
	return func(name string) bool { return allowed[name] }
}

func methodDocs(sample any) map[string]string {
	if md, ok := sample.(MethodDocumenter); ok {
		if docs, err := safeCall(md.MethodDocs); err == nil {
			return docs
		}
	}
	return nil
}

func requiredSettings(sample any) map[string][]string {
	if rs, ok := sample.(SettingsRequirer); ok {
		if reqs, err := safeCall(rs.RequiredSettings); err == nil {
			return reqs
		}
	}
	return nil
}

func pluginDoc(sample any) string {
	if d, ok := sample.(Documented); ok {
		if doc, err := safeCall(d.PluginDoc); err == nil {
			return doc
		}
	}
	return ""
}

// lookupByMember returns m[goName] or m[snake_case(goName)].
func lookupByMember[V any](m map[string]V, goName string) V {
	if v, ok := m[goName]; ok {
		return v
	}
	return m[strcase.ToSnake(goName)]
}

// safeCall calls a type-level query that may run on a zero-value instance.
func safeCall[T any](f func() T) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return f(), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
