// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"reflect"
	"slices"
	"strings"
)

// synopsisWidth bounds the one-line synopsis used in compact listings.
const synopsisWidth = 45

type (
	// OptionalArg is an optional parameter and its default value.
	OptionalArg struct {
		Name    string
		Default any
		Type    reflect.Type
		Help    string
	}

	// FunctionDescriptor is the immutable signature metadata of one registered
	// function or plugin method.
	FunctionDescriptor struct {
		name     string
		path     string
		method   string
		doc      string
		params   []param
		requires []string
		owner    *PluginNode
		callable *Callable
	}
)

// Describe builds the descriptor of a free function registered under name.
// owner is the project the function is bound to; a parameter whose type
// accepts it is the implicit owner slot and is excluded from the descriptor.
func Describe(name string, fn any, owner any) (*FunctionDescriptor, error) {
	f := asFunction(fn)
	var ov reflect.Value
	if owner != nil {
		ov = reflect.ValueOf(owner)
	}
	return describeFunc(name, f, ov)
}

func describeFunc(name string, f Function, owner reflect.Value) (*FunctionDescriptor, error) {
	if f.Fn == nil {
		return nil, &InvalidCallableError{Name: name, Reason: "nil function"}
	}
	fv := reflect.ValueOf(f.Fn)
	var ownerType reflect.Type
	if owner.IsValid() {
		ownerType = owner.Type()
	}
	shape, err := inspectFunc(name, fv.Type(), 0, ownerType)
	if err != nil {
		return nil, err
	}
	d, err := newDescriptor(name, name, name, f.Doc, f.Requires, shape)
	if err != nil {
		return nil, err
	}
	d.callable = &Callable{name: name, fn: fv, owner: owner, shape: shape}
	return d, nil
}

func describeMethod(node *PluginNode, m reflect.Method, local, doc string, requires []string, owner reflect.Value) (*FunctionDescriptor, error) {
	path := node.path + "." + local
	var ownerType reflect.Type
	if owner.IsValid() {
		ownerType = owner.Type()
	}
	shape, err := inspectFunc(path, m.Type, 1, ownerType)
	if err != nil {
		return nil, err
	}
	d, err := newDescriptor(local, path, local, doc, requires, shape)
	if err != nil {
		return nil, err
	}
	d.owner = node
	d.callable = &Callable{name: path, fn: m.Func, receiver: node.cell.get, owner: owner, shape: shape}
	return d, nil
}

func newDescriptor(name, path, method, doc string, requires []string, shape funcShape) (*FunctionDescriptor, error) {
	d := &FunctionDescriptor{
		name:     name,
		path:     path,
		method:   method,
		doc:      strings.TrimSpace(doc),
		requires: slices.Clone(requires),
	}
	if shape.argsType != nil {
		params, err := parseParams(path, shape.argsType)
		if err != nil {
			return nil, err
		}
		d.params = params
	}
	return d, nil
}

// Name returns the local name of the function.
func (d *FunctionDescriptor) Name() string { return d.name }

// Path returns the dotted path the function is registered under.
func (d *FunctionDescriptor) Path() string { return d.path }

// Doc returns the function's help text.
func (d *FunctionDescriptor) Doc() string { return d.doc }

// Requires returns the project variables the function declares it reads.
func (d *FunctionDescriptor) Requires() []string { return slices.Clone(d.requires) }

// Owner returns the plugin the function is a method of, or nil.
func (d *FunctionDescriptor) Owner() *PluginNode { return d.owner }

// IsMethod reports whether the function is a plugin method.
func (d *FunctionDescriptor) IsMethod() bool { return d.owner != nil }

// OwnerBound reports whether the project or a plugin instance is passed to the
// function implicitly.
func (d *FunctionDescriptor) OwnerBound() bool {
	return d.owner != nil || d.callable.shape.hasOwner
}

// Callable returns the bound callable shared with the namespace.
func (d *FunctionDescriptor) Callable() *Callable { return d.callable }

// Positional returns the names of the required parameters in declared order.
func (d *FunctionDescriptor) Positional() []string {
	var out []string
	for _, p := range d.params {
		if p.kind == paramRequired {
			out = append(out, p.name)
		}
	}
	return out
}

// Optional returns the optional parameters and their defaults in declared order.
func (d *FunctionDescriptor) Optional() []OptionalArg {
	var out []OptionalArg
	for _, p := range d.params {
		if p.kind == paramOptional {
			out = append(out, OptionalArg{Name: p.name, Default: p.def.Interface(), Type: p.typ, Help: p.help})
		}
	}
	return out
}

// HasVarArgs reports whether extra positional arguments are collected.
func (d *FunctionDescriptor) HasVarArgs() bool { return d.VarArgs() != "" }

// VarArgs returns the name of the varargs parameter, or "".
func (d *FunctionDescriptor) VarArgs() string { return d.nameOf(paramVarArgs) }

// HasKwArgs reports whether unknown keyword arguments are collected.
func (d *FunctionDescriptor) HasKwArgs() bool { return d.KwArgs() != "" }

// KwArgs returns the name of the kwargs parameter, or "".
func (d *FunctionDescriptor) KwArgs() string { return d.nameOf(paramKwArgs) }

// ArgHelp returns the help text of the named parameter.
func (d *FunctionDescriptor) ArgHelp(name string) string {
	if p, ok := d.param(name); ok {
		return p.help
	}
	return ""
}

// ArgType returns the Go type of the named parameter.
func (d *FunctionDescriptor) ArgType(name string) reflect.Type {
	if p, ok := d.param(name); ok {
		return p.typ
	}
	return nil
}

// Synopsis returns the first line of the doc, shortened for listings.
func (d *FunctionDescriptor) Synopsis() string {
	first, _, _ := strings.Cut(d.doc, "\n")
	first = strings.TrimSpace(first)
	if r := []rune(first); len(r) > synopsisWidth {
		return string(r[:synopsisWidth-2]) + "..."
	}
	return first
}

// Signature renders the call signature, e.g. greet(name, count=1, rest..., opts=k=v...).
func (d *FunctionDescriptor) Signature() string {
	parts := make([]string, 0, len(d.params))
	for _, p := range d.params {
		switch p.kind {
		case paramRequired:
			parts = append(parts, p.name)
		case paramOptional:
			parts = append(parts, p.name+"="+FormatLiteral(p.def.Interface()))
		case paramVarArgs:
			parts = append(parts, p.name+"...")
		case paramKwArgs:
			parts = append(parts, p.name+"=k=v...")
		}
	}
	return d.name + "(" + strings.Join(parts, ", ") + ")"
}

// settingKey returns the project variable that overrides the default of param.
func (d *FunctionDescriptor) settingKey(param string) string {
	if d.owner != nil {
		return strings.ToLower(d.owner.typ.Elem().Name()) + "_" + d.method + "_" + param
	}
	return d.name + "_" + param
}

func (d *FunctionDescriptor) param(name string) (param, bool) {
	for _, p := range d.params {
		if p.name == name {
			return p, true
		}
	}
	return param{}, false
}

func (d *FunctionDescriptor) nameOf(kind paramKind) string {
	for _, p := range d.params {
		if p.kind == kind {
			return p.name
		}
	}
	return ""
}
