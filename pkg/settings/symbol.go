// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"maps"
	"reflect"
	"strings"
)

// KindVariable and the other SymbolKind values are the closed set of symbol
// classifications.
const (
	KindVariable SymbolKind = iota
	KindFunction
	KindClass
	KindProperty
)

type (
	// SymbolKind classifies a module symbol.
	SymbolKind int

	// Symbols is a module: public names mapped to values, functions and plugins.
	Symbols map[string]any

	// Function is a function symbol with help text and the settings it depends on.
	Function struct {
		Fn       any
		Doc      string
		Requires []string
	}

	// Class is a plugin constructed once when it is registered.
	//
	// New must be a func taking no arguments or the owner, and returning a
	// pointer to a struct, optionally with an error.
	Class struct {
		New any
		Doc string
	}

	// Property is a plugin constructed on first access. New has the same shape
	// as Class.New.
	Property struct {
		New any
		Doc string
	}
)

// Func declares a documented function symbol. The optional requires list names
// the project variables the function reads.
func Func(fn any, doc string, requires ...string) Function {
	return Function{Fn: fn, Doc: doc, Requires: requires}
}

// Plugin declares an eagerly constructed plugin class.
func Plugin(ctor any, doc string) Class {
	return Class{New: ctor, Doc: doc}
}

// Lazy declares a property plugin that is constructed on first access.
func Lazy(ctor any, doc string) Property {
	return Property{New: ctor, Doc: doc}
}

// String returns the kind name.
func (k SymbolKind) String() string {
	switch k {
	case KindVariable:
		return "variable"
	case KindFunction:
		return "function"
	case KindClass:
		return "class"
	case KindProperty:
		return "property"
	default:
		return "unknown"
	}
}

// Classify returns the kind of a symbol value. Every value has exactly one kind;
// anything that is not a function, class or property is a variable.
func Classify(v any) SymbolKind {
	switch v.(type) {
	case Function, *Function:
		return KindFunction
	case Class, *Class:
		return KindClass
	case Property, *Property:
		return KindProperty
	}
	if v != nil && reflect.TypeOf(v).Kind() == reflect.Func {
		return KindFunction
	}
	return KindVariable
}

// IsPrivate reports whether a symbol name is private and must not be registered.
func IsPrivate(name string) bool {
	return name == "" || strings.HasPrefix(name, "_")
}

// Clone returns a shallow copy of the symbols.
func (s Symbols) Clone() Symbols {
	if s == nil {
		return Symbols{}
	}
	return maps.Clone(s)
}

// Merge returns a new Symbols with others applied on top of s in order.
func (s Symbols) Merge(others ...map[string]any) Symbols {
	out := s.Clone()
	for _, o := range others {
		maps.Copy(out, o)
	}
	return out
}

// Public returns the symbols whose names are not private.
func (s Symbols) Public() Symbols {
	out := make(Symbols, len(s))
	for name, v := range s {
		if !IsPrivate(name) {
			out[name] = v
		}
	}
	return out
}

func asFunction(v any) Function {
	switch f := v.(type) {
	case Function:
		return f
	case *Function:
		if f != nil {
			return *f
		}
		return Function{}
	default:
		return Function{Fn: v}
	}
}

func asConstructor(v any) (ctor any, doc string) {
	switch c := v.(type) {
	case Class:
		return c.New, c.Doc
	case *Class:
		if c != nil {
			return c.New, c.Doc
		}
	case Property:
		return c.New, c.Doc
	case *Property:
		if c != nil {
			return c.New, c.Doc
		}
	}
	return nil, ""
}
