// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/iancoleman/strcase"
)

const (
	paramRequired paramKind = iota
	paramOptional
	paramVarArgs
	paramKwArgs
)

type (
	paramKind int

	// param is one field of an arguments struct.
	param struct {
		name  string
		kind  paramKind
		index []int
		typ   reflect.Type
		def   reflect.Value
		help  string
	}
)

// parseParams reads the parameter list declared by an arguments struct.
func parseParams(fn string, t reflect.Type) ([]param, error) {
	var (
		params  []param
		seen    = make(map[string]bool)
		varArgs bool
		kwArgs  bool
	)
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("arg")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		if name == "" {
			name = strcase.ToSnake(f.Name)
		}
		if seen[name] {
			return nil, &InvalidCallableError{Name: fn, Reason: fmt.Sprintf("duplicate parameter %q", name)}
		}
		seen[name] = true

		p := param{name: name, index: f.Index, typ: f.Type, help: f.Tag.Get("help")}
		defText, hasDefault := f.Tag.Lookup("default")
		switch {
		case hasOption(opts, "varargs"):
			if f.Type.Kind() != reflect.Slice {
				return nil, &InvalidCallableError{Name: fn, Reason: fmt.Sprintf("varargs field %s must be a slice", f.Name)}
			}
			if varArgs {
				return nil, &InvalidCallableError{Name: fn, Reason: "more than one varargs field"}
			}
			varArgs = true
			p.kind = paramVarArgs
		case hasOption(opts, "kwargs"):
			if f.Type.Kind() != reflect.Map || f.Type.Key().Kind() != reflect.String {
				return nil, &InvalidCallableError{Name: fn, Reason: fmt.Sprintf("kwargs field %s must be a map with string keys", f.Name)}
			}
			if kwArgs {
				return nil, &InvalidCallableError{Name: fn, Reason: "more than one kwargs field"}
			}
			kwArgs = true
			p.kind = paramKwArgs
		case hasDefault || hasOption(opts, "optional"):
			p.kind = paramOptional
			p.def = reflect.Zero(f.Type)
			if hasDefault {
				def, err := parseDefault(defText, f.Type)
				if err != nil {
					return nil, &InvalidCallableError{Name: fn, Reason: fmt.Sprintf("default for %s: %v", name, err)}
				}
				p.def = def
			}
		default:
			p.kind = paramRequired
		}
		params = append(params, p)
	}
	return params, nil
}

func parseDefault(text string, t reflect.Type) (reflect.Value, error) {
	if t.Kind() == reflect.String {
		return reflect.ValueOf(text).Convert(t), nil
	}
	if t.Kind() == reflect.Interface {
		return Coerce(ParseLiteral(text), t)
	}
	return Coerce(text, t)
}

func hasOption(opts, want string) bool {
	for opt := range strings.SplitSeq(opts, ",") {
		if strings.TrimSpace(opt) == want {
			return true
		}
	}
	return false
}
