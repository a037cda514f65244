// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/format"
)

// Compile compiles data as CUE and validates it. JSON is valid CUE, so the same
// call serves .json files.
func Compile(data []byte, opts ...Option) (cue.Value, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	filename := o.filename
	if filename == "" {
		filename = "<input>"
	}

	if err := CheckFileSize(data, o.maxFileSize, filename); err != nil {
		return cue.Value{}, err
	}

	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if v.Err() != nil {
		return cue.Value{}, FormatError(v.Err(), filename)
	}

	if o.schema != "" {
		schema := ctx.CompileString(o.schema)
		if schema.Err() != nil {
			return cue.Value{}, fmt.Errorf("internal error: failed to compile schema: %w", schema.Err())
		}
		def := schema.LookupPath(cue.ParsePath(o.definition))
		if def.Err() != nil {
			return cue.Value{}, fmt.Errorf("internal error: schema definition %s not found: %w", o.definition, def.Err())
		}
		v = def.Unify(v)
	}

	if err := v.Validate(cue.Concrete(o.concrete)); err != nil {
		return cue.Value{}, FormatError(err, filename)
	}
	return v, nil
}

// ToGo converts a concrete CUE value to Go data: structs become
// map[string]any, lists []any, integers int and other numbers float64.
// Definitions, hidden and optional fields are not included.
func ToGo(v cue.Value) (any, error) {
	switch v.Kind() {
	case cue.StructKind:
		iter, err := v.Fields()
		if err != nil {
			return nil, err
		}
		out := make(map[string]any)
		for iter.Next() {
			e, err := ToGo(iter.Value())
			if err != nil {
				return nil, err
			}
			out[iter.Selector().Unquoted()] = e
		}
		return out, nil
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, err
		}
		out := []any{}
		for iter.Next() {
			e, err := ToGo(iter.Value())
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
		return out, nil
	case cue.IntKind:
		i, err := v.Int64()
		if err != nil {
			return nil, err
		}
		return int(i), nil
	case cue.FloatKind, cue.NumberKind:
		return v.Float64()
	case cue.StringKind:
		return v.String()
	case cue.BoolKind:
		return v.Bool()
	case cue.BytesKind:
		return v.Bytes()
	case cue.NullKind:
		return nil, nil
	}
	return nil, fmt.Errorf("%s: value is not concrete", v.Path())
}

// Format renders Go data as CUE source. Values CUE cannot encode, such as
// functions, return an error.
func Format(v any) (string, error) {
	val := cuecontext.New().Encode(v)
	if val.Err() != nil {
		return "", val.Err()
	}
	b, err := format.Node(val.Syntax(cue.Final(), cue.Concrete(true)))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
