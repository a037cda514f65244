// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"reflect"
	"slices"
	"strconv"
)

// Invoker binds arguments to registered functions and calls them.
type Invoker struct {
	ns     *Namespace
	logger *slog.Logger
}

// NewInvoker returns an invoker that reads override settings from ns.
func NewInvoker(ns *Namespace, logger *slog.Logger) *Invoker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Invoker{ns: ns, logger: logger}
}

// Invoke calls d with raw command-line strings. Positional strings fill the
// required parameters, then the optional ones, then varargs; options are
// matched by parameter name and collected into kwargs when unknown.
//
// Strings are converted per parameter type with Coerce; parameters of
// interface type receive ParseLiteral's result.
func (inv *Invoker) Invoke(ctx context.Context, d *FunctionDescriptor, positional []string, options map[string]string) (any, error) {
	args := make([]any, len(positional))
	for i, s := range positional {
		args[i] = rawString(s)
	}
	kwargs := make(map[string]any, len(options))
	for k, s := range options {
		kwargs[k] = rawString(s)
	}
	return inv.Call(ctx, d, args, kwargs)
}

// Call calls d with already typed (or raw string) arguments.
//
// Omitted optional parameters take the value of the project variable named
// <plugin>_<method>_<param> for plugin methods, or <function>_<param> for free
// functions, when one exists; otherwise their declared default.
//
// Binding problems return an *ArgumentError before d runs. A failure of d,
// returned error or panic, returns an *InvocationError.
func (inv *Invoker) Call(ctx context.Context, d *FunctionDescriptor, args []any, kwargs map[string]any) (any, error) {
	in, err := inv.bind(d, args, kwargs)
	if err != nil {
		return nil, err
	}
	result, err := d.callable.call(ctx, in)
	if err != nil {
		ie := &InvocationError{Path: d.path, Err: err, Source: d.callable.Source()}
		var pe *panicError
		if errors.As(err, &pe) {
			ie.Panic, ie.Stack = pe.value, pe.stack
		}
		inv.logger.Error("function failed", "function", d.path, "error", err, "source", ie.Source.String())
		return nil, ie
	}
	return result, nil
}

// rawString marks a command-line token so interface-typed parameters receive
// its literal value.
type rawString string

func (inv *Invoker) bind(d *FunctionDescriptor, args []any, kwargs map[string]any) (reflect.Value, error) {
	argsType := d.callable.shape.argsType
	if argsType == nil {
		if len(args) > 0 {
			return reflect.Value{}, &ArgumentError{Path: d.path, Token: tokenOf(args[0]), Reason: "function takes no arguments"}
		}
		if len(kwargs) > 0 {
			k := slices.Sorted(maps.Keys(kwargs))[0]
			return reflect.Value{}, &ArgumentError{Path: d.path, Token: "--" + k, Reason: "function takes no arguments"}
		}
		return reflect.Value{}, nil
	}

	st := reflect.New(argsType).Elem()
	set := make(map[string]bool, len(d.params))
	assign := func(p param, v any) error {
		val, err := coerceArg(v, p.typ)
		if err != nil {
			return &ArgumentError{Path: d.path, Token: tokenOf(v), Reason: fmt.Sprintf("parameter %s: %v", p.name, err), Err: err}
		}
		st.FieldByIndex(p.index).Set(val)
		set[p.name] = true
		return nil
	}

	var slots []param
	var varArgs, kwArgs *param
	for i, p := range d.params {
		switch p.kind {
		case paramRequired:
			slots = append(slots, p)
		case paramVarArgs:
			varArgs = &d.params[i]
		case paramKwArgs:
			kwArgs = &d.params[i]
		}
	}
	for _, p := range d.params {
		if p.kind == paramOptional {
			slots = append(slots, p)
			st.FieldByIndex(p.index).Set(p.def)
		}
	}

	i := 0
	for ; i < len(args) && i < len(slots); i++ {
		if err := assign(slots[i], args[i]); err != nil {
			return reflect.Value{}, err
		}
	}
	if rest := args[i:]; len(rest) > 0 {
		if varArgs == nil {
			return reflect.Value{}, &ArgumentError{
				Path:   d.path,
				Token:  tokenOf(rest[0]),
				Reason: "too many positional arguments (at most " + strconv.Itoa(len(slots)) + ")",
			}
		}
		sv := reflect.MakeSlice(varArgs.typ, len(rest), len(rest))
		for j, v := range rest {
			e, err := coerceArg(v, varArgs.typ.Elem())
			if err != nil {
				return reflect.Value{}, &ArgumentError{Path: d.path, Token: tokenOf(v), Reason: err.Error(), Err: err}
			}
			sv.Index(j).Set(e)
		}
		st.FieldByIndex(varArgs.index).Set(sv)
	}

	var extra reflect.Value
	for _, k := range slices.Sorted(maps.Keys(kwargs)) {
		v := kwargs[k]
		if p, ok := d.param(k); ok && (p.kind == paramRequired || p.kind == paramOptional) {
			if set[k] {
				return reflect.Value{}, &ArgumentError{Path: d.path, Token: "--" + k, Reason: "argument given more than once"}
			}
			if err := assign(p, v); err != nil {
				return reflect.Value{}, err
			}
			continue
		}
		if kwArgs == nil {
			return reflect.Value{}, &ArgumentError{Path: d.path, Token: "--" + k, Reason: "unexpected keyword argument"}
		}
		if !extra.IsValid() {
			extra = reflect.MakeMap(kwArgs.typ)
		}
		e, err := coerceArg(v, kwArgs.typ.Elem())
		if err != nil {
			return reflect.Value{}, &ArgumentError{Path: d.path, Token: "--" + k, Reason: err.Error(), Err: err}
		}
		extra.SetMapIndex(reflect.ValueOf(k).Convert(kwArgs.typ.Key()), e)
	}
	if extra.IsValid() {
		st.FieldByIndex(kwArgs.index).Set(extra)
	}

	for _, p := range d.params {
		if set[p.name] {
			continue
		}
		switch p.kind {
		case paramRequired:
			return reflect.Value{}, &ArgumentError{Path: d.path, Token: p.name, Reason: "missing required argument"}
		case paramOptional:
			inv.applySetting(d, p, st)
		}
	}
	return st, nil
}

// applySetting fills an omitted optional parameter from its override variable.
func (inv *Invoker) applySetting(d *FunctionDescriptor, p param, st reflect.Value) {
	if inv.ns == nil {
		return
	}
	key := d.settingKey(p.name)
	v, ok := inv.ns.variable(key)
	if !ok {
		return
	}
	val, err := Coerce(v, p.typ)
	if err != nil {
		inv.logger.Warn("ignoring override setting", "setting", key, "error", err)
		return
	}
	st.FieldByIndex(p.index).Set(val)
}

func coerceArg(v any, t reflect.Type) (reflect.Value, error) {
	if s, ok := v.(rawString); ok {
		if t.Kind() == reflect.Interface {
			return Coerce(ParseLiteral(string(s)), t)
		}
		return Coerce(string(s), t)
	}
	return Coerce(v, t)
}

func tokenOf(v any) string {
	switch x := v.(type) {
	case rawString:
		return string(x)
	case string:
		return x
	default:
		return FormatLiteral(v)
	}
}
