// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"context"
	"fmt"
	"reflect"
	"runtime/debug"
)

type (
	// Callable is a registered function or plugin method with its owner bound.
	// The namespace and the FunctionDescriptor share one *Callable per path.
	Callable struct {
		name     string
		fn       reflect.Value
		receiver func() (reflect.Value, error)
		owner    reflect.Value
		shape    funcShape
	}

	// funcShape describes the parameters and results of an eligible func type.
	funcShape struct {
		hasCtx   bool
		hasOwner bool
		argsType reflect.Type
		argsPtr  bool
		hasValue bool
		hasError bool
	}

	// panicError carries a panic recovered from a called function.
	panicError struct {
		value any
		stack []byte
	}
)

func (e *panicError) Error() string { return fmt.Sprintf("panic: %v", e.value) }

// inspectFunc checks that ft has the shape
//
//	func([recv,] [context.Context,] [owner,] [Args | *Args]) ([R,] [error])
//
// where skip is the number of leading receiver parameters.
func inspectFunc(name string, ft reflect.Type, skip int, ownerType reflect.Type) (funcShape, error) {
	var s funcShape
	invalid := func(format string, args ...any) (funcShape, error) {
		return funcShape{}, &InvalidCallableError{Name: name, Reason: fmt.Sprintf(format, args...)}
	}
	if ft.Kind() != reflect.Func {
		return invalid("not a function")
	}
	if ft.IsVariadic() {
		return invalid("variadic Go functions are not supported, use a varargs field")
	}

	i := skip
	if i < ft.NumIn() && ft.In(i) == contextType {
		s.hasCtx = true
		i++
	}
	if i < ft.NumIn() && ownerType != nil && ownerType.AssignableTo(ft.In(i)) {
		s.hasOwner = true
		i++
	}
	if i < ft.NumIn() {
		p := ft.In(i)
		switch {
		case p.Kind() == reflect.Struct:
			s.argsType = p
		case p.Kind() == reflect.Pointer && p.Elem().Kind() == reflect.Struct:
			s.argsType = p.Elem()
			s.argsPtr = true
		default:
			return invalid("parameter %d (%s) must be an arguments struct", i-skip+1, p)
		}
		i++
	}
	if i != ft.NumIn() {
		return invalid("too many parameters")
	}

	switch ft.NumOut() {
	case 0:
	case 1:
		if ft.Out(0) == errorType {
			s.hasError = true
		} else {
			s.hasValue = true
		}
	case 2:
		if ft.Out(1) != errorType {
			return invalid("second result must be an error")
		}
		s.hasValue, s.hasError = true, true
	default:
		return invalid("too many results")
	}
	return s, nil
}

// Name returns the dotted path the callable is registered under.
func (c *Callable) Name() string { return c.name }

// Method reports whether the callable is bound to a plugin instance.
func (c *Callable) Method() bool { return c.receiver != nil }

// Source returns where the underlying function is defined.
func (c *Callable) Source() SourceInfo { return sourceOf(c.fn) }

// Call invokes the function with an arguments struct, or nil when it declares
// none. Tag defaults are not applied; use an Invoker for command-line style
// calls.
func (c *Callable) Call(ctx context.Context, args any) (any, error) {
	var av reflect.Value
	if c.shape.argsType != nil {
		av = reflect.New(c.shape.argsType).Elem()
		if args != nil {
			rv := reflect.ValueOf(args)
			if rv.Kind() == reflect.Pointer {
				rv = rv.Elem()
			}
			if rv.Type() != c.shape.argsType {
				return nil, fmt.Errorf("%s: arguments must be %s, got %T", c.name, c.shape.argsType, args)
			}
			av.Set(rv)
		}
	} else if args != nil {
		return nil, fmt.Errorf("%s: takes no arguments", c.name)
	}
	return c.call(ctx, av)
}

func (c *Callable) call(ctx context.Context, args reflect.Value) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &panicError{value: r, stack: debug.Stack()}
		}
	}()

	if ctx == nil {
		ctx = context.Background()
	}
	in := make([]reflect.Value, 0, 4)
	if c.receiver != nil {
		recv, rerr := c.receiver()
		if rerr != nil {
			return nil, rerr
		}
		in = append(in, recv)
	}
	if c.shape.hasCtx {
		in = append(in, reflect.ValueOf(ctx))
	}
	if c.shape.hasOwner {
		in = append(in, c.owner)
	}
	if c.shape.argsType != nil {
		if c.shape.argsPtr {
			p := reflect.New(c.shape.argsType)
			p.Elem().Set(args)
			in = append(in, p)
		} else {
			in = append(in, args)
		}
	}

	out := c.fn.Call(in)
	if c.shape.hasError {
		if e := out[len(out)-1]; !e.IsNil() {
			return nil, e.Interface().(error)
		}
	}
	if c.shape.hasValue {
		return out[0].Interface(), nil
	}
	return nil, nil
}
