// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"time"
)

var (
	durationType = reflect.TypeFor[time.Duration]()
	contextType  = reflect.TypeFor[context.Context]()
	errorType    = reflect.TypeFor[error]()
)

// Coerce converts v to a value of type t.
//
// Strings destined for string-kinded types are kept verbatim. Other strings are
// first evaluated with ParseLiteral, so "5" becomes an int and "[1, 2]" a list;
// time.Duration also accepts duration strings such as "1m30s". Numbers convert
// between numeric kinds when no precision is lost, and lists and maps convert
// element-wise.
func Coerce(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(t), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		if t.Kind() == reflect.Interface {
			out := reflect.New(t).Elem()
			out.Set(rv)
			return out, nil
		}
		return rv, nil
	}
	if s, ok := v.(string); ok {
		return coerceString(s, t)
	}

	switch t.Kind() {
	case reflect.Bool:
		if rv.Kind() == reflect.Bool {
			return rv.Convert(t), nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return convertNumber(rv, t)
	case reflect.String:
		if rv.Kind() == reflect.String {
			return rv.Convert(t), nil
		}
		return reflect.ValueOf(fmt.Sprint(v)).Convert(t), nil
	case reflect.Slice:
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			out := reflect.MakeSlice(t, rv.Len(), rv.Len())
			for i := range rv.Len() {
				e, err := Coerce(rv.Index(i).Interface(), t.Elem())
				if err != nil {
					return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
				}
				out.Index(i).Set(e)
			}
			return out, nil
		}
	case reflect.Map:
		if rv.Kind() == reflect.Map {
			out := reflect.MakeMapWithSize(t, rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				k, err := Coerce(iter.Key().Interface(), t.Key())
				if err != nil {
					return reflect.Value{}, fmt.Errorf("key %v: %w", iter.Key(), err)
				}
				e, err := Coerce(iter.Value().Interface(), t.Elem())
				if err != nil {
					return reflect.Value{}, fmt.Errorf("key %v: %w", iter.Key(), err)
				}
				out.SetMapIndex(k, e)
			}
			return out, nil
		}
	case reflect.Pointer:
		e, err := Coerce(v, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(e)
		return p, nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %s (%T) as %s", FormatLiteral(v), v, t)
}

func coerceString(s string, t reflect.Type) (reflect.Value, error) {
	if t.Kind() == reflect.String {
		return reflect.ValueOf(s).Convert(t), nil
	}
	if t == durationType {
		if d, err := time.ParseDuration(s); err == nil {
			return reflect.ValueOf(d), nil
		}
	}
	lit := ParseLiteral(s)
	if _, stillString := lit.(string); stillString {
		return reflect.Value{}, fmt.Errorf("cannot convert %q to %s", s, t)
	}
	return Coerce(lit, t)
}

func convertNumber(rv reflect.Value, t reflect.Type) (reflect.Value, error) {
	out := reflect.New(t).Elem()
	fail := func() (reflect.Value, error) {
		return reflect.Value{}, fmt.Errorf("cannot use %v (%s) as %s", rv.Interface(), rv.Type(), t)
	}

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := rv.Int()
		switch {
		case out.CanInt():
			if out.OverflowInt(i) {
				return fail()
			}
			out.SetInt(i)
		case out.CanUint():
			if i < 0 || out.OverflowUint(uint64(i)) {
				return fail()
			}
			out.SetUint(uint64(i))
		case out.CanFloat():
			out.SetFloat(float64(i))
		default:
			return fail()
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		switch {
		case out.CanInt():
			if u > math.MaxInt64 || out.OverflowInt(int64(u)) {
				return fail()
			}
			out.SetInt(int64(u))
		case out.CanUint():
			if out.OverflowUint(u) {
				return fail()
			}
			out.SetUint(u)
		case out.CanFloat():
			out.SetFloat(float64(u))
		default:
			return fail()
		}
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		switch {
		case out.CanInt():
			if f != math.Trunc(f) || f < math.MinInt64 || f > math.MaxInt64 || out.OverflowInt(int64(f)) {
				return fail()
			}
			out.SetInt(int64(f))
		case out.CanUint():
			if f != math.Trunc(f) || f < 0 || f > math.MaxUint64 || out.OverflowUint(uint64(f)) {
				return fail()
			}
			out.SetUint(uint64(f))
		case out.CanFloat():
			if out.OverflowFloat(f) {
				return fail()
			}
			out.SetFloat(f)
		default:
			return fail()
		}
	default:
		return fail()
	}
	return out, nil
}
