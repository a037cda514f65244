// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"errors"
	"fmt"
)

var (
	// ErrUndefinedPath is returned when a dotted path does not resolve.
	ErrUndefinedPath = errors.New("undefined path")
	// ErrPluginConstruction is the sentinel error wrapped by PluginConstructionError.
	ErrPluginConstruction = errors.New("plugin construction failed")
	// ErrInvocation is the sentinel error wrapped by InvocationError.
	ErrInvocation = errors.New("function call failed")
	// ErrArgumentConversion is the sentinel error wrapped by ArgumentError.
	ErrArgumentConversion = errors.New("argument conversion failed")
	// ErrInvalidCallable is the sentinel error wrapped by InvalidCallableError.
	ErrInvalidCallable = errors.New("invalid callable")
)

type (
	// UndefinedPathError is returned when a segment of a dotted path is missing.
	// It is never used for errors raised while evaluating an existing member.
	UndefinedPathError struct {
		Path    string
		Segment string
	}

	// PluginConstructionError records a plugin that could not be constructed.
	// The plugin is left out of the registry and loading continues.
	PluginConstructionError struct {
		Path string
		Err  error
	}

	// InvocationError wraps a failure (returned error or recovered panic) of a
	// registered function, together with where the function is defined.
	InvocationError struct {
		Path   string
		Err    error
		Panic  any
		Stack  []byte
		Source SourceInfo
	}

	// ArgumentError is returned when a command-line token cannot be bound to or
	// converted for a function parameter.
	ArgumentError struct {
		Path   string
		Token  string
		Reason string
		Err    error
	}

	// InvalidCallableError is returned when a function or method does not have
	// a shape the registry can describe.
	InvalidCallableError struct {
		Name   string
		Reason string
	}
)

// Error implements the error interface.
func (e *UndefinedPathError) Error() string {
	if e.Segment == "" || e.Segment == e.Path {
		return fmt.Sprintf("undefined path %q", e.Path)
	}
	return fmt.Sprintf("undefined path %q: no member %q", e.Path, e.Segment)
}

// Unwrap returns ErrUndefinedPath for errors.Is() compatibility.
func (e *UndefinedPathError) Unwrap() error { return ErrUndefinedPath }

// Error implements the error interface.
func (e *PluginConstructionError) Error() string {
	return fmt.Sprintf("plugin %q unavailable: %v", e.Path, e.Err)
}

// Unwrap returns both ErrPluginConstruction and the underlying cause.
func (e *PluginConstructionError) Unwrap() []error {
	return compact(ErrPluginConstruction, e.Err)
}

// Error implements the error interface.
func (e *InvocationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap returns both ErrInvocation and the underlying cause.
func (e *InvocationError) Unwrap() []error {
	return compact(ErrInvocation, e.Err)
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid argument %q: %s", e.Token, e.Reason)
	}
	return fmt.Sprintf("%s: invalid argument %q: %s", e.Path, e.Token, e.Reason)
}

// Unwrap returns both ErrArgumentConversion and the underlying cause, if any.
func (e *ArgumentError) Unwrap() []error {
	return compact(ErrArgumentConversion, e.Err)
}

// Error implements the error interface.
func (e *InvalidCallableError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Reason)
}

// Unwrap returns ErrInvalidCallable for errors.Is() compatibility.
func (e *InvalidCallableError) Unwrap() error { return ErrInvalidCallable }

func compact(errs ...error) []error {
	out := errs[:0]
	for _, err := range errs {
		if err != nil {
			out = append(out, err)
		}
	}
	return out
}
