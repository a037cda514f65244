// SPDX-License-Identifier: MPL-2.0

package settingsfile

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfigNotFound is returned when no settings file exists under the
	// project root.
	ErrConfigNotFound = errors.New("settings file not found")
	// ErrUnsupportedFormat is returned for a settings file extension without
	// an evaluator.
	ErrUnsupportedFormat = errors.New("unsupported settings format")
)

type (
	// NotFoundError reports the root and file name that were searched.
	NotFoundError struct {
		Root     string
		FileName string
	}

	// EvalError reports a settings file that could not be evaluated.
	EvalError struct {
		Path string
		Err  error
	}
)

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s found in any directory of %s", e.FileName, e.Root)
}

// Unwrap returns ErrConfigNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrConfigNotFound }

// Error implements the error interface.
func (e *EvalError) Error() string {
	if msg := e.Err.Error(); strings.HasPrefix(msg, e.Path) {
		return "evaluate settings: " + msg
	}
	return fmt.Sprintf("evaluate settings %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *EvalError) Unwrap() error { return e.Err }
