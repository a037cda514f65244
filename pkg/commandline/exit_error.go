// SPDX-License-Identifier: MPL-2.0

package commandline

import "fmt"

// ExitError carries a non-zero exit code out of command execution. Err is nil
// when the failure has already been rendered.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}
