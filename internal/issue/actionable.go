// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

type (
	// ActionableError reports a failed modelmanager operation together with
	// the file or project it touched and what the user can do next.
	//
	// Build one with an ErrorContext:
	//
	//	return issue.NewErrorContext().
	//		WithOperation("load project").
	//		WithResource(dir).
	//		WithIssue(issue.SettingsNotFoundId).
	//		WithSuggestion("Run 'modelmanager setup' to create .mm/settings.cue").
	//		Wrap(err).
	//		BuildError()
	ActionableError struct {
		// Operation is a verb phrase such as "load project" or "open Go plugin module".
		Operation string

		// Resource is the settings file, project dir or config path involved.
		Resource string

		// Suggestions are printed one per line under the message.
		Suggestions []string

		Cause error

		// Issue links a catalog page; zero means none.
		Issue Id
	}

	// ErrorContext accumulates the fields of an ActionableError. A context may
	// be kept around and wrapped several times; each Build copies its state.
	ErrorContext struct {
		draft ActionableError
	}
)

// NewErrorContext returns an empty builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// Error renders "failed to <operation>[: <resource>][: <cause>]".
func (e *ActionableError) Error() string {
	parts := []string{"failed to " + e.Operation}
	if e.Resource != "" {
		parts = append(parts, e.Resource)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders the message followed by a bulleted suggestion list. Verbose
// output also numbers every error in the cause chain.
func (e *ActionableError) Format(verbose bool) string {
	var b strings.Builder
	b.WriteString(e.Error())

	if e.HasSuggestions() {
		b.WriteByte('\n')
		for _, s := range e.Suggestions {
			b.WriteString("\n  • " + s)
		}
	}

	if verbose {
		if causes := causeChain(e.Cause); len(causes) > 0 {
			b.WriteString("\n\nError chain:")
			for i, c := range causes {
				fmt.Fprintf(&b, "\n  %d. %s", i+1, c)
			}
		}
	}
	return b.String()
}

// causeChain lists err and everything it single-unwraps to.
func causeChain(err error) []error {
	var out []error
	for ; err != nil; err = errors.Unwrap(err) {
		out = append(out, err)
	}
	return out
}

// Page returns the linked catalog page, or nil.
func (e *ActionableError) Page() *Issue {
	if e.Issue == 0 {
		return nil
	}
	return Get(e.Issue)
}

func (e *ActionableError) HasSuggestions() bool {
	return len(e.Suggestions) > 0
}

// WithOperation sets the failed operation. Build refuses a context without one.
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.draft.Operation = op
	return c
}

func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.draft.Resource = res
	return c
}

// WithSuggestion appends one hint.
func (c *ErrorContext) WithSuggestion(s string) *ErrorContext {
	return c.WithSuggestions(s)
}

func (c *ErrorContext) WithSuggestions(s ...string) *ErrorContext {
	c.draft.Suggestions = append(c.draft.Suggestions, s...)
	return c
}

func (c *ErrorContext) WithIssue(id Id) *ErrorContext {
	c.draft.Issue = id
	return c
}

// Wrap sets the cause, replacing any earlier one.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.draft.Cause = err
	return c
}

// Build returns a snapshot of the context, or nil when no operation was set.
func (c *ErrorContext) Build() *ActionableError {
	if c.draft.Operation == "" {
		return nil
	}
	ae := c.draft
	ae.Suggestions = slices.Clone(c.draft.Suggestions)
	return &ae
}

// BuildError is Build for return statements; it never yields a typed nil.
func (c *ErrorContext) BuildError() error {
	if ae := c.Build(); ae != nil {
		return ae
	}
	return nil
}
