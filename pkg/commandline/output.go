// SPDX-License-Identifier: MPL-2.0

package commandline

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/modelmanager/modelmanager/internal/issue"
	"github.com/modelmanager/modelmanager/pkg/cueutil"
	"github.com/modelmanager/modelmanager/pkg/settings"
)

// printResult writes a function's result to w: strings raw, nil not at all
// and everything else as CUE, or with fmt when CUE cannot encode it.
func printResult(w io.Writer, v any) error {
	var out string
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		out = x
	case fmt.Stringer:
		out = x.String()
	default:
		formatted, err := cueutil.Format(x)
		if err != nil {
			formatted = fmt.Sprintf("%+v", x)
		}
		out = formatted
	}
	_, err := fmt.Fprintln(w, strings.TrimRight(out, "\n"))
	return err
}

// renderFailure renders the card shown when a function fails.
func renderFailure(ie *settings.InvocationError, verbose bool) string {
	var sb strings.Builder

	sb.WriteString(cardHeaderStyle.Render("✗ " + ie.Path + " failed"))
	sb.WriteString("\n\n")

	sb.WriteString(cardLabelStyle.Render("Error:  "))
	if ie.Panic != nil {
		sb.WriteString(cardValueStyle.Render(fmt.Sprintf("panic: %v", ie.Panic)))
	} else {
		sb.WriteString(cardValueStyle.Render(ie.Err.Error()))
	}
	sb.WriteString("\n")

	if src := ie.Source.String(); src != "" {
		sb.WriteString(cardLabelStyle.Render("Source: "))
		sb.WriteString(cardValueStyle.Render(src))
		sb.WriteString("\n")
	}
	if ie.Source.Text != "" {
		sb.WriteString("\n")
		sb.WriteString(cardCodeStyle.Render(strings.TrimRight(ie.Source.Text, "\n")))
		sb.WriteString("\n")
	}

	if verbose && len(ie.Stack) > 0 {
		sb.WriteString("\n")
		sb.WriteString(cardLabelStyle.Render("Stack:"))
		sb.WriteString("\n")
		sb.WriteString(cardValueStyle.Render(strings.TrimRight(string(ie.Stack), "\n")))
		sb.WriteString("\n")
	} else if len(ie.Stack) > 0 {
		sb.WriteString("\n")
		sb.WriteString(cardHintStyle.Render("Run with --verbose to see the stack trace."))
		sb.WriteString("\n")
	}

	return cardStyle.Render(strings.TrimRight(sb.String(), "\n")) + "\n"
}

// formatErrorForDisplay formats an error for the user. Actionable errors use
// their own layout; verbose mode shows the full chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// renderError writes err and, when it links to an issue page, the rendered
// page.
func renderError(w io.Writer, err error, verbose bool, style string, logger *slog.Logger) {
	fmt.Fprintln(w, errorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		return
	}
	page := ae.Page()
	if page == nil {
		return
	}
	rendered, renderErr := page.Render(style)
	if renderErr != nil {
		logger.Warn("failed to render issue page", "issue", ae.Issue, "error", renderErr)
		return
	}
	fmt.Fprint(w, rendered)
}
