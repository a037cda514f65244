// SPDX-License-Identifier: MPL-2.0

package commandline

import "github.com/charmbracelet/lipgloss"

// Color palette shared by every rendered output.
const (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorMuted     = lipgloss.Color("#6B7280")
	colorSuccess   = lipgloss.Color("#10B981")
	colorError     = lipgloss.Color("#EF4444")
	colorWarning   = lipgloss.Color("#F59E0B")
	colorHighlight = lipgloss.Color("#3B82F6")
	colorVerbose   = lipgloss.Color("#9CA3AF")
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	subtitleStyle = lipgloss.NewStyle().Foreground(colorMuted)
	successStyle  = lipgloss.NewStyle().Foreground(colorSuccess)
	errorStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	warningStyle  = lipgloss.NewStyle().Foreground(colorWarning)
	cmdStyle      = lipgloss.NewStyle().Foreground(colorHighlight)
	verboseStyle  = lipgloss.NewStyle().Foreground(colorVerbose)

	// traceStyle renders the ">>> name(args)" line.
	traceStyle = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)

	// Failure card.
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorError).
			Padding(0, 1)
	cardHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	cardLabelStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorWarning)
	cardValueStyle  = lipgloss.NewStyle().Foreground(colorVerbose)
	cardCodeStyle   = lipgloss.NewStyle().
			Foreground(colorVerbose).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(colorMuted).
			PaddingLeft(1)
	cardHintStyle = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)

	// list table.
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
)
