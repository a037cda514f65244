// SPDX-License-Identifier: MPL-2.0

package commandline

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/modelmanager/modelmanager/pkg/project"
)

// newListCommand creates the `list` command.
func (s *session) newListCommand() *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every command with its signature",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := s.requireProject()
			if err != nil {
				s.fail(err)
				return nil
			}
			rows := listRows(p)
			if plain {
				for _, r := range rows {
					fmt.Fprintln(s.stdout, strings.Join(r, "\t"))
				}
				return nil
			}
			s.printListTable(p, rows)
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print tab-separated rows without styling")
	return cmd
}

// listRows returns one row of command, signature and readiness per function.
func listRows(p *project.Project) [][]string {
	reg := p.Registry()
	rows := make([][]string, 0, len(reg.Functions))
	for _, path := range reg.FunctionPaths() {
		d := reg.Functions[path]
		status := "ready"
		if missing := p.Missing(d); len(missing) > 0 {
			status = "missing " + strings.Join(missing, ", ")
		}
		rows = append(rows, []string{strings.ReplaceAll(path, ".", " "), d.Signature(), status})
	}
	return rows
}

func (s *session) printListTable(p *project.Project, rows [][]string) {
	fmt.Fprintln(s.stdout, titleStyle.Render("Commands of "+p.Dir()))
	if p.SettingsFile() != "" {
		fmt.Fprintln(s.stdout, subtitleStyle.Render("settings: "+p.SettingsFile()))
	}
	fmt.Fprintln(s.stdout)

	if len(rows) == 0 {
		fmt.Fprintln(s.stdout, subtitleStyle.Render("(no functions registered)"))
	} else {
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
			Headers("COMMAND", "SIGNATURE", "CONFIGURED").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				switch {
				case row == table.HeaderRow:
					return tableHeaderStyle
				case col == 0:
					return tableCellStyle.Foreground(colorHighlight)
				case col == 2 && row < len(rows) && rows[row][2] != "ready":
					return tableCellStyle.Foreground(colorWarning)
				case col == 2:
					return tableCellStyle.Foreground(colorSuccess)
				default:
					return tableCellStyle
				}
			})
		fmt.Fprintln(s.stdout, t.Render())
	}

	for _, f := range p.Registry().Failures() {
		fmt.Fprintf(s.stdout, "%s %s unavailable: %v\n", warningStyle.Render("!"), f.Path, f.Err)
	}
}
