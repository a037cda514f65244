// SPDX-License-Identifier: MPL-2.0

package commandline

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/modelmanager/modelmanager/pkg/cueutil"
	"github.com/modelmanager/modelmanager/pkg/project"
	"github.com/modelmanager/modelmanager/pkg/settings"
)

// newShowCommand creates the `show` command.
func (s *session) newShowCommand() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "show <path>",
		Short: "Show the documentation of a function, plugin or variable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := s.requireProject()
			if err != nil {
				s.fail(err)
				return nil
			}
			md, err := describe(p, args[0])
			if err != nil {
				return err
			}
			if raw {
				fmt.Fprint(s.stdout, md)
				return nil
			}
			rendered, err := glamour.Render(md, s.glamourStyle())
			if err != nil {
				s.logger.Warn("failed to render markdown", "error", err)
				rendered = md
			}
			fmt.Fprint(s.stdout, rendered)
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the markdown source")
	return cmd
}

// describe returns the markdown documentation of path.
func describe(p *project.Project, path string) (string, error) {
	reg := p.Registry()
	if d, ok := reg.Functions[path]; ok {
		return describeFunction(p, d), nil
	}
	if node, ok := reg.Plugins[path]; ok {
		return describePlugin(reg, node), nil
	}
	v, err := p.Get(path)
	if err != nil {
		return "", err
	}
	return describeValue(path, v), nil
}

func describeFunction(p *project.Project, d *settings.FunctionDescriptor) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# `%s`\n\n", d.Path())
	fmt.Fprintf(&sb, "```\n%s\n```\n\n", d.Signature())
	if doc := strings.TrimSpace(d.Doc()); doc != "" {
		sb.WriteString(doc + "\n\n")
	}

	type row struct{ name, kind, typ, def, help string }
	var rows []row
	for _, name := range d.Positional() {
		rows = append(rows, row{name, "required", typeName(d.ArgType(name)), "", d.ArgHelp(name)})
	}
	for _, o := range d.Optional() {
		rows = append(rows, row{o.Name, "optional", typeName(o.Type), settings.FormatLiteral(o.Default), o.Help})
	}
	if d.HasVarArgs() {
		rows = append(rows, row{d.VarArgs(), "variadic", "list", "", d.ArgHelp(d.VarArgs())})
	}
	if d.HasKwArgs() {
		rows = append(rows, row{d.KwArgs(), "keywords", "map", "", d.ArgHelp(d.KwArgs())})
	}
	if len(rows) > 0 {
		sb.WriteString("## Arguments\n\n| Name | Kind | Type | Default | Help |\n|---|---|---|---|---|\n")
		for _, r := range rows {
			def := r.def
			if def != "" {
				def = "`" + def + "`"
			}
			fmt.Fprintf(&sb, "| `%s` | %s | %s | %s | %s |\n", r.name, r.kind, r.typ, def, escapeCell(r.help))
		}
		sb.WriteString("\n")
	}

	if reqs := d.Requires(); len(reqs) > 0 {
		missing := make(map[string]bool)
		for _, m := range p.Missing(d) {
			missing[m] = true
		}
		sb.WriteString("## Settings\n\n")
		for _, key := range reqs {
			state := "set"
			if missing[key] {
				state = "**missing**"
			}
			fmt.Fprintf(&sb, "- `%s`: %s\n", key, state)
		}
		sb.WriteString("\n")
	}

	if src := d.Callable().Source(); src.File != "" {
		fmt.Fprintf(&sb, "Defined at `%s`.\n", src)
	}
	return sb.String()
}

func describePlugin(reg *settings.Registry, node *settings.PluginNode) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# `%s`\n\n", node.Path())
	if doc := strings.TrimSpace(node.Doc()); doc != "" {
		sb.WriteString(doc + "\n\n")
	}
	if node.Lazy() {
		state := "not constructed yet"
		if node.Loaded() {
			state = "constructed"
		}
		fmt.Fprintf(&sb, "Constructed on first use (%s).\n\n", state)
	}

	if names := node.FunctionNames(); len(names) > 0 {
		sb.WriteString("## Commands\n\n")
		for _, name := range names {
			d := node.Functions[name]
			fmt.Fprintf(&sb, "- `%s`: %s\n", d.Signature(), d.Synopsis())
		}
		sb.WriteString("\n")
	}
	if names := node.PluginNames(); len(names) > 0 {
		sb.WriteString("## Plugins\n\n")
		for _, name := range names {
			child := node.Plugins[name]
			fmt.Fprintf(&sb, "- `%s`: %s\n", child.Path(), firstLine(child.Doc()))
		}
		sb.WriteString("\n")
	}
	if _, callable := reg.Functions[node.Path()]; callable {
		fmt.Fprintf(&sb, "The plugin itself is callable: `%s`.\n", node.Call().Signature())
	}
	return sb.String()
}

func describeValue(path string, v any) string {
	formatted, err := cueutil.Format(v)
	if err != nil {
		formatted = fmt.Sprintf("%+v", v)
	}
	return fmt.Sprintf("# `%s`\n\n```cue\n%s\n```\n", path, strings.TrimRight(formatted, "\n"))
}

func escapeCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", `\|`), "\n", " ")
}
