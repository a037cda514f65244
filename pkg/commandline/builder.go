// SPDX-License-Identifier: MPL-2.0

package commandline

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modelmanager/modelmanager/pkg/project"
	"github.com/modelmanager/modelmanager/pkg/settings"
)

// addProjectCommands adds a command group for every plugin and a leaf for
// every function of p below root, in sorted dotted order.
func (s *session) addProjectCommands(root *cobra.Command, p *project.Project) {
	reg := p.Registry()
	nodes := map[string]*cobra.Command{"": root}

	// parent returns the command for the dotted prefix of path, creating
	// groups on the way.
	var parent func(path string) *cobra.Command
	parent = func(path string) *cobra.Command {
		prefix, _, ok := cutLast(path)
		if !ok {
			return root
		}
		if cmd, exists := nodes[prefix]; exists {
			return cmd
		}
		group := newGroupCommand(prefix, reg.Plugins[prefix])
		parent(prefix).AddCommand(group)
		nodes[prefix] = group
		return group
	}

	for _, path := range reg.PluginPaths() {
		if _, isLeaf := reg.Functions[path]; isLeaf {
			continue
		}
		if _, exists := nodes[path]; exists {
			continue
		}
		group := newGroupCommand(path, reg.Plugins[path])
		parent(path).AddCommand(group)
		nodes[path] = group
	}
	for _, path := range reg.FunctionPaths() {
		leaf := s.newLeafCommand(p, reg.Functions[path])
		parent(path).AddCommand(leaf)
		nodes[path] = leaf
	}
}

// newGroupCommand returns the command of a plugin. node is nil for a dotted
// prefix without a plugin of its own.
func newGroupCommand(path string, node *settings.PluginNode) *cobra.Command {
	_, name, _ := cutLast(path)
	cmd := &cobra.Command{
		Use:   name,
		Short: "Commands of " + path,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	if node != nil && node.Doc() != "" {
		cmd.Short = firstLine(node.Doc())
		cmd.Long = node.Doc()
	}
	return cmd
}

// newLeafCommand returns the command that invokes d.
func (s *session) newLeafCommand(p *project.Project, d *settings.FunctionDescriptor) *cobra.Command {
	cmd := &cobra.Command{
		Use:   usageLine(d),
		Short: d.Synopsis(),
		Long:  longHelp(d),
		Args:  arity(d),
	}
	if kw := d.KwArgs(); kw != "" {
		cmd.Annotations = map[string]string{kwargsAnnotation: kw}
	}
	flags := addLeafFlags(cmd, d)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		options := flags.options()
		if s.remainderFound {
			kwargs, err := parseKwargs(d.Path(), s.remainder)
			if err != nil {
				return err
			}
			for k, v := range kwargs {
				if _, dup := options[k]; dup {
					return &settings.ArgumentError{Path: d.Path(), Token: "--" + k, Reason: "keyword given more than once"}
				}
				options[k] = v
			}
		}
		return s.invoke(cmd.Context(), p, d, args, options)
	}
	return cmd
}

// invoke runs d, prints the trace and result, and renders a failure card when
// d itself fails. Argument errors are returned.
func (s *session) invoke(ctx context.Context, p *project.Project, d *settings.FunctionDescriptor, args []string, options map[string]string) error {
	if s.cfg.CLI.Trace {
		fmt.Fprintln(s.stderr, traceStyle.Render(">>> "+traceCall(d.Path(), args, options)))
	}

	result, err := p.Invoke(ctx, d.Path(), args, options)
	var ie *settings.InvocationError
	switch {
	case errors.As(err, &ie):
		fmt.Fprint(s.stderr, renderFailure(ie, s.verbose))
		if s.cfg.CLI.ExitOnFailure {
			s.exitCode = 1
		}
		return nil
	case err != nil:
		return err
	}
	return printResult(s.stdout, result)
}

// usageLine renders "name <pos> [opt] [rest...]".
func usageLine(d *settings.FunctionDescriptor) string {
	parts := []string{d.Name()}
	for _, name := range d.Positional() {
		parts = append(parts, "<"+name+">")
	}
	for _, o := range d.Optional() {
		parts = append(parts, "["+o.Name+"]")
	}
	if d.HasVarArgs() {
		parts = append(parts, "["+d.VarArgs()+"...]")
	}
	return strings.Join(parts, " ")
}

func longHelp(d *settings.FunctionDescriptor) string {
	sig := d.Signature()
	if d.Doc() == "" {
		return sig
	}
	return d.Doc() + "\n\nSignature:\n  " + sig
}

// arity checks the number of positional arguments before d is invoked.
func arity(d *settings.FunctionDescriptor) cobra.PositionalArgs {
	required := d.Positional()
	maxArgs := len(required) + len(d.Optional())
	return func(_ *cobra.Command, args []string) error {
		if len(args) < len(required) {
			missing := required[len(args)]
			return &settings.ArgumentError{Path: d.Path(), Token: missing, Reason: "missing required argument"}
		}
		if !d.HasVarArgs() && len(args) > maxArgs {
			return &settings.ArgumentError{Path: d.Path(), Token: args[maxArgs], Reason: fmt.Sprintf("too many positional arguments, at most %d accepted", maxArgs)}
		}
		return nil
	}
}

// traceCall renders "path(a, b, name=value)" from raw tokens.
func traceCall(path string, args []string, options map[string]string) string {
	parts := make([]string, 0, len(args)+len(options))
	for _, a := range args {
		parts = append(parts, settings.FormatLiteral(settings.ParseLiteral(a)))
	}
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		parts = append(parts, k+"="+settings.FormatLiteral(settings.ParseLiteral(options[k])))
	}
	return path + "(" + strings.Join(parts, ", ") + ")"
}

// cutLast splits "a.b.c" into "a.b" and "c".
func cutLast(path string) (prefix, name string, ok bool) {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return "", path, false
	}
	return path[:i], path[i+1:], true
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
