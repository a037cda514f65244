// SPDX-License-Identifier: MPL-2.0

package commandline

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/modelmanager/modelmanager/pkg/settings"
)

// kwargsAnnotation marks a leaf command whose function collects unknown
// keywords; its value is the name of the remainder flag.
const kwargsAnnotation = "modelmanager/kwargs"

// splitRemainder walks args down the command tree from root and, when the
// addressed leaf collects keywords, cuts everything after its "--<kwargs>"
// flag off. It returns the arguments for cobra, the cut tokens and whether a
// remainder flag was found.
func splitRemainder(root *cobra.Command, args []string) (head, tail []string, found bool) {
	cmd := root
	for i := 0; i < len(args); i++ {
		tok := args[i]
		if tok == "--" {
			break
		}
		if strings.HasPrefix(tok, "-") {
			if name := cmd.Annotations[kwargsAnnotation]; name != "" {
				flag, _, _ := strings.Cut(tok, "=")
				if flag == "--"+name {
					rest := args[i+1:]
					if _, value, ok := strings.Cut(tok, "="); ok {
						rest = append([]string{value}, rest...)
					}
					return args[:i:i], rest, true
				}
			}
			if takesValue(root, tok) {
				i++
			}
			continue
		}
		if sub := childNamed(cmd, tok); sub != nil {
			cmd = sub
		}
	}
	return args, nil, false
}

// takesValue reports whether tok is a persistent root flag given without
// "=value", so the next token is its value.
func takesValue(root *cobra.Command, tok string) bool {
	if strings.Contains(tok, "=") {
		return false
	}
	name := strings.TrimLeft(tok, "-")
	fs := root.PersistentFlags()
	f := fs.Lookup(name)
	if !strings.HasPrefix(tok, "--") && len(name) == 1 {
		f = fs.ShorthandLookup(name)
	}
	return f != nil && f.Value.Type() != "bool"
}

func childNamed(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name || c.HasAlias(name) {
			return c
		}
	}
	return nil
}

// parseKwargs reads keyword tokens in any of the forms "--key value",
// "--key=value", "key=value" and "key value".
func parseKwargs(path string, tokens []string) (map[string]string, error) {
	out := make(map[string]string)
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		key, value, inline := strings.Cut(strings.TrimPrefix(tok, "--"), "=")
		switch {
		case strings.HasPrefix(tok, "-") && !strings.HasPrefix(tok, "--"):
			return nil, &settings.ArgumentError{Path: path, Token: tok, Reason: "keyword arguments take the form --key value or key=value"}
		case key == "":
			return nil, &settings.ArgumentError{Path: path, Token: tok, Reason: "empty keyword"}
		case !inline && i+1 >= len(tokens):
			return nil, &settings.ArgumentError{Path: path, Token: tok, Reason: "keyword has no value"}
		case !inline:
			i++
			value = tokens[i]
		}
		if _, dup := out[key]; dup {
			return nil, &settings.ArgumentError{Path: path, Token: tok, Reason: "keyword given more than once"}
		}
		out[key] = value
	}
	return out, nil
}
