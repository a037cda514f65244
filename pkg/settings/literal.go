// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/literal"
	"cuelang.org/go/cue/parser"
	"cuelang.org/go/cue/token"
)

var errNotLiteral = errors.New("not a literal")

// ParseLiteral evaluates s as a literal value and returns the raw string when it
// is not one. Accepted literals are integers, floats, true/false/null (also
// True/False/None), quoted strings, lists and structs of literals:
//
//	ParseLiteral("5")          // 5
//	ParseLiteral("[1, 2.5]")   // []any{1, 2.5}
//	ParseLiteral(`{a: "x"}`)   // map[string]any{"a": "x"}
//	ParseLiteral("Bob")        // "Bob"
//
// No expression is ever evaluated: references, operators and calls all fall
// back to the raw string.
func ParseLiteral(s string) any {
	v, err := parseLiteral(s)
	if err != nil {
		return s
	}
	return v
}

func parseLiteral(s string) (any, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, errNotLiteral
	}
	expr, err := parser.ParseExpr("literal", trimmed)
	if err != nil {
		return nil, errNotLiteral
	}
	return literalValue(expr)
}

func literalValue(n ast.Expr) (any, error) {
	switch x := n.(type) {
	case *ast.BasicLit:
		return basicLiteral(x)
	case *ast.Ident:
		return identLiteral(x.Name)
	case *ast.ParenExpr:
		return literalValue(x.X)
	case *ast.UnaryExpr:
		if x.Op != token.SUB && x.Op != token.ADD {
			return nil, errNotLiteral
		}
		v, err := literalValue(x.X)
		if err != nil {
			return nil, err
		}
		neg := x.Op == token.SUB
		switch num := v.(type) {
		case int:
			if neg {
				return -num, nil
			}
			return num, nil
		case float64:
			if neg {
				return -num, nil
			}
			return num, nil
		}
		return nil, errNotLiteral
	case *ast.ListLit:
		out := make([]any, 0, len(x.Elts))
		for _, e := range x.Elts {
			v, err := literalValue(e)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case *ast.StructLit:
		out := make(map[string]any, len(x.Elts))
		for _, d := range x.Elts {
			f, ok := d.(*ast.Field)
			if !ok {
				return nil, errNotLiteral
			}
			name, _, err := ast.LabelName(f.Label)
			if err != nil {
				return nil, errNotLiteral
			}
			v, err := literalValue(f.Value)
			if err != nil {
				return nil, err
			}
			out[name] = v
		}
		return out, nil
	}
	return nil, errNotLiteral
}

func basicLiteral(x *ast.BasicLit) (any, error) {
	switch x.Kind {
	case token.INT:
		i, err := strconv.ParseInt(strings.ReplaceAll(x.Value, "_", ""), 0, 64)
		if err != nil {
			return nil, errNotLiteral
		}
		return int(i), nil
	case token.FLOAT:
		f, err := strconv.ParseFloat(strings.ReplaceAll(x.Value, "_", ""), 64)
		if err != nil {
			return nil, errNotLiteral
		}
		return f, nil
	case token.STRING:
		s, err := literal.Unquote(x.Value)
		if err != nil {
			return nil, errNotLiteral
		}
		return s, nil
	case token.TRUE:
		return true, nil
	case token.FALSE:
		return false, nil
	case token.NULL:
		return nil, nil
	}
	return nil, errNotLiteral
}

func identLiteral(name string) (any, error) {
	switch name {
	case "true", "True":
		return true, nil
	case "false", "False":
		return false, nil
	case "null", "None":
		return nil, nil
	}
	return nil, errNotLiteral
}

// FormatLiteral renders v the way ParseLiteral reads it back, for signatures
// and call traces.
func FormatLiteral(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(x)
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = FormatLiteral(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = strconv.Quote(k) + ": " + FormatLiteral(x[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
