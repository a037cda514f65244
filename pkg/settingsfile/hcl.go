// SPDX-License-Identifier: MPL-2.0

package settingsfile

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"github.com/zclconf/go-cty/cty/gocty"
)

// hclFunctions are callable from HCL settings files.
var hclFunctions = map[string]function.Function{
	"abs":       stdlib.AbsoluteFunc,
	"coalesce":  stdlib.CoalesceFunc,
	"concat":    stdlib.ConcatFunc,
	"format":    stdlib.FormatFunc,
	"join":      stdlib.JoinFunc,
	"keys":      stdlib.KeysFunc,
	"length":    stdlib.LengthFunc,
	"lower":     stdlib.LowerFunc,
	"max":       stdlib.MaxFunc,
	"merge":     stdlib.MergeFunc,
	"min":       stdlib.MinFunc,
	"replace":   stdlib.ReplaceFunc,
	"split":     stdlib.SplitFunc,
	"substr":    stdlib.SubstrFunc,
	"trimspace": stdlib.TrimSpaceFunc,
	"upper":     stdlib.UpperFunc,
	"values":    stdlib.ValuesFunc,
}

// evalHCL evaluates the top-level attributes of an HCL file. Attributes may
// reference each other in any order, as well as project_dir and env.NAME.
func evalHCL(ctx context.Context, src Source) (map[string]any, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src.Data, src.Path)
	if diags.HasErrors() {
		return nil, diags
	}
	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"project_dir": cty.StringVal(src.Root),
			"env":         environment(),
		},
		Functions: hclFunctions,
	}

	pending := maps.Clone(map[string]*hcl.Attribute(attrs))
	values := make(map[string]cty.Value, len(attrs))
	for len(pending) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		progressed := false
		for _, name := range slices.Sorted(maps.Keys(pending)) {
			attr := pending[name]
			if !resolvable(attr, pending) {
				continue
			}
			v, diags := attr.Expr.Value(evalCtx)
			if diags.HasErrors() {
				return nil, diags
			}
			evalCtx.Variables[name] = v
			values[name] = v
			delete(pending, name)
			progressed = true
		}
		if !progressed {
			return nil, fmt.Errorf("%s: circular reference between %s", src.Path, strings.Join(slices.Sorted(maps.Keys(pending)), ", "))
		}
	}

	out := make(map[string]any, len(values))
	for name, v := range values {
		native, err := ctyToNative(v)
		if err != nil {
			return nil, fmt.Errorf("%s: attribute %q: %w", src.Path, name, err)
		}
		out[name] = native
	}
	return out, nil
}

// resolvable reports whether every attribute attr refers to has been
// evaluated. References to unknown names are left for evaluation to report.
func resolvable(attr *hcl.Attribute, pending map[string]*hcl.Attribute) bool {
	for _, tr := range attr.Expr.Variables() {
		root := tr.RootName()
		if root == attr.Name {
			continue
		}
		if _, waiting := pending[root]; waiting {
			return false
		}
	}
	return true
}

func environment() cty.Value {
	env := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok && k != "" {
			env[k] = cty.StringVal(v)
		}
	}
	if len(env) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(env)
}

// ctyToNative converts a cty value to the plain Go value set of this package.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsKnown() {
		return nil, fmt.Errorf("value is not known")
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil
	case ty == cty.Bool:
		var b bool
		if err := gocty.FromCtyValue(v, &b); err != nil {
			return nil, err
		}
		return b, nil
	case ty == cty.Number:
		var i int
		if err := gocty.FromCtyValue(v, &i); err == nil {
			return i, nil
		}
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("could not convert number: %w", err)
		}
		return f, nil
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, e := it.Element()
			native, err := ctyToNative(e)
			if err != nil {
				return nil, err
			}
			out = append(out, native)
		}
		return out, nil
	case ty.IsMapType() || ty.IsObjectType():
		out := make(map[string]any)
		for it := v.ElementIterator(); it.Next(); {
			k, e := it.Element()
			native, err := ctyToNative(e)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k.AsString(), err)
			}
			out[k.AsString()] = native
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
}
