// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
)

type (
	testOwner struct {
		name string
	}

	greetArgs struct {
		Name string `default:"world" help:"who to greet"`
	}

	countArgs struct {
		N int `default:"0"`
	}

	addArgs struct {
		Item string   `arg:"item"`
		More []string `arg:"more,varargs"`
	}

	flagArgs struct {
		Flag bool `default:"true"`
	}

	Widgets struct {
		Store *Store `plugin:"store"`
		Label string

		owner *testOwner
	}

	Store struct {
		items []string
	}

	Broken struct{}

	Params struct {
		Values map[string]int
	}

	Runner struct{}

	runArgs struct {
		Target string `arg:"target"`
	}

	Curated struct{}

	Dynamic struct{}

	Parent struct {
		Child *Store `plugin:"child"`
	}
)

var errBoom = errors.New("boom")

func greet(_ *testOwner, a greetArgs) string { return "hi " + a.Name }

func NewWidgets(o *testOwner) *Widgets {
	return &Widgets{owner: o, Store: &Store{}, Label: "w"}
}

func (w *Widgets) Count(a countArgs) int { return a.N }

func (w *Widgets) OwnerName() string { return w.owner.name }

func (w *Widgets) PluginDoc() string { return "Widget helpers." }

func (w *Widgets) MethodDocs() map[string]string {
	return map[string]string{"Count": "Return n unchanged."}
}

func (w *Widgets) RequiredSettings() map[string][]string {
	return map[string][]string{"count": {"answer"}}
}

func (s *Store) Add(a addArgs) int {
	s.items = append(s.items, a.Item)
	s.items = append(s.items, a.More...)
	return len(s.items)
}

func NewBroken(*testOwner) (*Broken, error) { return nil, errBoom }

func (b *Broken) Anything() {}

func (p *Params) Total() int {
	total := 0
	for _, v := range p.Values {
		total += v
	}
	return total
}

func (r *Runner) Call(a runArgs) string { return "ran " + a.Target }

func (r *Runner) Other() string { return "other" }

func (c *Curated) PluginMembers() []string { return []string{"Visible"} }

func (c *Curated) Visible() string { return "visible" }

func (c *Curated) Hidden() string { return "hidden" }

func (d *Dynamic) Lookup(name string) (any, bool, error) {
	switch name {
	case "good":
		return 42, true, nil
	case "bad":
		return nil, true, errBoom
	default:
		return nil, false, nil
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRegistry(t *testing.T, symbols Symbols, opts ...RegistryOption) (*Registry, *testOwner) {
	t.Helper()
	owner := &testOwner{name: "owner"}
	opts = append([]RegistryOption{WithLogger(discardLogger())}, opts...)
	r := NewRegistry(owner, opts...)
	r.Register(symbols)
	return r, owner
}

func widgetSymbols() Symbols {
	return Symbols{
		"greet":   Func(greet, "Say hello.\n\nGreets someone by name."),
		"widgets": Plugin(NewWidgets, ""),
		"answer":  42,
		"_hidden": 1,
	}
}

func mustFunction(t *testing.T, r *Registry, path string) *FunctionDescriptor {
	t.Helper()
	d, ok := r.Functions[path]
	if !ok {
		t.Fatalf("function %q not registered; have %v", path, r.FunctionPaths())
	}
	return d
}

func ctxKeyValue(ctx context.Context) string {
	v, _ := ctx.Value(ctxKey{}).(string)
	return v
}

type ctxKey struct{}
