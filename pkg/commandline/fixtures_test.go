// SPDX-License-Identifier: MPL-2.0

package commandline

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/modelmanager/modelmanager/internal/config"
	"github.com/modelmanager/modelmanager/internal/testutil"
	"github.com/modelmanager/modelmanager/pkg/settings"
)

type (
	greetArgs struct {
		Name string `default:"world" help:"who to greet"`
	}

	toggleArgs struct {
		Flag bool `default:"true" help:"the switch"`
	}

	buildArgs struct {
		Dry bool `default:"false" help:"only print the plan"`
	}

	collectArgs struct {
		Opts map[string]any `arg:"opts,kwargs"`
	}

	addArgs struct {
		Item string   `arg:"item"`
		More []string `arg:"more,varargs"`
	}

	countArgs struct {
		N int `default:"0"`
	}

	Widgets struct{}

	Runner struct{}

	runArgs struct {
		Target string `arg:"target"`
	}

	// staticConfig serves a fixed tool configuration.
	staticConfig struct {
		cfg *config.Config
	}

	result struct {
		stdout string
		stderr string
		err    error
	}
)

var errBoom = errors.New("boom")

func (s staticConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	c := *s.cfg
	return &c, nil
}

func greet(a greetArgs) string { return "hi " + a.Name }

func toggle(a toggleArgs) bool { return a.Flag }

func build(a buildArgs) bool { return a.Dry }

func collect(a collectArgs) map[string]any { return a.Opts }

func add(a addArgs) int { return 1 + len(a.More) }

func fails() error { return errBoom }

func NewWidgets() *Widgets { return &Widgets{} }

func (w *Widgets) PluginDoc() string { return "Widget helpers." }

func (w *Widgets) Count(a countArgs) int { return a.N }

func (w *Widgets) RequiredSettings() map[string][]string {
	return map[string][]string{"count": {"widget_db"}}
}

func (r *Runner) Call(a runArgs) string { return "ran " + a.Target }

func testModule() settings.Symbols {
	return settings.Symbols{
		"greet":   settings.Func(greet, "Say hello.\n\nGreets someone by name."),
		"toggle":  toggle,
		"build":   build,
		"collect": collect,
		"add":     add,
		"fails":   fails,
		"widgets": settings.Plugin(NewWidgets, ""),
		"run":     settings.Plugin(func() *Runner { return &Runner{} }, "Run a target."),
	}
}

// newProjectDir creates a project root with a CUE settings file.
func newProjectDir(t *testing.T) string {
	t.Helper()
	return testutil.NewSettingsProject(t, ".cue", "answer: 42\n")
}

// run executes args against the project in dir with cfg as tool config.
func run(t *testing.T, module settings.Symbols, cfg *config.Config, dir string, args ...string) result {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	var stdout, stderr bytes.Buffer
	c := New(module,
		WithStdout(&stdout),
		WithStderr(&stderr),
		WithConfigProvider(staticConfig{cfg: cfg}),
	)
	err := c.Execute(t.Context(), append([]string{"-p", dir}, args...))
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func (r result) mustSucceed(t *testing.T) result {
	t.Helper()
	if r.err != nil {
		t.Fatalf("Execute() error = %v\nstderr: %s", r.err, r.stderr)
	}
	return r
}

func (r result) out() string { return strings.TrimSpace(r.stdout) }
