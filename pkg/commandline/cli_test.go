// SPDX-License-Identifier: MPL-2.0

package commandline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelmanager/modelmanager/internal/config"
	"github.com/modelmanager/modelmanager/internal/testutil"
	"github.com/modelmanager/modelmanager/pkg/settings"
)

func TestExecuteFunctions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"default applies", []string{"greet"}, "hi world"},
		{"positional", []string{"greet", "Bob"}, "hi Bob"},
		{"long flag", []string{"greet", "--name=Bob"}, "hi Bob"},
		{"long flag separate value", []string{"greet", "--name", "Bob"}, "hi Bob"},
		{"shorthand", []string{"greet", "-n", "Bob"}, "hi Bob"},
		{"plugin method", []string{"widgets", "count", "--n=5"}, "5"},
		{"plugin method positional", []string{"widgets", "count", "3"}, "3"},
		{"callable plugin", []string{"run", "build"}, "ran build"},
		{"bool default", []string{"toggle"}, "true"},
		{"bool negated", []string{"toggle", "--not-flag"}, "false"},
		{"bool explicit", []string{"toggle", "--flag=false"}, "false"},
		{"bool redundant positive", []string{"toggle", "--flag"}, "true"},
		{"bool positive shorthand", []string{"toggle", "-f"}, "true"},
		{"false default", []string{"build"}, "false"},
		{"false default enabled", []string{"build", "--dry"}, "true"},
		{"false default shorthand", []string{"build", "-d"}, "true"},
		{"false default redundant negative", []string{"build", "--not-dry"}, "false"},
		{"varargs", []string{"add", "a", "b", "c"}, "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := run(t, testModule(), nil, newProjectDir(t), tt.args...).mustSucceed(t)
			if r.out() != tt.want {
				t.Errorf("%v printed %q, want %q", tt.args, r.out(), tt.want)
			}
		})
	}
}

func TestExecuteKeywordRemainder(t *testing.T) {
	t.Parallel()

	r := run(t, testModule(), nil, newProjectDir(t), "collect", "--opts", "a", "1", "--b=x", "c=3").mustSucceed(t)
	for _, want := range []string{"a: 1", `b: "x"`, "c: 3"} {
		if !strings.Contains(r.stdout, want) {
			t.Errorf("collect printed %q, want it to contain %q", r.stdout, want)
		}
	}
}

func TestExecuteKeywordRemainderErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		args   []string
		reason string
	}{
		{"single dash", []string{"collect", "--opts", "-x", "1"}, "key value"},
		{"dangling key", []string{"collect", "--opts", "a"}, "no value"},
		{"duplicate key", []string{"collect", "--opts", "a=1", "--a", "2"}, "more than once"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := run(t, testModule(), nil, newProjectDir(t), tt.args...)
			var ae *settings.ArgumentError
			if !errors.As(r.err, &ae) {
				t.Fatalf("Execute(%v) error = %v, want ArgumentError", tt.args, r.err)
			}
			if !strings.Contains(ae.Reason, tt.reason) {
				t.Errorf("Reason = %q, want it to contain %q", ae.Reason, tt.reason)
			}
			if !strings.Contains(r.stderr, "Error:") {
				t.Errorf("stderr = %q, want the rendered error", r.stderr)
			}
		})
	}
}

func TestExecuteArgumentErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		args  []string
		token string
	}{
		{"too many positional", []string{"greet", "a", "b"}, "b"},
		{"missing required", []string{"add"}, "item"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := run(t, testModule(), nil, newProjectDir(t), tt.args...)
			var ae *settings.ArgumentError
			if !errors.As(r.err, &ae) {
				t.Fatalf("Execute(%v) error = %v, want ArgumentError", tt.args, r.err)
			}
			if ae.Token != tt.token {
				t.Errorf("Token = %q, want %q", ae.Token, tt.token)
			}
		})
	}
}

func TestExecuteFlagConversionError(t *testing.T) {
	t.Parallel()

	r := run(t, testModule(), nil, newProjectDir(t), "widgets", "count", "--n=abc")
	if !errors.Is(r.err, settings.ErrArgumentConversion) {
		t.Errorf("Execute() error = %v, want ErrArgumentConversion", r.err)
	}
	if r.stdout != "" {
		t.Errorf("stdout = %q, the function must not run", r.stdout)
	}
}

func TestExecuteBoolPairExclusive(t *testing.T) {
	t.Parallel()

	r := run(t, testModule(), nil, newProjectDir(t), "toggle", "--flag", "--not-flag")
	if r.err == nil {
		t.Fatal("Execute(toggle --flag --not-flag) succeeded, want an error")
	}
}

func TestLeafHelpShowsInactiveBoolDirectionOnly(t *testing.T) {
	t.Parallel()

	r := run(t, testModule(), nil, newProjectDir(t), "toggle", "--help").mustSucceed(t)
	if !strings.Contains(r.stdout, "--not-flag") || !strings.Contains(r.stdout, "(disable flag)") {
		t.Errorf("help = %q, want the --not-flag direction", r.stdout)
	}
	if strings.Contains(r.stdout, "(enable flag)") {
		t.Errorf("help = %q, the flag defaults to true so --flag must be hidden", r.stdout)
	}
}

func TestLeafHelpFalseDefaultShowsEnableDirection(t *testing.T) {
	t.Parallel()

	r := run(t, testModule(), nil, newProjectDir(t), "build", "--help").mustSucceed(t)
	if !strings.Contains(r.stdout, "--dry") || !strings.Contains(r.stdout, "(enable dry)") {
		t.Errorf("help = %q, want the --dry direction", r.stdout)
	}
	if strings.Contains(r.stdout, "not-dry") || strings.Contains(r.stdout, "(disable dry)") {
		t.Errorf("help = %q, the flag defaults to false so --not-dry must be hidden", r.stdout)
	}
}

func TestEmptyOptionIsGiven(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		settings string
		args     []string
	}{
		{"inline", "answer: 42\n", []string{"greet", "--name="}},
		{"separate", "answer: 42\n", []string{"greet", "--name", ""}},
		{"inline over setting", "greet_name: \"ops\"\n", []string{"greet", "--name="}},
		{"separate over setting", "greet_name: \"ops\"\n", []string{"greet", "--name", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := testutil.NewSettingsProject(t, ".cue", tt.settings)
			r := run(t, testModule(), nil, dir, tt.args...).mustSucceed(t)
			if r.stdout != "hi \n" {
				t.Errorf("%q printed %q, want the explicit empty name", tt.args, r.stdout)
			}
		})
	}
}

func TestGroupCommandListsMembers(t *testing.T) {
	t.Parallel()

	r := run(t, testModule(), nil, newProjectDir(t), "widgets").mustSucceed(t)
	if !strings.Contains(r.stdout, "count") || !strings.Contains(r.stdout, "Widget helpers.") {
		t.Errorf("widgets help = %q", r.stdout)
	}
}

func TestTrace(t *testing.T) {
	t.Parallel()

	dir := newProjectDir(t)

	r := run(t, testModule(), nil, dir, "greet", "Bob").mustSucceed(t)
	if !strings.Contains(r.stderr, `>>> greet("Bob")`) {
		t.Errorf("stderr = %q, want the trace line", r.stderr)
	}

	cfg := config.DefaultConfig()
	cfg.CLI.Trace = false
	r = run(t, testModule(), cfg, dir, "greet", "Bob").mustSucceed(t)
	if strings.Contains(r.stderr, ">>>") {
		t.Errorf("stderr = %q, trace is disabled", r.stderr)
	}
}

func TestInvocationFailure(t *testing.T) {
	t.Parallel()

	dir := newProjectDir(t)

	r := run(t, testModule(), nil, dir, "fails")
	if r.err != nil {
		t.Fatalf("Execute(fails) error = %v, failures exit 0 by default", r.err)
	}
	for _, want := range []string{"fails failed", "boom", "return errBoom"} {
		if !strings.Contains(r.stderr, want) {
			t.Errorf("stderr = %q, want it to contain %q", r.stderr, want)
		}
	}

	cfg := config.DefaultConfig()
	cfg.CLI.ExitOnFailure = true
	r = run(t, testModule(), cfg, dir, "fails")
	var exitErr *ExitError
	if !errors.As(r.err, &exitErr) || exitErr.Code != 1 {
		t.Errorf("Execute(fails) error = %v, want ExitError with code 1", r.err)
	}
}

func TestMissingSettingsFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	r := run(t, testModule(), nil, dir, "greet")
	var exitErr *ExitError
	if !errors.As(r.err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("Execute(greet) error = %v, want ExitError with code 1", r.err)
	}
	if !strings.Contains(r.stderr, "settings.cue") {
		t.Errorf("stderr = %q, want the missing file named", r.stderr)
	}

	// Builtins stay available.
	r = run(t, testModule(), nil, dir, "setup").mustSucceed(t)
	if !strings.Contains(r.stdout, "Created") {
		t.Errorf("setup printed %q", r.stdout)
	}
	if _, err := os.Stat(filepath.Join(dir, testutil.ResourceDir, "settings.cue")); err != nil {
		t.Fatalf("settings file not created: %v", err)
	}

	r = run(t, testModule(), nil, dir, "greet").mustSucceed(t)
	if r.out() != "hi world" {
		t.Errorf("greet after setup printed %q", r.out())
	}
}

func TestSetupRefusesExistingResourceDir(t *testing.T) {
	t.Parallel()

	r := run(t, testModule(), nil, newProjectDir(t), "setup")
	var exitErr *ExitError
	if !errors.As(r.err, &exitErr) {
		t.Fatalf("Execute(setup) error = %v, want ExitError", r.err)
	}
	if !strings.Contains(r.stderr, "Error:") {
		t.Errorf("stderr = %q", r.stderr)
	}
}

func TestProjectCommandOverridesBuiltin(t *testing.T) {
	t.Parallel()

	module := testModule().Merge(settings.Symbols{
		"list": func() string { return "user list" },
	})
	r := run(t, module, nil, newProjectDir(t), "list").mustSucceed(t)
	if r.out() != "user list" {
		t.Errorf("list printed %q, want the project function", r.out())
	}
}

func TestListPlain(t *testing.T) {
	t.Parallel()

	r := run(t, testModule(), nil, newProjectDir(t), "list", "--plain").mustSucceed(t)
	lines := strings.Split(strings.TrimSpace(r.stdout), "\n")
	rows := make(map[string][]string, len(lines))
	for _, line := range lines {
		cols := strings.Split(line, "\t")
		if len(cols) != 3 {
			t.Fatalf("row %q has %d columns, want 3", line, len(cols))
		}
		rows[cols[0]] = cols
	}

	if got := rows["greet"]; got == nil || got[1] != `greet(name="world")` || got[2] != "ready" {
		t.Errorf("greet row = %q", got)
	}
	if got := rows["widgets count"]; got == nil || got[2] != "missing widget_db" {
		t.Errorf("widgets count row = %q", got)
	}
}

func TestListTable(t *testing.T) {
	t.Parallel()

	r := run(t, testModule(), nil, newProjectDir(t), "list").mustSucceed(t)
	for _, want := range []string{"COMMAND", "SIGNATURE", "CONFIGURED", "widgets count"} {
		if !strings.Contains(r.stdout, want) {
			t.Errorf("list = %q, want it to contain %q", r.stdout, want)
		}
	}
}

func TestShow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		want []string
	}{
		{"function", "greet", []string{"# `greet`", "Say hello.", "## Arguments", "`name`"}},
		{"plugin", "widgets", []string{"# `widgets`", "Widget helpers.", "## Commands", "count(n=0)"}},
		{"callable plugin", "run", []string{"# `run`", "run(target)", "required"}},
		{"value", "answer", []string{"# `answer`", "42"}},
		{"required settings", "widgets.count", []string{"## Settings", "`widget_db`: **missing**"}},
	}

	dir := newProjectDir(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := run(t, testModule(), nil, dir, "show", tt.path, "--raw").mustSucceed(t)
			for _, want := range tt.want {
				if !strings.Contains(r.stdout, want) {
					t.Errorf("show %s = %q, want it to contain %q", tt.path, r.stdout, want)
				}
			}
		})
	}
}

func TestShowUndefinedPath(t *testing.T) {
	t.Parallel()

	r := run(t, testModule(), nil, newProjectDir(t), "show", "nope", "--raw")
	if !errors.Is(r.err, settings.ErrUndefinedPath) {
		t.Errorf("Execute(show nope) error = %v, want ErrUndefinedPath", r.err)
	}
}

func TestConfigCommands(t *testing.T) {
	t.Parallel()

	dir := newProjectDir(t)
	cfgPath := filepath.Join(t.TempDir(), "config.cue")

	r := run(t, testModule(), nil, dir, "--config", cfgPath, "config", "path").mustSucceed(t)
	if r.out() != cfgPath {
		t.Errorf("config path printed %q, want %q", r.out(), cfgPath)
	}

	r = run(t, testModule(), nil, dir, "--config", cfgPath, "config", "show").mustSucceed(t)
	if !strings.Contains(r.stdout, "(using defaults)") || !strings.Contains(r.stdout, "settings_file") {
		t.Errorf("config show = %q", r.stdout)
	}

	r = run(t, testModule(), nil, dir, "config", "dump").mustSucceed(t)
	if !strings.Contains(r.stdout, "#Config") {
		t.Errorf("config dump = %q, want the schema", r.stdout)
	}
}

func TestVerboseFlagShowsStack(t *testing.T) {
	t.Parallel()

	module := settings.Symbols{"explode": func() { panic("kaboom") }}
	dir := newProjectDir(t)

	r := run(t, module, nil, dir, "explode")
	if !strings.Contains(r.stderr, "panic: kaboom") || !strings.Contains(r.stderr, "--verbose") {
		t.Errorf("stderr = %q, want the panic and the verbose hint", r.stderr)
	}

	r = run(t, module, nil, dir, "-v", "explode")
	if !strings.Contains(r.stderr, "Stack:") {
		t.Errorf("stderr = %q, want the stack trace", r.stderr)
	}
}
