// SPDX-License-Identifier: MPL-2.0

package commandline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/modelmanager/modelmanager/internal/config"
	"github.com/modelmanager/modelmanager/pkg/project"
	"github.com/modelmanager/modelmanager/pkg/settings"
)

const appName = config.AppName

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
)

type (
	// CLI builds and runs the command line of a configuration module.
	CLI struct {
		module  settings.Symbols
		stdout  io.Writer
		stderr  io.Writer
		configs config.Provider
		version string
	}

	// Option configures a CLI.
	Option func(*CLI)

	// session is the state of one execution: the parsed global flags, the
	// tool configuration and the loaded project.
	session struct {
		*CLI
		globals globalFlags
		cfg     *config.Config
		logger  *slog.Logger
		verbose bool

		project *project.Project
		loadErr error

		remainder      []string
		remainderFound bool
		exitCode       int

		// nested is set for the command tree a watch run executes.
		nested bool
	}
)

// WithStdout sets the writer results are printed to.
func WithStdout(w io.Writer) Option {
	return func(c *CLI) { c.stdout = w }
}

// WithStderr sets the writer traces, logs and failures are printed to.
func WithStderr(w io.Writer) Option {
	return func(c *CLI) { c.stderr = w }
}

// WithConfigProvider replaces the tool configuration source.
func WithConfigProvider(p config.Provider) Option {
	return func(c *CLI) { c.configs = p }
}

// WithVersion sets the version shown by --version.
func WithVersion(v string) Option {
	return func(c *CLI) { c.version = v }
}

// New returns the CLI of module. A nil module is allowed: the project then
// consists of its settings file only.
func New(module settings.Symbols, opts ...Option) *CLI {
	c := &CLI{
		module:  module.Clone(),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		configs: config.NewProvider(),
		version: versionString(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Execute runs the command line args. Failures of the invoked function are
// rendered to stderr and only returned, as an *ExitError, when the tool
// config sets cli.exit_on_failure. Argument and discovery errors are
// rendered and returned.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	s, root := c.prepare(ctx, args)
	err := root.ExecuteContext(ctx)
	if err != nil {
		renderError(s.stderr, err, s.verbose, s.glamourStyle(), s.logger)
		return err
	}
	if s.exitCode != 0 {
		return &ExitError{Code: s.exitCode}
	}
	return nil
}

// Main runs the CLI of module on os.Args with fang styling and exits.
func Main(module settings.Symbols, opts ...Option) {
	c := New(module, opts...)
	ctx := context.Background()
	s, root := c.prepare(ctx, os.Args[1:])

	err := fang.Execute(ctx, root,
		fang.WithVersion(c.version),
		fang.WithNotifySignal(os.Interrupt),
	)
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
	os.Exit(s.exitCode)
}

// prepare scans the global flags, loads the tool configuration and the
// project, and builds the command tree for args.
func (c *CLI) prepare(ctx context.Context, args []string) (*session, *cobra.Command) {
	s := &session{CLI: c, globals: prescan(args)}

	cfg, err := c.configs.Load(ctx, s.configOptions())
	if err != nil || cfg == nil {
		if err != nil {
			fmt.Fprintln(c.stderr, warningStyle.Render("Warning: ")+formatErrorForDisplay(err, s.globals.verbose))
		}
		cfg = config.DefaultConfig()
	}
	s.cfg = cfg
	s.verbose = s.globals.verbose || cfg.UI.Verbose
	s.logger = newLogger(c.stderr, s.verbose)

	s.project, s.loadErr = project.New(ctx, s.globals.projectDir,
		project.WithModule(c.module),
		project.WithSettingsFile(cfg.SettingsFile),
		project.WithLogger(s.logger),
	)

	root := s.newRootCommand()
	head, tail, found := splitRemainder(root, args)
	s.remainder, s.remainderFound = tail, found
	root.SetArgs(head)
	return s, root
}

func (s *session) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Run the functions and plugins of a project",
		Version:       s.version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: titleStyle.Render(appName) + subtitleStyle.Render(" - run the functions and plugins of a project") + `

Every function of the project's configuration module is a command, and every
plugin a group of commands. Optional arguments become flags, boolean ones a
--name / --not-name pair.

` + subtitleStyle.Render("Examples:") + `
  modelmanager setup                 Create a starter settings file
  modelmanager list                  List every command with its signature
  modelmanager greet Bob             Call greet with name="Bob"
  modelmanager models train --epochs=5
  modelmanager -p ../other show greet`,
	}
	root.SetOut(s.stdout)
	root.SetErr(s.stderr)
	root.SetFlagErrorFunc(flagError)

	// The values were read by prescan; the flags are defined so cobra
	// accepts them and lists them in help.
	var ignored globalFlags
	registerGlobalFlags(root.PersistentFlags(), &ignored)

	if s.project != nil {
		s.addProjectCommands(root, s.project)
	} else {
		root.Args = cobra.ArbitraryArgs
		root.RunE = func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			s.fail(s.loadErr)
			return nil
		}
	}
	s.addBuiltins(root)
	return root
}

// addBuiltins adds the builtin commands whose names no project command uses.
func (s *session) addBuiltins(root *cobra.Command) {
	for _, cmd := range []*cobra.Command{
		s.newSetupCommand(),
		s.newListCommand(),
		s.newShowCommand(),
		s.newWatchCommand(),
		s.newConfigCommand(),
	} {
		if s.nested && cmd.Name() == "watch" {
			continue
		}
		if childNamed(root, cmd.Name()) != nil {
			s.logger.Debug("builtin command replaced by project command", "command", cmd.Name())
			continue
		}
		root.AddCommand(cmd)
	}
}

// requireProject returns the loaded project or the error that prevented
// loading it.
func (s *session) requireProject() (*project.Project, error) {
	if s.project == nil {
		return nil, s.loadErr
	}
	return s.project, nil
}

// glamourStyle maps the configured color scheme to a glamour style.
func (s *session) glamourStyle() string {
	switch s.cfg.UI.ColorScheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		return "auto"
	}
}

// fail renders err with its issue page and sets exit code 1.
func (s *session) fail(err error) {
	renderError(s.stderr, err, s.verbose, s.glamourStyle(), s.logger)
	s.exitCode = 1
}

func versionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}
