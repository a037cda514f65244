// SPDX-License-Identifier: MPL-2.0

package commandline

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/modelmanager/modelmanager/internal/watch"
	"github.com/modelmanager/modelmanager/pkg/project"
)

type watchFlags struct {
	patterns []string
	ignore   []string
	debounce time.Duration
	clear    bool
}

// newWatchCommand creates the `watch` command.
func (s *session) newWatchCommand() *cobra.Command {
	var wf watchFlags
	cmd := &cobra.Command{
		Use:   "watch [flags] <command> [args...]",
		Short: "Run a command and run it again whenever project files change",
		Long: `Run a command once, then reload the project and run the command again
every time a watched file under the project root changes.

Patterns are doublestar globs relative to the project root, e.g. "**/*.cue".
Without patterns every file that is not ignored is watched.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := s.requireProject()
			if err != nil {
				s.fail(err)
				return nil
			}
			return s.runWatch(cmd.Context(), p, wf, args)
		},
	}
	// Flags after the watched command belong to it.
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringSliceVar(&wf.patterns, "pattern", nil, "glob of files to watch (repeatable)")
	cmd.Flags().StringSliceVar(&wf.ignore, "ignore", nil, "glob of files to ignore (repeatable)")
	cmd.Flags().DurationVar(&wf.debounce, "debounce", 0, "quiet period before re-running (default from the tool config)")
	cmd.Flags().BoolVar(&wf.clear, "clear", false, "clear the screen before each run")
	return cmd
}

func (s *session) runWatch(ctx context.Context, p *project.Project, wf watchFlags, args []string) error {
	debounce := wf.debounce
	if debounce <= 0 {
		d, err := s.cfg.Watch.DebounceDuration()
		if err != nil {
			return err
		}
		debounce = d
	}
	patterns := wf.patterns
	if len(patterns) == 0 {
		patterns = s.cfg.Watch.Patterns
	}

	w, err := watch.New(watch.Config{
		Patterns:    patterns,
		Ignore:      slices.Concat(s.cfg.Watch.Ignore, wf.ignore),
		Debounce:    debounce,
		ClearScreen: wf.clear,
		RunOnStart:  true,
		BaseDir:     p.Dir(),
		Stdout:      s.stdout,
		Logger:      s.logger,
		OnChange: func(ctx context.Context, changed []string) error {
			if len(changed) > 0 {
				fmt.Fprintf(s.stderr, "%s %d change(s), reloading\n", cmdStyle.Render("→"), len(changed))
				if err := p.Reload(ctx, nil); err != nil {
					renderError(s.stderr, err, s.verbose, s.glamourStyle(), s.logger)
					return nil
				}
			}
			s.runNested(ctx, p, args)
			fmt.Fprintf(s.stderr, "\n%s Watching %s for changes (Ctrl+C to stop)\n", cmdStyle.Render("→"), p.Dir())
			return nil
		},
	})
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	return w.Run(ctx)
}

// runNested runs args against p with a fresh command tree, so commands added
// or removed by a reload are picked up.
func (s *session) runNested(ctx context.Context, p *project.Project, args []string) {
	inner := &session{
		CLI:     s.CLI,
		globals: s.globals,
		cfg:     s.cfg,
		logger:  s.logger,
		verbose: s.verbose,
		project: p,
		nested:  true,
	}
	root := inner.newRootCommand()
	head, tail, found := splitRemainder(root, args)
	inner.remainder, inner.remainderFound = tail, found
	root.SetArgs(head)
	if err := root.ExecuteContext(ctx); err != nil {
		renderError(s.stderr, err, s.verbose, s.glamourStyle(), s.logger)
	}
}
