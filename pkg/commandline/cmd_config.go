// SPDX-License-Identifier: MPL-2.0

package commandline

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/modelmanager/modelmanager/internal/config"
)

// newConfigCommand creates the `config` command tree.
func (s *session) newConfigCommand() *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the modelmanager tool configuration",
		Long: `Manage the modelmanager tool configuration.

Configuration is stored in:
  - Linux: ~/.config/modelmanager/config.cue
  - macOS: ~/Library/Application Support/modelmanager/config.cue
  - Windows: %APPDATA%\modelmanager\config.cue

Every key can be overridden with an environment variable, e.g.
MODELMANAGER_CLI_TRACE=false.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.FilePath(s.configOptions())
			if err != nil {
				return err
			}
			source := subtitleStyle.Render("(using defaults)")
			if info, statErr := os.Stat(path); statErr == nil && !info.IsDir() {
				source = path
			}
			fmt.Fprintln(s.stdout, titleStyle.Render("Current Configuration"))
			fmt.Fprintf(s.stdout, "%s: %s\n\n", cmdStyle.Render("Config file"), source)
			fmt.Fprint(s.stdout, config.GenerateCUE(s.cfg))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.FilePath(s.configOptions())
			if err != nil {
				return err
			}
			fmt.Fprintln(s.stdout, path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, created, err := config.CreateDefaultConfig()
			if err != nil {
				return fmt.Errorf("create config: %w", err)
			}
			if !created {
				fmt.Fprintf(s.stdout, "%s Configuration already exists at %s\n", warningStyle.Render("!"), path)
				return nil
			}
			fmt.Fprintf(s.stdout, "%s Created default configuration at %s\n", successStyle.Render("✓"), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Print the configuration schema as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprint(s.stdout, config.Schema())
			return nil
		},
	})

	return cfgCmd
}

func (s *session) configOptions() config.LoadOptions {
	return config.LoadOptions{ConfigFilePath: s.globals.configPath}
}
