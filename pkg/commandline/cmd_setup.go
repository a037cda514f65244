// SPDX-License-Identifier: MPL-2.0

package commandline

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/modelmanager/modelmanager/pkg/project"
)

// newSetupCommand creates the `setup` command.
func (s *session) newSetupCommand() *cobra.Command {
	var opts project.SetupOptions
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Create the resource directory and a starter settings file",
		Long: `Create the resource directory under the project root and write a starter
settings file into it.

An existing resource directory is left alone unless --force is given, in which
case the settings file is overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.ResourceDir == "" {
				opts.ResourceDir = s.cfg.ResourceDir
			}
			opts.FileName = s.cfg.SettingsFile

			path, err := project.Setup(cmd.Context(), s.globals.projectDir, opts)
			if err != nil {
				s.fail(err)
				return nil
			}
			fmt.Fprintf(s.stdout, "%s Created %s\n", successStyle.Render("✓"), path)

			if name := filepath.Base(path); name != s.cfg.SettingsFile {
				fmt.Fprintf(s.stdout, "%s Set %s in the tool config so the project finds it:\n  %s\n",
					warningStyle.Render("!"),
					cmdStyle.Render(fmt.Sprintf("settings_file: %q", name)),
					subtitleStyle.Render("modelmanager config path"))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.ResourceDir, "resourcedir", "", "resource directory to create (default from the tool config)")
	cmd.Flags().StringVar(&opts.Format, "format", "", "settings format: cue, json, hcl, toml or yaml")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "overwrite the settings file in an existing resource directory")
	return cmd
}
