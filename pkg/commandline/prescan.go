// SPDX-License-Identifier: MPL-2.0

package commandline

import (
	"io"

	"github.com/spf13/pflag"
)

// globalFlags are the root flags that must be known before the command tree
// can be built.
type globalFlags struct {
	projectDir string
	configPath string
	verbose    bool
}

// registerGlobalFlags defines the global flags on fs.
func registerGlobalFlags(fs *pflag.FlagSet, g *globalFlags) {
	fs.StringVarP(&g.projectDir, "projectdir", "p", ".", "project root directory")
	fs.StringVar(&g.configPath, "config", "", "tool config file (default is <config dir>/modelmanager/config.cue)")
	fs.BoolVarP(&g.verbose, "verbose", "v", false, "enable verbose output")
}

// prescan reads the global flags from args ignoring everything else. Parsing
// stops at "--" and at a help flag; a malformed global flag is left for cobra
// to report.
func prescan(args []string) globalFlags {
	var g globalFlags
	fs := pflag.NewFlagSet("prescan", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	registerGlobalFlags(fs, &g)
	_ = fs.Parse(args)
	return g
}
