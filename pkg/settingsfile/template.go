// SPDX-License-Identifier: MPL-2.0

package settingsfile

import "fmt"

// templates are the starter settings files written by setup, by extension.
var templates = map[string]string{
	".cue": `// Project settings. Every public field is a project variable.
// Fields starting with an underscore and #definitions stay private.

project_name: "example"
data_dir:     "data"

// Overrides the default of the greet function's name argument.
greet_name: "world"
`,
	".json": `{
  "project_name": "example",
  "data_dir": "data",
  "greet_name": "world"
}
`,
	".hcl": `# Project settings. Attributes may reference each other and
# project_dir, env.NAME and functions such as upper() and join().

project_name = "example"
data_dir     = "data"
greet_name   = "world"
`,
	".toml": `# Project settings. Every key is a project variable.

project_name = "example"
data_dir = "data"
greet_name = "world"
`,
	".yaml": `# Project settings. Every key is a project variable.

project_name: example
data_dir: data
greet_name: world
`,
}

// Template returns the starter settings file for ext.
func Template(ext string) ([]byte, error) {
	if ext == ".yml" {
		ext = ".yaml"
	}
	t, ok := templates[ext]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnsupportedFormat, ext)
	}
	return []byte(t), nil
}
