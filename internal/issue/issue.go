// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	SettingsNotFoundId Id = iota + 1
	SettingsParseErrorId
	UndefinedPathId
	ArgumentErrorId
	InvocationFailedId
	PluginConstructionFailedId
	ConfigLoadFailedId
	ResourceDirExistsId
	GoPluginUnsupportedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the page with glamour. An empty stylePath uses the dark
// style.
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range append(i.DocLinks(), i.extLinks...) {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	if stylePath == "" {
		stylePath = "dark"
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	settingsNotFoundIssue = &Issue{
		id: SettingsNotFoundId,
		mdMsg: `
# No settings file found!

A project is a directory with a settings file in one of its direct
subdirectories, usually ` + "`.mm/settings.cue`" + `.

## Things you can try:
- Create the resource directory and a starter settings file:
~~~
$ modelmanager setup
~~~

- Pick another format:
~~~
$ modelmanager setup --format hcl
~~~

- Point at the project from elsewhere:
~~~
$ modelmanager -p /path/to/project list
~~~

- Use a different file name in your tool configuration:
~~~cue
settings_file: "project.toml"
~~~`,
	}

	settingsParseErrorIssue = &Issue{
		id: SettingsParseErrorId,
		mdMsg: `
# Failed to evaluate the settings file!

The settings file contains a syntax error or a value that does not satisfy
its own constraints.

## Common issues:
- CUE: conflicting values, or a field violating a ` + "`#Settings`" + ` definition
- HCL: attributes that reference each other in a cycle, or unknown variables
- TOML/YAML: invalid syntax, or a top level that is not a table/mapping

## Things you can try:
- Check the file and position named in the message above
- Run with verbose mode for the full error chain:
~~~
$ modelmanager --verbose list
~~~`,
	}

	undefinedPathIssue = &Issue{
		id: UndefinedPathId,
		mdMsg: `
# Name not found!

The dotted path does not name a variable, function or plugin of this project.
A plugin whose constructor failed is absent as well.

## Things you can try:
- List the available functions:
~~~
$ modelmanager list
~~~

- Check for typos; methods use snake_case names, e.g. ` + "`widgets.add_item`" + `
- Run with ` + "`--verbose`" + ` to see plugin construction failures`,
	}

	argumentErrorIssue = &Issue{
		id: ArgumentErrorId,
		mdMsg: `
# Invalid arguments!

The arguments do not match the function's signature.

## Things you can try:
- Show the signature and argument help:
~~~
$ modelmanager <function> --help
~~~

- Values are read as literals when possible: ` + "`3`" + `, ` + "`2.5`" + `, ` + "`true`" + `,
  ` + "`[1, 2]`" + `, ` + "`{a: 1}`" + `. Quote them to force a string.
- Keyword arguments after ` + "`--<kwargs>`" + ` are pairs: ` + "`--key value`" + `,
  ` + "`--key=value`" + `, ` + "`key=value`" + ` or ` + "`key value`" + `.`,
	}

	invocationFailedIssue = &Issue{
		id: InvocationFailedId,
		mdMsg: `
# The function failed!

The function returned an error or panicked. Its source location is shown
above.

## Things you can try:
- Run with verbose mode to see the stack trace:
~~~
$ modelmanager --verbose <function>
~~~

- Check the settings the function depends on:
~~~
$ modelmanager list
~~~`,
	}

	pluginConstructionFailedIssue = &Issue{
		id: PluginConstructionFailedId,
		mdMsg: `
# A plugin could not be constructed!

The plugin's constructor returned an error or panicked. The rest of the
project is still available; only this plugin and its commands are missing.

## Things you can try:
- Run with verbose mode to see the constructor's error:
~~~
$ modelmanager --verbose list
~~~

- Check the settings the plugin reads when it is constructed`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the modelmanager configuration file.

## Configuration file locations:
- Linux: ~/.config/modelmanager/config.cue
- macOS: ~/Library/Application Support/modelmanager/config.cue
- Windows: %APPDATA%\modelmanager\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ modelmanager config init
~~~

- Check the configuration syntax
- Remove the config file to use defaults

## Example configuration:
~~~cue
settings_file: "settings.cue"
resource_dir:  ".mm"

ui: {
  color_scheme: "auto"
  verbose: false
}

cli: {
  trace: true
  exit_on_failure: false
}
~~~`,
	}

	resourceDirExistsIssue = &Issue{
		id: ResourceDirExistsId,
		mdMsg: `
# The project is already set up!

The resource directory already exists. ` + "`setup`" + ` does not overwrite it.

## Things you can try:
- Overwrite the settings file with a fresh template:
~~~
$ modelmanager setup --force
~~~

- Use another resource directory:
~~~
$ modelmanager setup --resourcedir .settings
~~~`,
	}

	goPluginUnsupportedIssue = &Issue{
		id: GoPluginUnsupportedId,
		mdMsg: `
# Go plugin modules are not supported here!

A ` + "`.so`" + ` settings module needs a platform where Go's plugin package works
(Linux, FreeBSD or macOS) and a binary built with cgo enabled.

## Things you can try:
- Use a data settings file (CUE, HCL, TOML or YAML) for variables
- Compile your functions and plugins into your own binary with
  ` + "`commandline.Main(module)`",
	}

	issues = map[Id]*Issue{
		settingsNotFoundIssue.Id():         settingsNotFoundIssue,
		settingsParseErrorIssue.Id():       settingsParseErrorIssue,
		undefinedPathIssue.Id():            undefinedPathIssue,
		argumentErrorIssue.Id():            argumentErrorIssue,
		invocationFailedIssue.Id():         invocationFailedIssue,
		pluginConstructionFailedIssue.Id(): pluginConstructionFailedIssue,
		configLoadFailedIssue.Id():         configLoadFailedIssue,
		resourceDirExistsIssue.Id():        resourceDirExistsIssue,
		goPluginUnsupportedIssue.Id():      goPluginUnsupportedIssue,
	}
)

// Values returns every catalog page, ordered by Id.
func Values() []*Issue {
	out := maps.Values(issues)
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id - b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
