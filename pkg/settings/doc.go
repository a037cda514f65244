// SPDX-License-Identifier: MPL-2.0

// Package settings turns a loosely structured symbol table into a dotted,
// addressable namespace of variables, functions and plugins.
//
// A module is a Symbols map. Each entry is classified (see Classify) as a
// variable, a function, an eagerly constructed plugin class or a lazily
// constructed property plugin. A Registry registers the classified symbols,
// recursively walks plugin instances for exported methods and nested plugins,
// and records one FunctionDescriptor per callable under its dotted path.
//
// Functions declare their parameters with an arguments struct:
//
//	type GreetArgs struct {
//		Name string `default:"world" help:"who to greet"`
//	}
//
//	settings.Symbols{
//		"greet": settings.Func(func(p *project.Project, a GreetArgs) string {
//			return "hi " + a.Name
//		}, "Say hello."),
//		"widgets": settings.Plugin(NewWidgets, "Widget helpers."),
//	}
//
// Fields tagged `arg:"name"` (or untagged) are required positionals, fields with
// a `default` tag or the `optional` option are optional, and the `varargs` and
// `kwargs` options collect extra positional and keyword arguments.
//
// The Invoker converts raw command-line strings with ParseLiteral and Coerce,
// fills omitted optionals from project-level override variables, and isolates
// failures of the called function in an InvocationError.
package settings
