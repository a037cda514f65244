// SPDX-License-Identifier: MPL-2.0

// Package commandline compiles a project's registry into a cobra command
// tree and runs it.
//
// Every plugin becomes a command group and every registered function a leaf
// command whose positional arguments, flags and help text come from the
// function's descriptor. Builtin commands (setup, list, show, watch and
// config) are added next to the project's commands; a project function with
// the same top-level name replaces the builtin.
//
// A project author embeds the CLI in their own binary:
//
//	func main() {
//		commandline.Main(settings.Symbols{
//			"greet":  settings.Func(greet, "Say hello."),
//			"models": settings.Plugin(NewModels, "Model helpers."),
//		})
//	}
package commandline
