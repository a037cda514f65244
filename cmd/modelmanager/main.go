// SPDX-License-Identifier: MPL-2.0

// Command modelmanager runs projects whose configuration is a settings file
// or a Go plugin module (a .so settings file exporting Symbols). Projects
// with compiled functions and plugins call commandline.Main from their own
// binary instead.
package main

import "github.com/modelmanager/modelmanager/pkg/commandline"

func main() {
	commandline.Main(nil)
}
