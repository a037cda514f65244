// SPDX-License-Identifier: MPL-2.0

// Package project binds a configuration module to a project directory.
//
// A Project owns the settings loader, the plugin registry, the namespace and
// the invoker for one root directory. Projects never share state: two
// projects in one process have separate registries even when they are built
// from the same compiled module.
package project
