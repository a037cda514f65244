// SPDX-License-Identifier: MPL-2.0

// Package settingsfile locates and evaluates a project's settings file and
// merges it with the compiled module and caller overrides.
//
// The file is searched for in the direct child directories of the project
// root, dot-directories included. Its extension selects the evaluator:
//
//	.cue .json   CUE
//	.hcl         HCL attributes, which may reference each other
//	.toml        TOML
//	.yaml .yml   YAML
//	.so          Go plugin exporting "var Symbols settings.Symbols"
//
// Every evaluator produces plain Go data: map[string]any, []any, int,
// float64, string, bool and nil.
package settingsfile
