// SPDX-License-Identifier: MPL-2.0

// Package cueutil holds the CUE helpers shared by the settings-file evaluator,
// the tool configuration loader and the result printer.
//
// Compile validates and compiles user data, optionally against an embedded
// schema definition. ToGo converts a concrete value to plain Go data using
// int and float64 for numbers, and Format pretty-prints Go data as CUE:
//
//	v, err := cueutil.Compile(data, cueutil.WithFilename("settings.cue"))
//	if err != nil {
//	    return err // includes the JSON path of the offending field
//	}
//	symbols, err := cueutil.ToGo(v)
package cueutil
