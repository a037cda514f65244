// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and a catalog of Markdown issue
// pages rendered with glamour.
//
// An ActionableError names the failed operation, the resource involved and
// suggestions for fixing it. When it carries an issue Id, the CLI prints the
// matching catalog page below the short message.
package issue
