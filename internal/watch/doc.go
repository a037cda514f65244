// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a callback when files under a project directory
// change.
//
// Filesystem events are filtered through doublestar include and ignore globs
// and coalesced over a debounce window, so the callback fires once per burst
// of changes with the set of changed paths. A callback that is still running
// when the next burst closes is not re-entered; the burst is retried after
// another debounce period.
package watch
