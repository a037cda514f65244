// SPDX-License-Identifier: MPL-2.0

// Package testutil provides test helpers that fail the test on error instead
// of returning it: environment and directory management (MustSetenv,
// MustChdir, SetConfigHome), file setup (MustWriteFile, NewSettingsProject)
// and cleanup (MustClose).
package testutil
