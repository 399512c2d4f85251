// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that fail fast on
// setup errors and restore process state afterwards.
//
// Environment helpers (MustSetenv, MustUnsetenv, SetHomeDir, SetConfigHome)
// return cleanup functions meant for t.Cleanup. The shelltest subpackage
// sources generated scripts in an embedded interpreter.
package testutil
