// SPDX-License-Identifier: MPL-2.0

// Package rcscript turns a captured environment into an interactive-shell rc
// script.
//
// The pipeline runs in one direction:
//
//	devenv.Environment -> VariableLines / FunctionBlock -> BuildRC
//	                   -> OutputRewrites + ApplyRewrites -> Assemble
//
// Generate chains the steps and returns either the complete script or an
// error, never partial output. Nothing in this package executes shell code or
// touches the filesystem; the generated script creates its own scratch
// directory with mktemp when it is sourced.
package rcscript
