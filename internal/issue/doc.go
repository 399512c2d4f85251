// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing errors for devrc.
//
// ActionableError carries the failed operation, the resource involved, and
// hints for fixing it. Errors that correspond to a known failure mode also
// reference an entry in the issue catalog, a Markdown help page rendered with
// glamour when the CLI reports the error.
package issue
