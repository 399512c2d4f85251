// SPDX-License-Identifier: MPL-2.0

// Package devenv models a captured shell environment: the variable table and
// the shell function table produced by an external build/evaluation tool.
//
// The input document is JSON with two required top-level fields:
//
//	{
//	  "variables": {
//	    "FOO":    {"type": "var", "value": "bar"},
//	    "PATH":   {"type": "exported", "value": "/nix/store/...-bin"},
//	    "LIST":   {"type": "array", "value": ["a", "b"]},
//	    "MAP":    {"type": "associative", "value": {"k": "v"}},
//	    "STRANGE": {"type": "unknown"}
//	  },
//	  "bashFunctions": {"greet": "echo hi\n"}
//	}
//
// Documents are validated against an embedded CUE schema before decoding, so
// a malformed document is rejected as a whole. The model is read-only once
// parsed; every consumer sees the same immutable view for a single
// conversion.
package devenv
