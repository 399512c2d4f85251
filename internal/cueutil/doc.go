// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE schema validation utilities.
//
// Two flows are supported:
//
//  1. CUE source files (the devrc config file): compile the embedded schema,
//     compile the user file, unify, validate and decode to a Go struct.
//  2. JSON documents (captured environments): extract the JSON into a CUE
//     expression and validate it against an embedded schema definition
//     without decoding. Callers decode with encoding/json afterwards.
//
// # Usage
//
//	//go:embed config_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[Config](
//	    schemaBytes,
//	    userFileBytes,
//	    "#Config",
//	    cueutil.WithFilename("config.cue"),
//	)
//	if err != nil {
//	    return nil, err  // Error includes CUE path for debugging
//	}
//	return result.Value, nil
package cueutil
