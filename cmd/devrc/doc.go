// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the devrc command line interface.
//
// The root command wires configuration, logging and error rendering; the
// generate, inspect and config subcommands delegate to internal/rcscript,
// pkg/devenv and internal/config.
package cmd
