// SPDX-License-Identifier: MPL-2.0

// Package config loads devrc host configuration using Viper with CUE as the
// file format.
//
// Sources, highest precedence first: command-line flags (applied by the CLI),
// environment variables, the config file, and built-in defaults. The config
// file lives at $XDG_CONFIG_HOME/devrc/config.cue (or the platform
// equivalent) and is validated against the embedded config_schema.cue.
//
// The environment bindings keep the names used by existing shell wrappers:
// envInp selects the input document, and bashPrompt, bashPromptPrefix and
// bashPromptSuffix customize the prompt.
package config
