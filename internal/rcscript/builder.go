// SPDX-License-Identifier: MPL-2.0

package rcscript

import (
	"slices"

	"github.com/devrc/devrc/pkg/devenv"
)

const (
	// BuildTopVariable names the scratch directory exported by the rc script.
	BuildTopVariable = "NIX_BUILD_TOP"

	// ShellHookVariable holds captured code evaluated at the end of setup.
	ShellHookVariable = "shellHook"

	savedPrefix  = "nix_saved_"
	tempTemplate = "nix-shell.XXXXXX"
)

var (
	ignoredVariables = []string{
		"BASHOPTS",
		"HOME",
		"NIX_BUILD_TOP",
		"NIX_ENFORCE_PURITY",
		"NIX_LOG_FD",
		"NIX_REMOTE",
		"PPID",
		"SHELL",
		"SHELLOPTS",
		"SSL_CERT_FILE",
		"TEMP",
		"TEMPDIR",
		"TERM",
		"TMP",
		"TMPDIR",
		"TZ",
		"UID",
	}

	// PATH for commands, XDG_DATA_DIRS for loadable completions.
	savedVariables = []string{"PATH", "XDG_DATA_DIRS"}

	tempDirVariables = []string{"TMP", "TMPDIR", "TEMP", "TEMPDIR"}
)

// IgnoredVariables returns the names never reintroduced into the shell,
// sorted.
func IgnoredVariables() []string { return slices.Clone(ignoredVariables) }

// SavedVariables returns the path-list variables merged with the inherited
// shell value, in merge order.
func SavedVariables() []string { return slices.Clone(savedVariables) }

// TempDirVariables returns the temp-directory names pointed at the scratch
// directory.
func TempDirVariables() []string { return slices.Clone(tempDirVariables) }

// IsIgnored reports whether name is in the ignore-set.
func IsIgnored(name string) bool {
	_, found := slices.BinarySearch(ignoredVariables, name)
	return found
}

// BuildRC returns the rc script body for env as newline-terminated lines.
// Variables are emitted before functions, each group sorted by name.
func BuildRC(env *devenv.Environment) []string {
	lines := []string{"unset " + ShellHookVariable + "\n"}

	for _, v := range savedVariables {
		lines = append(lines,
			v+`="${`+v+`:-}"`+"\n",
			savedPrefix+v+`="$`+v+`"`+"\n",
		)
	}

	for _, name := range env.VariableNames() {
		if IsIgnored(name) {
			continue
		}
		lines = append(lines, VariableLines(name, env.Variables[name])...)
	}
	for _, name := range env.FunctionNames() {
		lines = append(lines, FunctionBlock(name, env.Functions[name]))
	}

	for _, v := range savedVariables {
		lines = append(lines, v+`="$`+v+`:$`+savedPrefix+v+`"`+"\n")
	}

	lines = append(lines, "export "+BuildTopVariable+`="$(mktemp -d -t `+tempTemplate+`)"`+"\n")
	for _, v := range tempDirVariables {
		lines = append(lines, "export "+v+`="$`+BuildTopVariable+`"`+"\n")
	}

	lines = append(lines, `eval "$`+ShellHookVariable+`"`+"\n")
	return lines
}
