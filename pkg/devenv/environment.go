// SPDX-License-Identifier: MPL-2.0

package devenv

import (
	"maps"
	"slices"
	"strings"
)

// OutputsVariable names the variable that lists the build outputs. Its keys
// (associative) or elements (everything else) name other variables whose
// values are output paths.
const OutputsVariable = "outputs"

// Environment is the parsed form of a captured shell environment.
type Environment struct {
	// Variables maps a shell identifier to its captured value.
	Variables map[string]Variable
	// Functions maps a function name to its literal body (no surrounding braces).
	Functions map[string]string
}

// New returns an empty Environment.
func New() *Environment {
	return &Environment{
		Variables: make(map[string]Variable),
		Functions: make(map[string]string),
	}
}

// Lookup returns the variable with the given name.
func (e *Environment) Lookup(name string) (Variable, bool) {
	v, ok := e.Variables[name]
	return v, ok
}

// VariableNames returns all variable names in lexicographic order.
func (e *Environment) VariableNames() []string {
	return slices.Sorted(maps.Keys(e.Variables))
}

// FunctionNames returns all function names in lexicographic order.
func (e *Environment) FunctionNames() []string {
	return slices.Sorted(maps.Keys(e.Functions))
}

// OutputNames returns the names listed by the outputs variable, without
// duplicates and in a deterministic order:
//   - var/exported: whitespace-separated words, in order of appearance
//   - array: elements in order
//   - associative: keys in lexicographic order
//
// A missing or unknown-kind outputs variable yields no names.
func (e *Environment) OutputNames() []string {
	outputs, ok := e.Variables[OutputsVariable]
	if !ok {
		return nil
	}

	var names []string
	switch outputs.Kind {
	case KindVar, KindExported:
		names = strings.Fields(outputs.Str)
	case KindArray:
		names = outputs.List
	case KindAssociative:
		names = outputs.Keys()
	case KindUnknown:
		return nil
	}

	seen := make(map[string]bool, len(names))
	result := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		result = append(result, name)
	}
	return result
}
