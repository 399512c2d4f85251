// SPDX-License-Identifier: MPL-2.0

package rcscript

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/devrc/devrc/pkg/devenv"
)

// DefaultOutputsDir is the placeholder directory build outputs are mapped to.
const DefaultOutputsDir = "./outputs"

var (
	// ErrMissingOutput is returned when the outputs variable names a variable
	// that does not exist.
	ErrMissingOutput = errors.New("output variable not found")

	// ErrInvalidOutput is returned when an output variable does not hold a
	// single path.
	ErrInvalidOutput = errors.New("output variable is not a string")
)

type (
	// Rewrite replaces every occurrence of From with To.
	Rewrite struct {
		Name string
		From string
		To   string
	}

	// MissingOutputError names the unresolved output. It wraps ErrMissingOutput.
	MissingOutputError struct {
		Name string
	}

	// InvalidOutputError names an output whose variable is not a string kind.
	// It wraps ErrInvalidOutput.
	InvalidOutputError struct {
		Name string
		Kind devenv.Kind
	}
)

// Error implements the error interface.
func (e *MissingOutputError) Error() string {
	return fmt.Sprintf("%s references %q, which is not a captured variable", devenv.OutputsVariable, e.Name)
}

// Unwrap returns ErrMissingOutput for errors.Is() compatibility.
func (e *MissingOutputError) Unwrap() error { return ErrMissingOutput }

// Error implements the error interface.
func (e *InvalidOutputError) Error() string {
	return fmt.Sprintf("output %q is a %s variable, expected a path string", e.Name, e.Kind)
}

// Unwrap returns ErrInvalidOutput for errors.Is() compatibility.
func (e *InvalidOutputError) Unwrap() error { return ErrInvalidOutput }

// OutputRewrites resolves the outputs named by env into path rewrites to
// outputsDir/<name>. An empty outputsDir means DefaultOutputsDir.
//
// The result is ordered longest path first (ties by path, then name) so that
// a path which is a prefix of another never claims part of the longer match.
// Outputs with an empty path are dropped.
func OutputRewrites(env *devenv.Environment, outputsDir string) ([]Rewrite, error) {
	if outputsDir == "" {
		outputsDir = DefaultOutputsDir
	}
	outputsDir = strings.TrimSuffix(outputsDir, "/")

	var rewrites []Rewrite
	for _, name := range env.OutputNames() {
		v, ok := env.Lookup(name)
		if !ok {
			return nil, &MissingOutputError{Name: name}
		}
		if !v.Kind.IsString() {
			return nil, &InvalidOutputError{Name: name, Kind: v.Kind}
		}
		if v.Str == "" {
			continue
		}
		rewrites = append(rewrites, Rewrite{Name: name, From: v.Str, To: outputsDir + "/" + name})
	}

	slices.SortFunc(rewrites, func(a, b Rewrite) int {
		return cmp.Or(
			cmp.Compare(len(b.From), len(a.From)),
			strings.Compare(a.From, b.From),
			strings.Compare(a.Name, b.Name),
		)
	})
	return rewrites, nil
}

// ApplyRewrites replaces every occurrence of each rewrite's From in s.
// Matching is a single left-to-right pass; at any position the first rewrite
// in order wins and replaced text is never scanned again.
func ApplyRewrites(s string, rewrites []Rewrite) string {
	if len(rewrites) == 0 {
		return s
	}
	oldnew := make([]string, 0, 2*len(rewrites))
	for _, r := range rewrites {
		if r.From == "" {
			continue
		}
		oldnew = append(oldnew, r.From, r.To)
	}
	if len(oldnew) == 0 {
		return s
	}
	return strings.NewReplacer(oldnew...).Replace(s)
}
