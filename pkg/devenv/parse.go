// SPDX-License-Identifier: MPL-2.0

package devenv

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/devrc/devrc/internal/cueutil"
)

// DefaultMaxFileSize caps the size of an environment document (64MB).
// Captured environments are routinely several megabytes.
const DefaultMaxFileSize int64 = 64 * 1024 * 1024

//go:embed environment_schema.cue
var environmentSchema []byte

// ErrMalformedEnvironment is the sentinel wrapped by MalformedEnvironmentError.
var ErrMalformedEnvironment = errors.New("malformed environment document")

type (
	// MalformedEnvironmentError is returned when a document does not match the
	// environment schema. It wraps ErrMalformedEnvironment for errors.Is().
	MalformedEnvironmentError struct {
		Source string
		Cause  error
	}

	rawDocument struct {
		Variables     map[string]rawVariable `json:"variables"`
		BashFunctions map[string]string      `json:"bashFunctions"`
	}

	rawVariable struct {
		Type  Kind            `json:"type"`
		Value json.RawMessage `json:"value"`
	}
)

// Error implements the error interface for MalformedEnvironmentError.
func (e *MalformedEnvironmentError) Error() string {
	return fmt.Sprintf("malformed environment document %s: %v", e.Source, e.Cause)
}

// Unwrap returns both the sentinel and the underlying cause.
func (e *MalformedEnvironmentError) Unwrap() []error {
	return []error{ErrMalformedEnvironment, e.Cause}
}

// Load reads and parses the environment document at path.
func Load(path string) (*Environment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open environment document: %w", err)
	}
	defer f.Close()

	return Read(f, path)
}

// Read parses an environment document from r. The source name is used in
// error messages only.
func Read(r io.Reader, source string) (*Environment, error) {
	// Read one byte past the cap so oversized input is detected without
	// buffering all of it.
	data, err := io.ReadAll(io.LimitReader(r, DefaultMaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read environment document %s: %w", source, err)
	}
	return Parse(data, source)
}

// Parse validates data against the environment schema and decodes it.
func Parse(data []byte, source string) (*Environment, error) {
	if err := cueutil.ValidateJSON(environmentSchema, data, "#Environment",
		cueutil.WithFilename(source),
		cueutil.WithMaxFileSize(DefaultMaxFileSize),
	); err != nil {
		return nil, &MalformedEnvironmentError{Source: source, Cause: err}
	}

	var doc rawDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &MalformedEnvironmentError{Source: source, Cause: err}
	}

	env := New()
	for name, raw := range doc.Variables {
		v, err := raw.decode()
		if err != nil {
			return nil, &MalformedEnvironmentError{
				Source: source,
				Cause:  fmt.Errorf("variables.%s: %w", name, err),
			}
		}
		env.Variables[name] = v
	}
	for name, body := range doc.BashFunctions {
		env.Functions[name] = body
	}

	return env, nil
}

func (r rawVariable) decode() (Variable, error) {
	if valid, errs := r.Type.IsValid(); !valid {
		return Variable{}, errors.Join(errs...)
	}

	switch r.Type {
	case KindVar, KindExported:
		var s string
		if err := json.Unmarshal(r.Value, &s); err != nil {
			return Variable{}, fmt.Errorf("value of %s variable: %w", r.Type, err)
		}
		if r.Type == KindExported {
			return NewExported(s), nil
		}
		return NewVar(s), nil
	case KindArray:
		var list []string
		if err := json.Unmarshal(r.Value, &list); err != nil {
			return Variable{}, fmt.Errorf("value of array variable: %w", err)
		}
		return Variable{Kind: KindArray, List: list}, nil
	case KindAssociative:
		var m map[string]string
		if err := json.Unmarshal(r.Value, &m); err != nil {
			return Variable{}, fmt.Errorf("value of associative variable: %w", err)
		}
		if m == nil {
			m = map[string]string{}
		}
		return Variable{Kind: KindAssociative, Map: m}, nil
	case KindUnknown:
		return NewUnknown(), nil
	}

	// Unreachable: IsValid accepted the kind above.
	return Variable{}, &InvalidKindError{Value: r.Type}
}
