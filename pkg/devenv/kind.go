// SPDX-License-Identifier: MPL-2.0

package devenv

import (
	"errors"
	"fmt"
)

const (
	// KindVar is a plain (non-exported) shell variable holding a string.
	KindVar Kind = "var"
	// KindExported is an exported shell variable holding a string.
	KindExported Kind = "exported"
	// KindArray is an indexed array; element order is positional.
	KindArray Kind = "array"
	// KindAssociative is an associative array (string keys to string values).
	KindAssociative Kind = "associative"
	// KindUnknown marks a variable whose value has no safe serialization.
	KindUnknown Kind = "unknown"
)

// ErrInvalidKind is returned when a Kind value is not recognized.
var ErrInvalidKind = errors.New("invalid variable kind")

type (
	// Kind is the type tag of a captured variable.
	Kind string

	// InvalidKindError is returned when a Kind value is not recognized.
	// It wraps ErrInvalidKind for errors.Is() compatibility.
	InvalidKindError struct {
		Value Kind
	}
)

// String returns the string representation of the Kind.
func (k Kind) String() string { return string(k) }

// IsValid returns whether the Kind is one of the defined kinds,
// and a list of validation errors if it is not.
func (k Kind) IsValid() (bool, []error) {
	switch k {
	case KindVar, KindExported, KindArray, KindAssociative, KindUnknown:
		return true, nil
	default:
		return false, []error{&InvalidKindError{Value: k}}
	}
}

// IsString reports whether variables of this kind carry a single string.
func (k Kind) IsString() bool {
	return k == KindVar || k == KindExported
}

// Error implements the error interface for InvalidKindError.
func (e *InvalidKindError) Error() string {
	return fmt.Sprintf("invalid variable kind %q (valid: var, exported, array, associative, unknown)", e.Value)
}

// Unwrap returns ErrInvalidKind for errors.Is() compatibility.
func (e *InvalidKindError) Unwrap() error { return ErrInvalidKind }
