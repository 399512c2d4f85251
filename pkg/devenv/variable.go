// SPDX-License-Identifier: MPL-2.0

package devenv

import (
	"maps"
	"slices"
)

// Variable is one captured variable. Kind selects which payload field is
// meaningful; the others are left at their zero value:
//
//	KindVar, KindExported -> Str
//	KindArray             -> List
//	KindAssociative       -> Map
//	KindUnknown           -> (none)
//
// Use the New* constructors rather than struct literals so the payload always
// matches the tag.
type Variable struct {
	Kind Kind
	Str  string
	List []string
	Map  map[string]string
}

// NewVar returns a plain string variable.
func NewVar(value string) Variable {
	return Variable{Kind: KindVar, Str: value}
}

// NewExported returns an exported string variable.
func NewExported(value string) Variable {
	return Variable{Kind: KindExported, Str: value}
}

// NewArray returns an indexed array variable. The slice is copied.
func NewArray(values ...string) Variable {
	list := make([]string, len(values))
	copy(list, values)
	return Variable{Kind: KindArray, List: list}
}

// NewAssociative returns an associative array variable. The map is copied.
func NewAssociative(values map[string]string) Variable {
	m := make(map[string]string, len(values))
	maps.Copy(m, values)
	return Variable{Kind: KindAssociative, Map: m}
}

// NewUnknown returns a variable that is never serialized.
func NewUnknown() Variable {
	return Variable{Kind: KindUnknown}
}

// Keys returns the associative array keys in lexicographic order.
// It returns nil for every other kind.
func (v Variable) Keys() []string {
	if v.Kind != KindAssociative {
		return nil
	}
	return slices.Sorted(maps.Keys(v.Map))
}
