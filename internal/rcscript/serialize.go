// SPDX-License-Identifier: MPL-2.0

package rcscript

import (
	"strings"

	"github.com/devrc/devrc/pkg/devenv"
)

// VariableLines serializes one variable. Every returned line ends in a
// newline. Unknown variables yield no lines.
//
//	var         NAME='value'
//	exported    NAME='value' + export NAME
//	array       declare -a NAME=('a' 'b')
//	associative declare -A NAME=(['k']='v')   (keys sorted)
func VariableLines(name string, v devenv.Variable) []string {
	switch v.Kind {
	case devenv.KindVar:
		return []string{assignLine(name, v.Str)}
	case devenv.KindExported:
		return []string{assignLine(name, v.Str), "export " + name + "\n"}
	case devenv.KindArray:
		elems := make([]string, len(v.List))
		for i, s := range v.List {
			elems[i] = Escape(s)
		}
		return []string{"declare -a " + name + "=(" + strings.Join(elems, " ") + ")\n"}
	case devenv.KindAssociative:
		keys := v.Keys()
		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = "[" + Escape(k) + "]=" + Escape(v.Map[k])
		}
		return []string{"declare -A " + name + "=(" + strings.Join(pairs, " ") + ")\n"}
	case devenv.KindUnknown:
		return nil
	}
	return nil
}

// FunctionBlock defines a shell function whose body is emitted verbatim.
// The body is expected to carry its own trailing newline.
func FunctionBlock(name, body string) string {
	return name + "()\n{\n" + body + "}\n"
}

func assignLine(name, value string) string {
	return name + "=" + Escape(value) + "\n"
}
