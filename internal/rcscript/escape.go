// SPDX-License-Identifier: MPL-2.0

package rcscript

import "strings"

// Escape returns s as a single-quoted shell literal. Each embedded single
// quote becomes '\'' (close, escaped quote, reopen). Strings containing NUL
// cannot be represented by any shell and are not supported.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			b.WriteString(`'\''`)
			continue
		}
		b.WriteByte(s[i])
	}
	b.WriteByte('\'')
	return b.String()
}
