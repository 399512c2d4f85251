// SPDX-License-Identifier: MPL-2.0

package rcscript

import "strings"

const bashrcLine = `[ -n "$PS1" ] && [ -e ~/.bashrc ] && source ~/.bashrc;` + "\n"

// PromptOptions customizes PS1 in interactive shells. A nil field emits
// nothing; a pointer to the empty string still emits its line.
type PromptOptions struct {
	// Full replaces the prompt.
	Full *string
	// Prefix is prepended to the existing prompt.
	Prefix *string
	// Suffix is appended to the existing prompt.
	Suffix *string
}

// IsZero reports whether no prompt customization is configured.
func (p PromptOptions) IsZero() bool {
	return p.Full == nil && p.Prefix == nil && p.Suffix == nil
}

// Assemble wraps an rc body with the ~/.bashrc bootstrap and the prompt lines.
// Every emitted line is guarded by [ -n "$PS1" ] so non-interactive shells
// are unaffected.
func Assemble(rc string, prompt PromptOptions) string {
	var b strings.Builder
	b.WriteString(bashrcLine)
	b.WriteString(rc)
	if prompt.Full != nil {
		b.WriteString(`[ -n "$PS1" ] && PS1=` + Escape(*prompt.Full) + ";\n")
	}
	if prompt.Prefix != nil {
		b.WriteString(`[ -n "$PS1" ] && PS1=` + Escape(*prompt.Prefix) + `"$PS1";` + "\n")
	}
	if prompt.Suffix != nil {
		b.WriteString(`[ -n "$PS1" ] && PS1+=` + Escape(*prompt.Suffix) + ";\n")
	}
	return b.String()
}
