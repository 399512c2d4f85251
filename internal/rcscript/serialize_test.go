// SPDX-License-Identifier: MPL-2.0

package rcscript

import (
	"maps"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/devrc/devrc/internal/testutil/shelltest"
	"github.com/devrc/devrc/pkg/devenv"
)

func TestVariableLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		v    devenv.Variable
		want []string
	}{
		{
			name: "var",
			v:    devenv.NewVar("bar"),
			want: []string{"X='bar'\n"},
		},
		{
			name: "exported",
			v:    devenv.NewExported("/a b"),
			want: []string{"X='/a b'\n", "export X\n"},
		},
		{
			name: "array",
			v:    devenv.NewArray("a", "b's", "c"),
			want: []string{`declare -a X=('a' 'b'\''s' 'c')` + "\n"},
		},
		{
			name: "empty array",
			v:    devenv.NewArray(),
			want: []string{"declare -a X=()\n"},
		},
		{
			name: "associative sorted by key",
			v:    devenv.NewAssociative(map[string]string{"z": "1", "a": "2", "m'": "3"}),
			want: []string{`declare -A X=(['a']='2' ['m'\''']='3' ['z']='1')` + "\n"},
		},
		{
			name: "unknown",
			v:    devenv.NewUnknown(),
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := VariableLines("X", tt.v)
			if !slices.Equal(got, tt.want) {
				t.Errorf("VariableLines() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVariableLines_Deterministic(t *testing.T) {
	t.Parallel()

	m := map[string]string{}
	for _, k := range strings.Fields("q w e r t y u i o p a s d f g h j k l") {
		m[k] = strings.ToUpper(k)
	}
	first := VariableLines("M", devenv.NewAssociative(m))
	for range 20 {
		if got := VariableLines("M", devenv.NewAssociative(m)); !slices.Equal(got, first) {
			t.Fatalf("associative output changed between runs: %q vs %q", got, first)
		}
	}
}

func variableScript(vars map[string]devenv.Variable) string {
	var script strings.Builder
	for _, name := range slices.Sorted(maps.Keys(vars)) {
		for _, l := range VariableLines(name, vars[name]) {
			script.WriteString(l)
		}
	}
	return script.String()
}

func TestVariableLines_ShellAttributes(t *testing.T) {
	t.Parallel()

	str := "plain \"quoted\" $HOME\nsecond line"
	list := []string{"a", "", "with space", "$x"}
	assoc := map[string]string{"k1": "v1", "k.2": "v 2", "k3": ""}

	res := shelltest.Source(t, variableScript(map[string]devenv.Variable{
		"PLAIN": devenv.NewVar(str),
		"EXP":   devenv.NewExported(str),
		"LIST":  devenv.NewArray(list...),
		"ASSOC": devenv.NewAssociative(assoc),
	}), shelltest.Options{})

	if got := res.Str(t, "PLAIN"); got != str {
		t.Errorf("PLAIN = %q, want %q", got, str)
	}
	if res.Exported("PLAIN") {
		t.Error("PLAIN should not be exported")
	}
	if got := res.Str(t, "EXP"); got != str {
		t.Errorf("EXP = %q, want %q", got, str)
	}
	if !res.Exported("EXP") {
		t.Error("EXP should be exported")
	}
	if got := res.List(t, "LIST"); !slices.Equal(got, list) {
		t.Errorf("LIST = %q, want %q", got, list)
	}
	if got := res.Map(t, "ASSOC"); !maps.Equal(got, assoc) {
		t.Errorf("ASSOC = %q, want %q", got, assoc)
	}
}

func TestVariableLines_BashRoundTrip(t *testing.T) {
	t.Parallel()

	str := "it's \"quoted\" $HOME\nsecond line"
	list := []string{"a", "b's", "", "with space", "$x"}
	assoc := map[string]string{"k1": "v'1", "k.2": "v 2", "k'3": ""}

	script := variableScript(map[string]devenv.Variable{
		"PLAIN": devenv.NewVar(str),
		"EXP":   devenv.NewExported(str),
		"LIST":  devenv.NewArray(list...),
		"ASSOC": devenv.NewAssociative(assoc),
	}) + `printf '%s\0' "$PLAIN" "$EXP" "${#LIST[@]}" "${LIST[@]}"
for k in "${!ASSOC[@]}"; do printf '%s\0%s\0' "$k" "${ASSOC[$k]}"; done
`

	fields := strings.Split(shelltest.Bash(t, script), "\x00")
	fields = fields[:len(fields)-1]
	if len(fields) < 3 {
		t.Fatalf("unexpected bash output %q", fields)
	}

	if fields[0] != str {
		t.Errorf("PLAIN = %q, want %q", fields[0], str)
	}
	if fields[1] != str {
		t.Errorf("EXP = %q, want %q", fields[1], str)
	}
	n, err := strconv.Atoi(fields[2])
	if err != nil || len(fields) < 3+n {
		t.Fatalf("bad LIST length %q in %q", fields[2], fields)
	}
	if got := fields[3 : 3+n]; !slices.Equal(got, list) {
		t.Errorf("LIST = %q, want %q", got, list)
	}

	rest := fields[3+n:]
	got := make(map[string]string, len(rest)/2)
	for i := 0; i+1 < len(rest); i += 2 {
		got[rest[i]] = rest[i+1]
	}
	if !maps.Equal(got, assoc) {
		t.Errorf("ASSOC = %q, want %q", got, assoc)
	}
}

func TestFunctionBlock(t *testing.T) {
	t.Parallel()

	body := "    echo \"hi $1\"\n"
	got := FunctionBlock("greet", body)
	want := "greet()\n{\n    echo \"hi $1\"\n}\n"
	if got != want {
		t.Errorf("FunctionBlock() = %q, want %q", got, want)
	}

	res := shelltest.Source(t, got+"greet there\n", shelltest.Options{})
	if res.Stdout != "hi there\n" {
		t.Errorf("calling function printed %q", res.Stdout)
	}
}

func TestFunctionBlock_Verbatim(t *testing.T) {
	t.Parallel()

	// Bodies are trusted shell source and must not be escaped.
	body := "  x='a'\\''b'; $undefined\n"
	if got := FunctionBlock("f", body); !strings.Contains(got, body) {
		t.Errorf("body was altered: %q", got)
	}
}
