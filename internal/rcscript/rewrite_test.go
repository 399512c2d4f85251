// SPDX-License-Identifier: MPL-2.0

package rcscript

import (
	"errors"
	"slices"
	"testing"

	"github.com/devrc/devrc/pkg/devenv"
)

func envWithOutputs(outputs devenv.Variable, vars map[string]devenv.Variable) *devenv.Environment {
	env := devenv.New()
	env.Variables[devenv.OutputsVariable] = outputs
	for k, v := range vars {
		env.Variables[k] = v
	}
	return env
}

func TestOutputRewrites(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		env        *devenv.Environment
		outputsDir string
		want       []Rewrite
	}{
		{
			name: "single var output",
			env: envWithOutputs(devenv.NewVar("out"), map[string]devenv.Variable{
				"out": devenv.NewVar("/build/xyz"),
			}),
			want: []Rewrite{{Name: "out", From: "/build/xyz", To: "./outputs/out"}},
		},
		{
			name: "space separated names, longest first",
			env: envWithOutputs(devenv.NewExported("out dev"), map[string]devenv.Variable{
				"out": devenv.NewExported("/nix/store/abc-pkg"),
				"dev": devenv.NewExported("/nix/store/abc-pkg-dev"),
			}),
			want: []Rewrite{
				{Name: "dev", From: "/nix/store/abc-pkg-dev", To: "./outputs/dev"},
				{Name: "out", From: "/nix/store/abc-pkg", To: "./outputs/out"},
			},
		},
		{
			name: "associative keys",
			env: envWithOutputs(devenv.NewAssociative(map[string]string{"out": "x", "lib": "y"}), map[string]devenv.Variable{
				"out": devenv.NewVar("/o"),
				"lib": devenv.NewVar("/l"),
			}),
			want: []Rewrite{
				{Name: "lib", From: "/l", To: "./outputs/lib"},
				{Name: "out", From: "/o", To: "./outputs/out"},
			},
		},
		{
			name: "array elements with custom dir",
			env: envWithOutputs(devenv.NewArray("out"), map[string]devenv.Variable{
				"out": devenv.NewVar("/o"),
			}),
			outputsDir: "/work/result/",
			want:       []Rewrite{{Name: "out", From: "/o", To: "/work/result/out"}},
		},
		{
			name: "empty path skipped",
			env: envWithOutputs(devenv.NewVar("out"), map[string]devenv.Variable{
				"out": devenv.NewVar(""),
			}),
			want: nil,
		},
		{
			name: "no outputs variable",
			env:  devenv.New(),
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := OutputRewrites(tt.env, tt.outputsDir)
			if err != nil {
				t.Fatalf("OutputRewrites() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("OutputRewrites() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestOutputRewrites_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing reference", func(t *testing.T) {
		t.Parallel()

		env := envWithOutputs(devenv.NewVar("out bin"), map[string]devenv.Variable{
			"out": devenv.NewVar("/o"),
		})
		_, err := OutputRewrites(env, "")
		if !errors.Is(err, ErrMissingOutput) {
			t.Fatalf("error = %v, want ErrMissingOutput", err)
		}
		var missing *MissingOutputError
		if !errors.As(err, &missing) || missing.Name != "bin" {
			t.Errorf("MissingOutputError = %+v", missing)
		}
	})

	t.Run("array output variable", func(t *testing.T) {
		t.Parallel()

		env := envWithOutputs(devenv.NewVar("out"), map[string]devenv.Variable{
			"out": devenv.NewArray("/o"),
		})
		_, err := OutputRewrites(env, "")
		if !errors.Is(err, ErrInvalidOutput) {
			t.Fatalf("error = %v, want ErrInvalidOutput", err)
		}
		var invalid *InvalidOutputError
		if !errors.As(err, &invalid) || invalid.Kind != devenv.KindArray {
			t.Errorf("InvalidOutputError = %+v", invalid)
		}
	})
}

func TestApplyRewrites(t *testing.T) {
	t.Parallel()

	rewrites := []Rewrite{
		{Name: "dev", From: "/nix/store/abc-pkg-dev", To: "./outputs/dev"},
		{Name: "out", From: "/nix/store/abc-pkg", To: "./outputs/out"},
	}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "no occurrences",
			in:   "FOO='bar'\n",
			want: "FOO='bar'\n",
		},
		{
			name: "every occurrence",
			in:   "out='/nix/store/abc-pkg'\nPATH='/nix/store/abc-pkg/bin:/nix/store/abc-pkg/sbin'\n",
			want: "out='./outputs/out'\nPATH='./outputs/out/bin:./outputs/out/sbin'\n",
		},
		{
			name: "longer path is not split",
			in:   "X=/nix/store/abc-pkg-dev/include:/nix/store/abc-pkg/lib\n",
			want: "X=./outputs/dev/include:./outputs/out/lib\n",
		},
		{
			name: "inside function body",
			in:   "f()\n{\n    cd /nix/store/abc-pkg\n}\n",
			want: "f()\n{\n    cd ./outputs/out\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ApplyRewrites(tt.in, rewrites)
			if got != tt.want {
				t.Errorf("ApplyRewrites() = %q, want %q", got, tt.want)
			}
			if again := ApplyRewrites(got, rewrites); again != got {
				t.Errorf("second pass changed the text: %q", again)
			}
		})
	}
}

func TestApplyRewrites_OrderIndependent(t *testing.T) {
	t.Parallel()

	in := "a=/x/one b=/y/two c=/x/one/y/two\n"
	fwd := []Rewrite{{From: "/x/one", To: "./outputs/one"}, {From: "/y/two", To: "./outputs/two"}}
	rev := []Rewrite{fwd[1], fwd[0]}

	if a, b := ApplyRewrites(in, fwd), ApplyRewrites(in, rev); a != b {
		t.Errorf("result depends on order: %q vs %q", a, b)
	}
}

func TestApplyRewrites_Empty(t *testing.T) {
	t.Parallel()

	if got := ApplyRewrites("abc", nil); got != "abc" {
		t.Errorf("ApplyRewrites(nil) = %q", got)
	}
	if got := ApplyRewrites("abc", []Rewrite{{From: "", To: "x"}}); got != "abc" {
		t.Errorf("empty From should be ignored, got %q", got)
	}
}
