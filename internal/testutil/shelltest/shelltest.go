// SPDX-License-Identifier: MPL-2.0

// Package shelltest sources generated shell scripts inside an embedded
// interpreter so tests can inspect the resulting variables without spawning a
// real shell.
//
// The interpreter keeps the backslash of an unquoted \' on the right-hand side
// of a scalar or associative assignment, so X='a'\''b' reads back as a\'b
// where bash yields a'b. Values containing single quotes are checked with Word
// or Bash instead of Source.
package shelltest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"maps"
	"os/exec"
	"slices"
	"strings"
	"testing"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// DefaultBuildTop is what the stubbed mktemp prints.
const DefaultBuildTop = "/tmp/nix-shell.test"

// commandNotFound mirrors the status a shell reports for a missing command.
const commandNotFound interp.ExitStatus = 127

type (
	// Options configures a Source call.
	Options struct {
		// Env is the inherited environment as KEY=VALUE pairs.
		Env []string
		// Dir is the working directory. Empty means the interpreter default.
		Dir string
		// BuildTop is printed by the stubbed mktemp. Empty means DefaultBuildTop.
		BuildTop string
	}

	// Result is the interpreter state after the script ran.
	Result struct {
		Vars   map[string]expand.Variable
		Funcs  []string
		Stdout string
		Stderr string
		// Status is the exit status of the last statement.
		Status interp.ExitStatus
		// Commands lists every external command the script tried to run.
		Commands [][]string
	}
)

// Source parses and runs script. External commands are never executed:
// mktemp prints BuildTop and anything else fails with status 127.
// Parse errors and fatal interpreter errors fail the test; a non-zero exit
// status is reported in Result.Status.
func Source(t testing.TB, script string, opts Options) *Result {
	t.Helper()

	file, err := syntax.NewParser().Parse(strings.NewReader(script), "rc.sh")
	if err != nil {
		t.Fatalf("generated script does not parse: %v\n%s", err, script)
	}

	buildTop := opts.BuildTop
	if buildTop == "" {
		buildTop = DefaultBuildTop
	}

	res := &Result{}
	var stdout, stderr bytes.Buffer

	runnerOpts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(opts.Env...)),
		interp.StdIO(nil, &stdout, &stderr),
		interp.ExecHandlers(func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
			return func(ctx context.Context, args []string) error {
				res.Commands = append(res.Commands, slices.Clone(args))
				if args[0] == "mktemp" {
					hc := interp.HandlerCtx(ctx)
					_, err := fmt.Fprintln(hc.Stdout, buildTop)
					return err
				}
				return commandNotFound
			}
		}),
	}
	if opts.Dir != "" {
		runnerOpts = append(runnerOpts, interp.Dir(opts.Dir))
	}

	runner, err := interp.New(runnerOpts...)
	if err != nil {
		t.Fatalf("failed to create interpreter: %v", err)
	}

	err = runner.Run(context.Background(), file)
	var status interp.ExitStatus
	switch {
	case err == nil:
	case errors.As(err, &status):
		res.Status = status
	default:
		t.Fatalf("script failed: %v\nstderr: %s", err, stderr.String())
	}

	res.Vars = runner.Vars
	res.Funcs = slices.Sorted(maps.Keys(runner.Funcs))
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()
	return res
}

// Str returns the string value of name, failing the test if it is unset.
func (r *Result) Str(t testing.TB, name string) string {
	t.Helper()
	v, ok := r.Vars[name]
	if !ok || !v.IsSet() {
		t.Fatalf("variable %s is not set", name)
	}
	if v.Kind != expand.String {
		t.Fatalf("variable %s has kind %v, want a string", name, v.Kind)
	}
	return v.Str
}

// IsSet reports whether name was set by the script or inherited.
func (r *Result) IsSet(name string) bool {
	v, ok := r.Vars[name]
	return ok && v.IsSet()
}

// Exported reports whether name is marked for export.
func (r *Result) Exported(name string) bool {
	return r.Vars[name].Exported
}

// List returns the indexed array value of name.
func (r *Result) List(t testing.TB, name string) []string {
	t.Helper()
	v := r.Vars[name]
	if v.Kind != expand.Indexed {
		t.Fatalf("variable %s has kind %v, want an indexed array", name, v.Kind)
	}
	return v.List
}

// Map returns the associative array value of name.
func (r *Result) Map(t testing.TB, name string) map[string]string {
	t.Helper()
	v := r.Vars[name]
	if v.Kind != expand.Associative {
		t.Fatalf("variable %s has kind %v, want an associative array", name, v.Kind)
	}
	return v.Map
}

// Word expands literal as a single command argument and returns the result.
// Argument expansion decodes quoting the way bash does.
func Word(t testing.TB, literal string) string {
	t.Helper()

	res := Source(t, "printf %s "+literal+"\n", Options{})
	if res.Status != 0 {
		t.Fatalf("printf %s exited with status %d: %s", literal, res.Status, res.Stderr)
	}
	return res.Stdout
}

// Bash runs script in the bash found in PATH with an empty environment
// apart from PATH and returns its stdout. The test is skipped when bash is
// not installed.
func Bash(t testing.TB, script string) string {
	t.Helper()

	bash, err := exec.LookPath("bash")
	if err != nil {
		t.Skip("bash not found in PATH")
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(t.Context(), bash, "--noprofile", "--norc", "-c", script)
	cmd.Env = []string{"PATH=/usr/bin:/bin", "LC_ALL=C"}
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("bash failed: %v\nstderr: %s", err, stderr.String())
	}
	return stdout.String()
}
