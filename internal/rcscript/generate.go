// SPDX-License-Identifier: MPL-2.0

package rcscript

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/devrc/devrc/pkg/devenv"
)

// Options controls Generate.
type Options struct {
	// OutputsDir is the placeholder directory for build outputs.
	// Empty means DefaultOutputsDir.
	OutputsDir string
	Prompt     PromptOptions
}

// Generate produces the complete rc script for env. On error no script is
// returned.
func Generate(env *devenv.Environment, opts Options) (string, error) {
	if env == nil {
		return "", fmt.Errorf("generate rc script: nil environment")
	}

	logSkipped(env)

	rc := strings.Join(BuildRC(env), "")

	rewrites, err := OutputRewrites(env, opts.OutputsDir)
	if err != nil {
		return "", fmt.Errorf("resolve output paths: %w", err)
	}
	for _, r := range rewrites {
		slog.Debug("rewriting output path", "output", r.Name, "from", r.From, "to", r.To)
	}
	rc = ApplyRewrites(rc, rewrites)

	script := Assemble(rc, opts.Prompt)
	slog.Debug("generated rc script",
		"variables", len(env.Variables),
		"functions", len(env.Functions),
		"rewrites", len(rewrites),
		"bytes", len(script),
	)
	return script, nil
}

func logSkipped(env *devenv.Environment) {
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	for _, name := range env.VariableNames() {
		switch {
		case IsIgnored(name):
			slog.Debug("skipping ignored variable", "name", name)
		case env.Variables[name].Kind == devenv.KindUnknown:
			slog.Debug("skipping variable of unknown type", "name", name)
		}
	}
}
