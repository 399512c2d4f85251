// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/devrc/devrc/internal/config"
	"github.com/devrc/devrc/internal/issue"
	"github.com/devrc/devrc/internal/rcscript"
	"github.com/devrc/devrc/pkg/devenv"

	"github.com/spf13/cobra"
)

const stdinSource = "<stdin>"

// generateFlags holds the raw flag values of `devrc generate`. A flag only
// overrides configuration when it was set on the command line.
type generateFlags struct {
	input        string
	output       string
	outputsDir   string
	prompt       string
	promptPrefix string
	promptSuffix string
	watch        bool
}

func newGenerateCommand(app *App) *cobra.Command {
	var flags generateFlags

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the rc script for a captured environment",
		Long: `Generate the rc script for a captured environment.

The environment document is taken from --input, the envInp environment
variable or input.path in the config file, in that order. Use "-" to read
standard input. Prompt customizations come from --prompt, --prompt-prefix
and --prompt-suffix or the bashPrompt, bashPromptPrefix and
bashPromptSuffix environment variables.

With --watch the script is regenerated into --output whenever the
environment document or the config file changes, until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			run := runGenerate
			if flags.watch {
				run = runWatch
			}
			if err := run(cmd, app, flags); err != nil {
				return app.reportError(cmd, err)
			}
			return nil
		},
	}

	generateCmd.Flags().StringVarP(&flags.input, "input", "i", "", `environment JSON file ("-" for stdin)`)
	generateCmd.Flags().StringVarP(&flags.output, "output", "o", "", "write the script to this file instead of stdout")
	generateCmd.Flags().StringVar(&flags.outputsDir, "outputs-dir", "", "directory build outputs are rewritten to (default ./outputs)")
	generateCmd.Flags().StringVar(&flags.prompt, "prompt", "", "replace PS1 in interactive shells")
	generateCmd.Flags().StringVar(&flags.promptPrefix, "prompt-prefix", "", "prepend to PS1 in interactive shells")
	generateCmd.Flags().StringVar(&flags.promptSuffix, "prompt-suffix", "", "append to PS1 in interactive shells")
	generateCmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "regenerate --output whenever the input or config changes")

	return generateCmd
}

func runGenerate(cmd *cobra.Command, app *App, flags generateFlags) error {
	cfg, err := resolveConfig(cmd, app, flags)
	if err != nil {
		return err
	}

	env, source, err := loadEnvironment(cmd.Context(), cmd.InOrStdin(), cfg.Input.Path)
	if err != nil {
		return err
	}

	script, err := rcscript.Generate(env, rcscript.Options{
		OutputsDir: string(cfg.Rewrite.OutputsDir),
		Prompt: rcscript.PromptOptions{
			Full:   cfg.Prompt.Full,
			Prefix: cfg.Prompt.Prefix,
			Suffix: cfg.Prompt.Suffix,
		},
	})
	if err != nil {
		return generateError(err, source)
	}

	if flags.output == "" {
		fmt.Fprintln(cmd.OutOrStdout(), script)
		return nil
	}

	if err := writeFileAtomic(flags.output, []byte(script+"\n")); err != nil {
		ae := issue.NewErrorContext().
			WithOperation("write rc script").
			WithResource(flags.output).
			WithSuggestion("Check that the target directory exists and is writable").
			WithIssue(issue.OutputWriteFailedId).
			Wrap(err).
			Build()
		return newServiceError(ae, issue.OutputWriteFailedId, exitGeneric)
	}
	return nil
}

// resolveConfig loads configuration and applies the generate flags that were
// set explicitly on top of it.
func resolveConfig(cmd *cobra.Command, app *App, flags generateFlags) (*config.Config, error) {
	cfg, _, err := app.loadConfig(cmd.Context())
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("input") {
		cfg.Input.Path = config.InputPath(flags.input)
	}
	if changed("outputs-dir") {
		cfg.Rewrite.OutputsDir = config.OutputsDir(flags.outputsDir)
	}
	if changed("prompt") {
		cfg.Prompt.Full = &flags.prompt
	}
	if changed("prompt-prefix") {
		cfg.Prompt.Prefix = &flags.promptPrefix
	}
	if changed("prompt-suffix") {
		cfg.Prompt.Suffix = &flags.promptSuffix
	}

	if ok, errs := cfg.IsValid(); !ok {
		ae := issue.NewErrorContext().
			WithOperation("validate options").
			WithSuggestion("Run 'devrc generate --help' for the accepted values").
			Wrap(errors.Join(errs...)).
			Build()
		return nil, newServiceError(ae, 0, exitGeneric)
	}

	if cfg.Input.Path == "" {
		ae := issue.NewErrorContext().
			WithOperation("locate environment").
			WithSuggestions(
				"Pass the file with --input env.json",
				"Set the "+config.EnvInput+" environment variable",
				`Use --input - to read standard input`,
			).
			WithIssue(issue.InputNotFoundId).
			Wrap(errors.New("no environment file given")).
			Build()
		return nil, newServiceError(ae, issue.InputNotFoundId, exitInput)
	}

	return cfg, nil
}

// loadEnvironment reads the environment document from path, or from stdin
// when path is "-". It returns the document's display name alongside.
func loadEnvironment(ctx context.Context, stdin io.Reader, path config.InputPath) (*devenv.Environment, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	var (
		env    *devenv.Environment
		source string
		err    error
	)
	if path.IsStdin() {
		source = stdinSource
		env, err = devenv.Read(stdin, source)
	} else {
		source = string(path)
		env, err = devenv.Load(source)
	}
	if err == nil {
		return env, source, nil
	}

	ec := issue.NewErrorContext().
		WithOperation("read environment").
		WithResource(source).
		Wrap(err)

	switch {
	case errors.Is(err, devenv.ErrMalformedEnvironment):
		ec.WithOperation("parse environment").
			WithSuggestions(
				`Each variable needs a "type" of var, exported, array, associative or unknown`,
				"Run with --verbose to see the full error chain",
			).
			WithIssue(issue.InputParseFailedId)
	case errors.Is(err, os.ErrNotExist):
		ec.WithSuggestion("Check the path passed with --input or " + config.EnvInput).
			WithIssue(issue.InputNotFoundId)
	default:
		ec.WithIssue(issue.InputNotFoundId)
	}

	ae := ec.Build()
	return nil, "", newServiceError(ae, ae.IssueId, exitInput)
}

// generateError classifies a pipeline failure.
func generateError(err error, source string) error {
	ec := issue.NewErrorContext().
		WithOperation("generate rc script").
		WithResource(source).
		Wrap(err)

	switch {
	case errors.Is(err, rcscript.ErrMissingOutput):
		ec.WithSuggestion(`Every name listed in "outputs" must be a variable holding its path`).
			WithIssue(issue.OutputReferenceMissingId)
	case errors.Is(err, rcscript.ErrInvalidOutput):
		ec.WithSuggestion(`Output variables must be of type "var" or "exported"`).
			WithIssue(issue.OutputReferenceInvalidId)
	default:
		ae := ec.Build()
		return newServiceError(ae, 0, exitGeneric)
	}

	ae := ec.Build()
	return newServiceError(ae, ae.IssueId, exitInput)
}

// writeFileAtomic writes data to a temp file next to path and renames it into
// place, so readers never observe a partially written script. An existing
// file keeps its permission bits; new files get 0644.
func writeFileAtomic(path string, data []byte) (err error) {
	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err = tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	renamed = true

	return nil
}
