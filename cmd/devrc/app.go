// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/devrc/devrc/internal/config"
	"github.com/devrc/devrc/internal/issue"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

type (
	// App wires CLI services and shared dependencies. Every command handler
	// receives an App and reads configuration through its ConfigProvider.
	App struct {
		Config ConfigProvider
		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer

		// verbose and configPath are bound to the global flags.
		verbose    bool
		configPath string

		colorScheme config.ColorScheme
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, string, error)
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}

	return &App{
		Config:      deps.Config,
		stdin:       deps.Stdin,
		stdout:      deps.Stdout,
		stderr:      deps.Stderr,
		colorScheme: config.ColorSchemeAuto,
	}, nil
}

// loadConfig loads the configuration selected by the --config flag. A
// ui.verbose setting raises the log level when the flag did not.
func (a *App) loadConfig(ctx context.Context) (*config.Config, string, error) {
	cfg, path, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.configPath})
	if err != nil {
		return nil, "", newServiceError(err, issue.ConfigLoadFailedId, exitGeneric)
	}

	a.colorScheme = cfg.UI.ColorScheme
	if cfg.UI.Verbose && !a.verbose {
		a.verbose = true
		a.installLogger()
	}

	return cfg, path, nil
}

// installLogger makes a charmbracelet/log logger writing to stderr the
// default slog handler. stdout is reserved for the generated script.
func (a *App) installLogger() {
	level := log.WarnLevel
	if a.verbose {
		level = log.DebugLevel
	}

	logger := log.NewWithOptions(a.stderr, log.Options{
		Prefix: config.AppName,
		Level:  level,
	})
	slog.SetDefault(slog.New(logger))
}

// reportError renders err on the command's stderr and converts it into an
// ExitError carrying the exit code. The error is fully reported afterwards;
// the returned ExitError has no message of its own.
func (a *App) reportError(cmd *cobra.Command, err error) error {
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		svcErr = newServiceError(err, 0, exitGeneric)
	}

	if svcErr.IssueID == 0 {
		var ae *issue.ActionableError
		if errors.As(svcErr.Err, &ae) && ae.IssueId != 0 {
			svcErr = newServiceError(svcErr.Err, ae.IssueId, svcErr.Code)
		}
	}

	renderServiceError(cmd.ErrOrStderr(), svcErr, a.verbose, a.colorScheme)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return &ExitError{Code: svcErr.Code}
}
