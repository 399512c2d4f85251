// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/devrc/devrc/internal/config"
	"github.com/devrc/devrc/internal/issue"
	"github.com/devrc/devrc/internal/watch"

	"github.com/spf13/cobra"
)

// runWatch generates once and then again after every change to the input
// document or the config file. Generation failures are reported and the
// watch continues, so a broken document can be fixed in place.
func runWatch(cmd *cobra.Command, app *App, flags generateFlags) error {
	if flags.output == "" {
		ae := issue.NewErrorContext().
			WithOperation("watch environment").
			WithSuggestion("Add --output rc.sh").
			Wrap(errors.New("--watch requires --output")).
			Build()
		return newServiceError(ae, 0, exitGeneric)
	}

	files, err := watchedFiles(cmd, app, flags)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	regenerate := func() {
		if err := runGenerate(cmd, app, flags); err != nil {
			_ = app.reportError(cmd, err)
			return
		}
		fmt.Fprintf(stderr, "%s wrote %s\n", successIcon, flags.output)
	}

	w, err := watch.New(watch.Config{
		Files: files,
		OnChange: func(_ context.Context, changed []string) error {
			slog.Info("regenerating", "changed", changed)
			regenerate()
			return nil
		},
	})
	if err != nil {
		return newServiceError(err, 0, exitGeneric)
	}

	regenerate()
	fmt.Fprintf(stderr, "%s watching %s\n", infoIcon, strings.Join(w.Files(), ", "))

	if err := w.Run(cmd.Context()); err != nil {
		return newServiceError(err, 0, exitGeneric)
	}
	return nil
}

// watchedFiles returns the input document and, when it exists, the config
// file.
func watchedFiles(cmd *cobra.Command, app *App, flags generateFlags) ([]string, error) {
	cfg, err := resolveConfig(cmd, app, flags)
	if err != nil {
		return nil, err
	}
	if cfg.Input.Path.IsStdin() {
		ae := issue.NewErrorContext().
			WithOperation("watch environment").
			WithResource(stdinSource).
			WithSuggestion("Pass a file with --input").
			Wrap(errors.New("standard input cannot be watched")).
			Build()
		return nil, newServiceError(ae, 0, exitInput)
	}

	files := []string{cfg.Input.Path.String()}
	if path, exists, err := config.ConfigFilePath(config.LoadOptions{ConfigFilePath: app.configPath}); err == nil && exists {
		files = append(files, path)
	}
	return files, nil
}
