// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/devrc/devrc/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `devrc config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage devrc configuration",
		Long: `Manage devrc configuration.

Configuration is stored in:
  - $XDG_CONFIG_HOME/devrc/config.cue when XDG_CONFIG_HOME is set
  - Linux: ~/.config/devrc/config.cue
  - macOS: ~/Library/Application Support/devrc/config.cue
  - Windows: %APPDATA%\devrc\config.cue

Environment variables take precedence over the file; command line flags
take precedence over both.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.reportError(cmd, err)
			}
			showConfig(cmd.OutOrStdout(), cfg, path)
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(cmd.OutOrStdout(), app.configPath, force); err != nil {
				return app.reportError(cmd, err)
			}
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, exists, err := config.ConfigFilePath(config.LoadOptions{ConfigFilePath: app.configPath})
			if err != nil {
				return app.reportError(cmd, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			if !exists {
				fmt.Fprintln(cmd.ErrOrStderr(), SubtitleStyle.Render("(file does not exist, defaults apply)"))
			}
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.reportError(cmd, err)
			}
			fmt.Fprint(cmd.OutOrStdout(), config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(w io.Writer, cfg *config.Config, path string) {
	keyStyle := KeyStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if path != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s:\n", keyStyle.Render("input"))
	if cfg.Input.Path == "" {
		fmt.Fprintf(w, "  path: %s\n", SubtitleStyle.Render("(not set)"))
	} else {
		fmt.Fprintf(w, "  path: %s\n", valueStyle.Render(cfg.Input.Path.String()))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("prompt"))
	fmt.Fprintf(w, "  full: %s\n", optionalValue(cfg.Prompt.Full))
	fmt.Fprintf(w, "  prefix: %s\n", optionalValue(cfg.Prompt.Prefix))
	fmt.Fprintf(w, "  suffix: %s\n", optionalValue(cfg.Prompt.Suffix))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("rewrite"))
	fmt.Fprintf(w, "  outputs_dir: %s\n", valueStyle.Render(cfg.Rewrite.OutputsDir.String()))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(strconv.FormatBool(cfg.UI.Verbose)))
}

func optionalValue(v *string) string {
	if v == nil {
		return SubtitleStyle.Render("(not set)")
	}
	return SuccessStyle.Render(strconv.Quote(*v))
}

func initConfig(w io.Writer, explicitPath string, force bool) error {
	path, _, err := config.ConfigFilePath(config.LoadOptions{ConfigFilePath: explicitPath})
	if err != nil {
		return err
	}

	written, err := config.CreateDefaultConfig(path, force)
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	if !written {
		fmt.Fprintf(w, "%s Configuration already exists at %s (use --force to overwrite)\n", warningIcon, path)
		return nil
	}
	fmt.Fprintf(w, "%s Created default configuration at %s\n", successIcon, path)
	return nil
}
