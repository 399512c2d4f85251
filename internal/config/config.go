// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/devrc/devrc/internal/cueutil"
	"github.com/devrc/devrc/internal/issue"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "devrc"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
)

// Environment variables read as configuration.
const (
	EnvInput        = "envInp"
	EnvPrompt       = "bashPrompt"
	EnvPromptPrefix = "bashPromptPrefix"
	EnvPromptSuffix = "bashPromptSuffix"
	EnvOutputsDir   = "DEVRC_OUTPUTS_DIR"
	EnvVerbose      = "DEVRC_VERBOSE"
	EnvColorScheme  = "DEVRC_COLOR_SCHEME"
)

// Viper keys.
const (
	keyInputPath   = "input.path"
	keyPromptFull  = "prompt.full"
	keyPromptPre   = "prompt.prefix"
	keyPromptSuf   = "prompt.suffix"
	keyOutputsDir  = "rewrite.outputs_dir"
	keyVerbose     = "ui.verbose"
	keyColorScheme = "ui.color_scheme"
)

//go:embed config_schema.cue
var configSchema string

var envBindings = [][2]string{
	{keyInputPath, EnvInput},
	{keyPromptFull, EnvPrompt},
	{keyPromptPre, EnvPromptPrefix},
	{keyPromptSuf, EnvPromptSuffix},
	{keyOutputsDir, EnvOutputsDir},
	{keyVerbose, EnvVerbose},
	{keyColorScheme, EnvColorScheme},
}

// ConfigDir returns the devrc configuration directory. $XDG_CONFIG_HOME wins
// on every platform; otherwise Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support and everything else ~/.config.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}

	return filepath.Join(configDir, AppName), nil
}

// ConfigFilePath returns the config file path for opts and whether the file
// exists. An explicit ConfigFilePath is returned as-is.
func ConfigFilePath(opts LoadOptions) (string, bool, error) {
	if opts.ConfigFilePath != "" {
		return opts.ConfigFilePath, fileExists(opts.ConfigFilePath), nil
	}
	cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
	if err != nil {
		return "", false, err
	}
	path := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	return path, fileExists(path), nil
}

// loadWithOptions performs option-driven config loading. It returns the
// config file actually read, or "" when only defaults and environment apply.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault(keyOutputsDir, string(defaults.Rewrite.OutputsDir))
	v.SetDefault(keyVerbose, defaults.UI.Verbose)
	v.SetDefault(keyColorScheme, string(defaults.UI.ColorScheme))

	// Empty prompt strings are meaningful, so empty variables count as set.
	v.AllowEmptyEnv(true)
	for _, b := range envBindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return nil, "", fmt.Errorf("failed to bind %s: %w", b[1], err)
		}
	}

	path, exists, err := ConfigFilePath(opts)
	if err != nil {
		return nil, "", err
	}

	resolvedPath := ""
	switch {
	case exists:
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, "", configError(path, err,
				"Check that the file contains valid CUE syntax",
				"Verify the configuration values match the expected schema",
			)
		}
		resolvedPath = path
	case opts.ConfigFilePath != "":
		return nil, "", configError(path, fmt.Errorf("config file not found: %s", path),
			"Verify the file path is correct",
			"Run 'devrc config init' to create the default config",
		)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Prompt = PromptConfig{
		Full:   optionalString(v, keyPromptFull),
		Prefix: optionalString(v, keyPromptPre),
		Suffix: optionalString(v, keyPromptSuf),
	}

	if valid, errs := cfg.IsValid(); !valid {
		source := resolvedPath
		if source == "" {
			source = "environment"
		}
		return nil, "", configError(source, errs[0],
			"Check the values of "+EnvOutputsDir+", "+EnvColorScheme+" and "+EnvInput,
		)
	}

	return &cfg, resolvedPath, nil
}

func configError(resource string, err error, suggestions ...string) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(resource).
		WithSuggestions(suggestions...).
		WithSuggestion("Run 'devrc config path' to see which file is used").
		WithIssue(issue.ConfigLoadFailedId).
		Wrap(err).
		BuildError()
}

// optionalString returns nil when key is set nowhere.
func optionalString(v *viper.Viper, key string) *string {
	if !v.IsSet(key) {
		return nil
	}
	s := v.GetString(key)
	return &s
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadCUEIntoViper validates a CUE file against #Config and merges it into v.
// Decoding goes through map[string]any so Viper keeps precedence handling;
// concreteness is not required because every field is optional.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	result, err := cueutil.ParseAndDecodeString[map[string]any](configSchema, data, "#Config",
		cueutil.WithFilename(path),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(*result.Value); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes the default config to path. An existing file is
// left untouched unless force is set; the returned bool reports whether the
// file was written.
func CreateDefaultConfig(path string, force bool) (bool, error) {
	if !force && fileExists(path) {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}

	return true, nil
}

// GenerateCUE generates a CUE representation of the configuration.
// Absent prompt strings are written as comments.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// devrc configuration\n")
	sb.WriteString("// Environment variables override these values: " +
		strings.Join([]string{EnvInput, EnvPrompt, EnvPromptPrefix, EnvPromptSuffix, EnvOutputsDir, EnvVerbose, EnvColorScheme}, ", ") +
		".\n\n")

	if cfg.Input.Path != "" {
		fmt.Fprintf(&sb, "input: {\n\tpath: %s\n}\n\n", strconv.Quote(string(cfg.Input.Path)))
	}

	sb.WriteString("prompt: {\n")
	writeOptional(&sb, "full", cfg.Prompt.Full, `"\\u@\\h:\\w$ "`)
	writeOptional(&sb, "prefix", cfg.Prompt.Prefix, `"[dev] "`)
	writeOptional(&sb, "suffix", cfg.Prompt.Suffix, `" (dev)"`)
	sb.WriteString("}\n")

	sb.WriteString("\nrewrite: {\n")
	fmt.Fprintf(&sb, "\toutputs_dir: %s\n", strconv.Quote(string(cfg.Rewrite.OutputsDir)))
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}

func writeOptional(sb *strings.Builder, field string, value *string, example string) {
	if value == nil {
		fmt.Fprintf(sb, "\t// %s: %s\n", field, example)
		return
	}
	fmt.Fprintf(sb, "\t%s: %s\n", field, strconv.Quote(*value))
}
