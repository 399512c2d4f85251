// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// StdinPath selects standard input as the environment document.
	StdinPath InputPath = "-"

	// DefaultOutputsDir mirrors the rewriter's placeholder directory.
	DefaultOutputsDir OutputsDir = "./outputs"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidInputPath is returned when an InputPath is whitespace-only.
	ErrInvalidInputPath = errors.New("invalid input path")
	// ErrInvalidOutputsDir is returned when an OutputsDir is empty or whitespace-only.
	ErrInvalidOutputsDir = errors.New("invalid outputs directory")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InputPath locates the captured environment document. The zero value
	// means "not configured"; StdinPath reads standard input.
	InputPath string

	// InvalidInputPathError wraps ErrInvalidInputPath.
	InvalidInputPathError struct {
		Value InputPath
	}

	// OutputsDir is the directory build-output paths are rewritten to.
	OutputsDir string

	// InvalidOutputsDirError wraps ErrInvalidOutputsDir.
	InvalidOutputsDirError struct {
		Value OutputsDir
	}

	// InvalidConfigError collects field-level validation errors.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the devrc configuration.
	Config struct {
		Input   InputConfig   `json:"input" mapstructure:"input"`
		Prompt  PromptConfig  `json:"prompt" mapstructure:"-"`
		Rewrite RewriteConfig `json:"rewrite" mapstructure:"rewrite"`
		UI      UIConfig      `json:"ui" mapstructure:"ui"`
	}

	// InputConfig locates the captured environment.
	InputConfig struct {
		Path InputPath `json:"path" mapstructure:"path"`
	}

	// PromptConfig customizes PS1. A nil field is absent; a pointer to ""
	// is present and still emits its prompt line.
	PromptConfig struct {
		Full   *string `json:"full,omitempty"`
		Prefix *string `json:"prefix,omitempty"`
		Suffix *string `json:"suffix,omitempty"`
	}

	// RewriteConfig configures the output-path rewriter.
	RewriteConfig struct {
		OutputsDir OutputsDir `json:"outputs_dir" mapstructure:"outputs_dir"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables debug logging
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// String returns the string representation of the InputPath.
func (p InputPath) String() string { return string(p) }

// IsStdin reports whether the document is read from standard input.
func (p InputPath) IsStdin() bool { return p == StdinPath }

// IsValid accepts the zero value; any other value must contain a
// non-whitespace character.
func (p InputPath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidInputPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidInputPathError.
func (e *InvalidInputPathError) Error() string {
	return fmt.Sprintf("invalid input path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidInputPath for errors.Is() compatibility.
func (e *InvalidInputPathError) Unwrap() error { return ErrInvalidInputPath }

// String returns the string representation of the OutputsDir.
func (d OutputsDir) String() string { return string(d) }

// IsValid returns whether the OutputsDir is non-empty and not whitespace-only.
func (d OutputsDir) IsValid() (bool, []error) {
	if strings.TrimSpace(string(d)) == "" {
		return false, []error{&InvalidOutputsDirError{Value: d}}
	}
	return true, nil
}

// Error implements the error interface for InvalidOutputsDirError.
func (e *InvalidOutputsDirError) Error() string {
	return fmt.Sprintf("invalid outputs directory %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidOutputsDir for errors.Is() compatibility.
func (e *InvalidOutputsDirError) Unwrap() error { return ErrInvalidOutputsDir }

// IsZero reports whether no prompt customization is configured.
func (p PromptConfig) IsZero() bool {
	return p.Full == nil && p.Prefix == nil && p.Suffix == nil
}

// IsValid returns whether the Config has valid fields.
// Prompt strings are arbitrary and need no validation.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Input.Path.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Rewrite.OutputsDir.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Rewrite: RewriteConfig{
			OutputsDir: DefaultOutputsDir,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}
