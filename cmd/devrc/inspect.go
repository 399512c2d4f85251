// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/devrc/devrc/internal/config"
	"github.com/devrc/devrc/internal/rcscript"
	"github.com/devrc/devrc/pkg/devenv"

	"github.com/spf13/cobra"
)

// inspectKinds is the display order of the kind counts.
var inspectKinds = []devenv.Kind{
	devenv.KindVar,
	devenv.KindExported,
	devenv.KindArray,
	devenv.KindAssociative,
	devenv.KindUnknown,
}

// environmentSummary is what `devrc inspect` reports about a document.
type environmentSummary struct {
	Source     string
	KindCounts map[devenv.Kind]int
	// Ignored lists variables present in the document that are never emitted.
	Ignored   []string
	Unknown   []string
	Functions []string
	// Merged lists path-list variables in the document that are joined with
	// the inherited shell value instead of replacing it.
	Merged []string
	// IgnoreSetSize is the number of names generate never emits.
	IgnoreSetSize int
	TempDirs      []string
	Rewrites      []rcscript.Rewrite
	// RewriteErr is set when output paths cannot be resolved; generate
	// would fail on the same document.
	RewriteErr error
}

func newInspectCommand(app *App) *cobra.Command {
	var input string
	var outputsDir string

	inspectCmd := &cobra.Command{
		Use:   "inspect",
		Short: "Summarize a captured environment",
		Long: `Summarize a captured environment without generating a script.

Shows how many variables of each kind the document holds, which ones are
skipped, the captured functions and how build-output paths will be rewritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runInspect(cmd, app, input, outputsDir); err != nil {
				return app.reportError(cmd, err)
			}
			return nil
		},
	}

	inspectCmd.Flags().StringVarP(&input, "input", "i", "", `environment JSON file ("-" for stdin)`)
	inspectCmd.Flags().StringVar(&outputsDir, "outputs-dir", "", "directory build outputs are rewritten to (default ./outputs)")

	return inspectCmd
}

func runInspect(cmd *cobra.Command, app *App, input, outputsDir string) error {
	cfg, err := resolveConfig(cmd, app, generateFlags{input: input, outputsDir: outputsDir})
	if err != nil {
		return err
	}

	env, source, err := loadEnvironment(cmd.Context(), cmd.InOrStdin(), cfg.Input.Path)
	if err != nil {
		return err
	}

	renderSummary(cmd.OutOrStdout(), summarize(env, source, cfg.Rewrite.OutputsDir))
	return nil
}

func summarize(env *devenv.Environment, source string, outputsDir config.OutputsDir) environmentSummary {
	s := environmentSummary{
		Source:     source,
		KindCounts: make(map[devenv.Kind]int, len(inspectKinds)),
		Functions:  env.FunctionNames(),
		// The builder points these at the scratch directory whether or
		// not the document mentions them.
		TempDirs:      rcscript.TempDirVariables(),
		IgnoreSetSize: len(rcscript.IgnoredVariables()),
	}

	for _, name := range rcscript.SavedVariables() {
		if _, ok := env.Lookup(name); ok {
			s.Merged = append(s.Merged, name)
		}
	}

	for _, name := range env.VariableNames() {
		v := env.Variables[name]
		s.KindCounts[v.Kind]++
		switch {
		case rcscript.IsIgnored(name):
			s.Ignored = append(s.Ignored, name)
		case v.Kind == devenv.KindUnknown:
			s.Unknown = append(s.Unknown, name)
		}
	}

	s.Rewrites, s.RewriteErr = rcscript.OutputRewrites(env, string(outputsDir))
	return s
}

func renderSummary(w io.Writer, s environmentSummary) {
	fmt.Fprintln(w, TitleStyle.Render("Environment")+" "+SubtitleStyle.Render(s.Source))
	fmt.Fprintln(w)

	counts := make([]string, 0, len(inspectKinds))
	for _, k := range inspectKinds {
		counts = append(counts, fmt.Sprintf("%s: %s", KeyStyle.Render(k.String()), SuccessStyle.Render(fmt.Sprint(s.KindCounts[k]))))
	}
	fmt.Fprintln(w, TitleStyle.Render("Variables"))
	fmt.Fprintln(w, sectionStyle.Render(strings.Join(counts, "  ")))
	fmt.Fprintln(w)

	fmt.Fprintln(w, TitleStyle.Render("Skipped"))
	fmt.Fprintln(w, sectionStyle.Render(fmt.Sprintf("%s ignored: %s", infoIcon, nameList(s.Ignored))))
	fmt.Fprintln(w, sectionStyle.Render(fmt.Sprintf("%s unknown: %s", infoIcon, nameList(s.Unknown))))
	fmt.Fprintln(w, sectionStyle.Render(SubtitleStyle.Render(fmt.Sprintf("(%d names are never emitted)", s.IgnoreSetSize))))
	fmt.Fprintln(w)

	fmt.Fprintln(w, TitleStyle.Render("Shell handling"))
	fmt.Fprintln(w, sectionStyle.Render(fmt.Sprintf("%s merged: %s", infoIcon, nameList(s.Merged))))
	fmt.Fprintln(w, sectionStyle.Render(fmt.Sprintf("%s temp dir: %s", infoIcon, nameList(s.TempDirs))))
	fmt.Fprintln(w)

	fmt.Fprintln(w, TitleStyle.Render("Functions"))
	fmt.Fprintln(w, sectionStyle.Render(nameList(s.Functions)))
	fmt.Fprintln(w)

	fmt.Fprintln(w, TitleStyle.Render("Output rewrites"))
	switch {
	case s.RewriteErr != nil:
		fmt.Fprintln(w, sectionStyle.Render(warningIcon+" "+WarningStyle.Render(s.RewriteErr.Error())))
	case len(s.Rewrites) == 0:
		fmt.Fprintln(w, sectionStyle.Render(SubtitleStyle.Render("(none)")))
	default:
		for _, r := range s.Rewrites {
			fmt.Fprintln(w, sectionStyle.Render(fmt.Sprintf("%s %s: %s -> %s", successIcon, r.Name, KeyStyle.Render(r.From), SuccessStyle.Render(r.To))))
		}
	}
}

func nameList(names []string) string {
	if len(names) == 0 {
		return SubtitleStyle.Render("(none)")
	}
	return strings.Join(names, ", ")
}
