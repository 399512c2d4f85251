// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/devrc/devrc/internal/config"
)

const fixturePath = "../../pkg/devenv/testdata/env.json"

// stubConfigProvider returns a copy of cfg (or err) on every Load.
type stubConfigProvider struct {
	cfg  *config.Config
	path string
	err  error
}

func (p *stubConfigProvider) Load(context.Context, config.LoadOptions) (*config.Config, string, error) {
	if p.err != nil {
		return nil, "", p.err
	}
	cfg := *p.cfg
	return &cfg, p.path, nil
}

func defaultProvider() *stubConfigProvider {
	return &stubConfigProvider{cfg: config.DefaultConfig()}
}

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// exitCode returns the ExitError code, 0 for success and -1 for any other error.
func (r cliResult) exitCode() int {
	if r.err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(r.err, &exitErr) {
		return exitErr.Code
	}
	return -1
}

// runCLI executes the command tree in-process. Not safe for parallel tests:
// the root command installs the default slog logger.
func runCLI(t *testing.T, provider ConfigProvider, stdin string, args ...string) cliResult {
	t.Helper()

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var stdout, stderr bytes.Buffer
	app, err := NewApp(Dependencies{
		Config: provider,
		Stdin:  strings.NewReader(stdin),
		Stdout: &stdout,
		Stderr: &stderr,
	})
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}

	root := newRootCommand(app)
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())

	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}
