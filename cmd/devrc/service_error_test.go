// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/devrc/devrc/internal/config"
	"github.com/devrc/devrc/internal/issue"
)

func TestNewServiceError_PanicsOnNilErr(t *testing.T) {
	t.Parallel()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on nil Err, got none")
		}
		msg, ok := r.(string)
		if !ok {
			t.Fatalf("expected string panic, got %T", r)
		}
		if msg != "ServiceError: Err must not be nil" {
			t.Fatalf("unexpected panic message: %s", msg)
		}
	}()

	newServiceError(nil, 0, exitGeneric)
}

func TestServiceError_ErrorAndUnwrap(t *testing.T) {
	t.Parallel()

	underlying := errors.New("underlying error")
	svcErr := newServiceError(underlying, issue.InputNotFoundId, exitInput)

	if svcErr.Error() != "underlying error" {
		t.Errorf("Error() = %q, want %q", svcErr.Error(), "underlying error")
	}
	if !errors.Is(svcErr, underlying) {
		t.Error("errors.Is should find underlying error via Unwrap")
	}
	if svcErr.Code != exitInput || svcErr.IssueID != issue.InputNotFoundId {
		t.Errorf("unexpected fields: %+v", svcErr)
	}
}

func TestRenderServiceError_NilServiceError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	renderServiceError(&buf, nil, false, config.ColorSchemeAuto)

	if buf.Len() != 0 {
		t.Errorf("expected no output for nil ServiceError, got %q", buf.String())
	}
}

func TestRenderServiceError_MessageOnly(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	renderServiceError(&buf, newServiceError(errors.New("boom"), 0, exitGeneric), false, config.ColorSchemeAuto)

	if got := buf.String(); !strings.Contains(got, "Error:") || !strings.HasSuffix(got, "boom\n") {
		t.Errorf("unexpected output %q", got)
	}
}

func TestRenderServiceError_WithIssue(t *testing.T) {
	t.Parallel()

	var withIssue, without bytes.Buffer
	err := errors.New("boom")
	renderServiceError(&withIssue, newServiceError(err, issue.InputParseFailedId, exitInput), false, config.ColorSchemeDark)
	renderServiceError(&without, newServiceError(err, 0, exitInput), false, config.ColorSchemeDark)

	if withIssue.Len() <= without.Len() {
		t.Error("expected the issue page to be rendered after the message")
	}
	if !strings.HasPrefix(withIssue.String(), without.String()) {
		t.Error("the error message must precede the issue page")
	}
}

func TestIssueStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		scheme config.ColorScheme
		want   string
	}{
		{config.ColorSchemeAuto, "dark"},
		{config.ColorSchemeDark, "dark"},
		{config.ColorSchemeLight, "light"},
	}
	for _, tt := range tests {
		if got := issueStyle(tt.scheme); got != tt.want {
			t.Errorf("issueStyle(%q) = %q, want %q", tt.scheme, got, tt.want)
		}
	}
}

func TestReportError_UsesActionableIssue(t *testing.T) {
	ae := issue.NewErrorContext().
		WithOperation("parse environment").
		WithIssue(issue.InputParseFailedId).
		Wrap(errors.New("bad")).
		Build()

	app, err := NewApp(Dependencies{Config: defaultProvider()})
	if err != nil {
		t.Fatal(err)
	}
	root := newRootCommand(app)
	var stderr bytes.Buffer
	root.SetErr(&stderr)

	got := app.reportError(root, ae)

	var exitErr *ExitError
	if !errors.As(got, &exitErr) || exitErr.Code != exitGeneric {
		t.Fatalf("reportError() = %v, want ExitError{Code: %d}", got, exitGeneric)
	}
	if exitErr.Err != nil {
		t.Error("reported errors must not carry a message of their own")
	}
	if !strings.Contains(stderr.String(), "failed to parse environment: bad") {
		t.Errorf("stderr = %q", stderr.String())
	}
	if !root.SilenceErrors || !root.SilenceUsage {
		t.Error("reportError should silence cobra's own error output")
	}
}
