// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"testing"
)

func TestNewProvider(t *testing.T) {
	t.Parallel()

	var _ Provider = NewProvider()
}

func TestProvider_ConfigDirOverride(t *testing.T) {
	clearConfigEnv(t)
	t.Cleanup(Reset)

	dir := t.TempDir()
	writeConfig(t, dir, `rewrite: outputs_dir: "pinned"`)
	SetConfigDirOverride(dir)

	cfg, path, err := NewProvider().Load(context.Background(), LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if path == "" || cfg.Rewrite.OutputsDir != "pinned" {
		t.Errorf("override not honored: path=%q cfg=%+v", path, cfg.Rewrite)
	}
}
