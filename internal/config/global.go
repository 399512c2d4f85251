// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride lets tests pin the config directory without touching
// XDG_CONFIG_HOME or HOME.
var configDirOverride string

// Reset clears test overrides.
func Reset() {
	configDirOverride = ""
}

// SetConfigDirOverride pins ConfigDir to dir until Reset is called.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}
