package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Overrides are per-machine values layered over the shared manifest: the
// manifest describes what every workstation should look like, the overrides
// file carries what differs on this one. All fields are optional.
type Overrides struct {
	BrewPrefix   string `toml:"brew_prefix"`
	WorkEmail    string `toml:"work_email"`
	DefaultEmail string `toml:"default_email"`
}

// DefaultOverridesPath is where LoadOverrides looks when no explicit path is
// given: ~/.config/provision-mac/overrides.toml.
func DefaultOverridesPath(home string) string {
	return filepath.Join(home, ".config", "provision-mac", "overrides.toml")
}

// LoadOverrides reads the optional TOML overrides file. A missing file is
// the normal case and yields empty overrides; a present-but-broken file is
// an error so a typo does not silently fall back to defaults.
func LoadOverrides(path string) (Overrides, error) {
	var raw Overrides
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		if os.IsNotExist(err) {
			return Overrides{}, nil
		}
		return Overrides{}, fmt.Errorf("load overrides %s: %w", path, err)
	}

	var ov Overrides
	if meta.IsDefined("brew_prefix") {
		ov.BrewPrefix = strings.TrimSpace(raw.BrewPrefix)
	}
	if meta.IsDefined("work_email") {
		ov.WorkEmail = strings.TrimSpace(raw.WorkEmail)
	}
	if meta.IsDefined("default_email") {
		ov.DefaultEmail = strings.TrimSpace(raw.DefaultEmail)
	}
	return ov, nil
}
