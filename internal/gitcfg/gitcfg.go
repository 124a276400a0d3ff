// Package gitcfg writes the git identity configuration: per-directory
// [user] stanzas routed from the global config via includeIf, plus the
// global default email.
package gitcfg

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gopasspw/gitconfig"
)

// IdentityFileName is the scoped config file written inside each identity
// directory and referenced by the includeIf stanza in the global config.
const IdentityFileName = ".gitconfig"

// IdentityPath returns the scoped config path for an identity directory.
func IdentityPath(dir string) string {
	return filepath.Join(dir, IdentityFileName)
}

// RenderIdentity renders the [user] stanza written to a scoped config file.
func RenderIdentity(email string) string {
	return fmt.Sprintf("[user]\n\temail = %s\n", email)
}

// IdentityCurrent reports whether dir's scoped config already holds exactly
// the stanza for email. The file is overwritten, not appended, so equality
// is the probe.
func IdentityCurrent(dir, email string) (bool, error) {
	data, err := os.ReadFile(IdentityPath(dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return string(data) == RenderIdentity(email), nil
}

// WriteIdentity overwrites dir's scoped config with the [user] stanza,
// creating the directory if needed.
func WriteIdentity(dir, email string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create identity directory %s: %w", dir, err)
	}
	if err := os.WriteFile(IdentityPath(dir), []byte(RenderIdentity(email)), 0644); err != nil {
		return fmt.Errorf("write identity config: %w", err)
	}
	return nil
}

// DefaultEmailSet reports whether user.email is already set in the global
// config at globalPath.
func DefaultEmailSet(globalPath string) bool {
	cs := newConfigs(globalPath)
	return cs.Get("user.email") != ""
}

// SetDefaultEmail writes user.email into the global config at globalPath.
// Callers gate this on DefaultEmailSet: an existing value is never replaced.
func SetDefaultEmail(globalPath, email string) error {
	cs := newConfigs(globalPath)
	return cs.SetGlobal("user.email", email)
}

// newConfigs builds a gitconfig handle scoped to a single global file, with
// the system, local and worktree scopes disabled so only globalPath is ever
// read or written.
func newConfigs(globalPath string) *gitconfig.Configs {
	cs := gitconfig.New()
	cs.SystemConfig = ""
	cs.GlobalConfig = globalPath
	cs.LocalConfig = ""
	cs.WorktreeConfig = ""
	cs.LoadAll(filepath.Dir(globalPath))
	return cs
}
