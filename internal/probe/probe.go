// Package probe implements the inventory prober: given a manifest item, it
// determines whether the desired state already holds. Probes have no side
// effects, and "not installed" is the normal false case, never an error.
package probe

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"

	"provision-mac/internal/command"
	"provision-mac/internal/config"
	"provision-mac/internal/environment"
	"provision-mac/internal/gitcfg"
	"provision-mac/internal/logger"
)

// Prober checks current state per item kind. GitGlobalConfig and FontsDir
// default to the conventional locations under the resolved home directory
// and are exported so tests can point them elsewhere.
type Prober struct {
	runner command.Runner
	env    environment.Environment

	GitGlobalConfig string
	FontsDir        string
}

func New(runner command.Runner, env environment.Environment) *Prober {
	return &Prober{
		runner:          runner,
		env:             env,
		GitGlobalConfig: filepath.Join(env.Home, ".gitconfig"),
		FontsDir:        filepath.Join(env.Home, "Library", "Fonts"),
	}
}

// Probe reports whether item already satisfies the manifest. A non-nil error
// is a soft warning (state exists but could not be read cleanly); the driver
// logs it and proceeds as unsatisfied.
func (p *Prober) Probe(item config.Item) (bool, error) {
	switch item.Kind {
	case config.KindPackage:
		return p.brewInstalled("--formula", item.Identifier), nil
	case config.KindCask:
		return p.brewInstalled("--cask", item.Identifier), nil
	case config.KindStoreApp:
		return p.storeAppInstalled(item.Identifier)
	case config.KindClone:
		return p.dirExists(item.Clone.Dest), nil
	case config.KindRuntime:
		return p.runtimeCurrent(item.Runtime)
	case config.KindFragment:
		return p.fragmentPresent(item.Fragment)
	case config.KindGitIdentity:
		return p.identityCurrent(item.GitIdentity)
	case config.KindGitDefault:
		return gitcfg.DefaultEmailSet(p.GitGlobalConfig), nil
	case config.KindFont:
		return p.fontInstalled(item.Identifier), nil
	default:
		return false, fmt.Errorf("unknown item kind %q", item.Kind)
	}
}

// brewInstalled is true when Homebrew reports the token installed, or when a
// same-named executable already resolves on the search path (a tool present
// outside Homebrew still satisfies the manifest).
func (p *Prober) brewInstalled(listFlag, token string) bool {
	if _, err := p.runner.Run(p.brewBin(), "list", listFlag, token); err == nil {
		return true
	}
	if _, err := p.runner.LookPath(token); err == nil {
		logger.Debug("[DEBUG] %s resolves on PATH outside Homebrew\n", token)
		return true
	}
	return false
}

func (p *Prober) brewBin() string {
	if p.env.BrewPrefix != "" {
		return filepath.Join(p.env.BrewPrefix, "bin", "brew")
	}
	return "brew"
}

// storeAppInstalled scans `mas list` for the store identifier. An absent mas
// binary probes false without error; the executor records the skip.
func (p *Prober) storeAppInstalled(id string) (bool, error) {
	if _, err := p.runner.LookPath("mas"); err != nil {
		logger.Debug("[DEBUG] mas CLI not found, store app %s treated as unsatisfied\n", id)
		return false, nil
	}
	out, err := p.runner.Run("mas", "list")
	if err != nil {
		return false, fmt.Errorf("mas list: %w", err)
	}
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) > 0 && fields[0] == id {
			return true, nil
		}
	}
	return false, nil
}

func (p *Prober) dirExists(path string) bool {
	info, err := os.Stat(p.env.Expand(path))
	return err == nil && info.IsDir()
}

// runtimeCurrent asks the runtime binary for its version and checks it
// against the manifest's semver constraint. A binary that is missing or not
// runnable is simply not installed.
func (p *Prober) runtimeCurrent(rt *config.Runtime) (bool, error) {
	out, err := p.runner.Run(rt.Name, "--version")
	if err != nil {
		return false, nil
	}
	raw := strings.TrimPrefix(strings.TrimSpace(string(out)), "v")
	version, err := semver.NewVersion(raw)
	if err != nil {
		return false, fmt.Errorf("unparseable %s version %q: %w", rt.Name, raw, err)
	}
	constraint, err := semver.NewConstraint(rt.Version)
	if err != nil {
		return false, fmt.Errorf("bad version constraint %q for %s: %w", rt.Version, rt.Name, err)
	}
	return constraint.Check(version), nil
}

// fragmentPresent is the marker test: the fragment counts as applied when
// its marker appears as a substring anywhere in the target file. A missing
// file is plain false; an unreadable existing file is surfaced as a warning.
func (p *Prober) fragmentPresent(f *config.Fragment) (bool, error) {
	data, err := os.ReadFile(p.env.Expand(f.TargetFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", f.TargetFile, err)
	}
	return strings.Contains(string(data), f.Marker), nil
}

func (p *Prober) identityCurrent(id *config.GitIdentity) (bool, error) {
	email := id.Email
	if email == "" {
		email = p.env.WorkEmail
	}
	if email == "" {
		// Nothing to compare against; the executor will record the skip.
		return false, nil
	}
	return gitcfg.IdentityCurrent(p.env.Expand(id.Dir), email)
}

// fontInstalled checks the user font directory for any font file whose name
// contains the declared font name.
func (p *Prober) fontInstalled(name string) bool {
	entries, err := os.ReadDir(p.FontsDir)
	if err != nil {
		return false
	}
	needle := strings.ToLower(name)
	for _, entry := range entries {
		lower := strings.ToLower(entry.Name())
		if !strings.HasSuffix(lower, ".ttf") && !strings.HasSuffix(lower, ".otf") {
			continue
		}
		if strings.Contains(lower, needle) {
			return true
		}
	}
	return false
}
