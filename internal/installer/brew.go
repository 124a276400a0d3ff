package installer

import (
	"fmt"
	"path/filepath"
	"strings"

	"provision-mac/internal/command"
	"provision-mac/internal/environment"
	"provision-mac/internal/logger"
)

// installScriptURL is the official Homebrew bootstrap script.
const installScriptURL = "https://raw.githubusercontent.com/Homebrew/install/HEAD/install.sh"

// EnsureHomebrew makes sure the package manager exists before the pass
// starts. When no prefix was located it runs the official installer and
// re-probes. An error here is a hard precondition failure: without an
// install root the package and cask items cannot mean anything.
func EnsureHomebrew(runner command.Runner, env *environment.Environment) error {
	if env.BrewPrefix != "" {
		logger.Debug("[DEBUG] Homebrew prefix already resolved: %s\n", env.BrewPrefix)
		return nil
	}

	logger.Info("[INFO] Homebrew not found. Running the official installer...\n")
	script := fmt.Sprintf(`NONINTERACTIVE=1 /bin/bash -c "$(curl -fsSL %s)"`, installScriptURL)
	out, err := runner.Run("/bin/bash", "-c", script)
	if err != nil {
		return fmt.Errorf("homebrew install failed: %v\noutput: %s", err, strings.TrimSpace(string(out)))
	}

	prefix := environment.LocateBrewPrefix(nil)
	if prefix == "" {
		return fmt.Errorf("cannot locate Homebrew prefix after install")
	}
	env.BrewPrefix = prefix
	logger.Info("[INFO] Homebrew installed at %s\n", prefix)
	return nil
}

// brewInstall installs one formula or cask. Command output is folded into
// the error so a failed item's detail shows what brew said.
func (e *Executor) brewInstall(token string, cask bool) error {
	args := []string{"install"}
	if cask {
		args = append(args, "--cask")
	}
	args = append(args, token)

	brew := brewBin(e.env)
	logger.Debug("[DEBUG] Running command: %s %s\n", brew, strings.Join(args, " "))
	out, err := e.runner.Run(brew, args...)
	if err != nil {
		return fmt.Errorf("brew install %s: %v: %s", token, err, strings.TrimSpace(string(out)))
	}
	return nil
}

func brewBin(env environment.Environment) string {
	if env.BrewPrefix != "" {
		return filepath.Join(env.BrewPrefix, "bin", "brew")
	}
	return "brew"
}
