package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"provision-mac/internal/config"
	"provision-mac/internal/logger"
	"provision-mac/internal/reconcile"
)

// installRuntime installs a language runtime through the version manager,
// sourced into a shell the same way the RC bootstrap fragment does for
// interactive use. The manager itself arrives via a clone item earlier in
// the manifest; if it is not there yet the runtime is a soft skip and the
// next run, probing fresh, will pick it up.
func (e *Executor) installRuntime(rt *config.Runtime) error {
	managerScript := filepath.Join(e.env.Home, ".nvm", "nvm.sh")
	if _, err := os.Stat(managerScript); err != nil {
		return fmt.Errorf("%w: version manager not present at %s", reconcile.ErrSkip, managerScript)
	}

	target := versionTarget(rt.Version)
	shellCmd := fmt.Sprintf(". %s && nvm install %s", managerScript, target)
	logger.Debug("[DEBUG] Running command: /bin/bash -lc %q\n", shellCmd)
	out, err := e.runner.Run("/bin/bash", "-lc", shellCmd)
	if err != nil {
		return fmt.Errorf("install %s %s: %v: %s", rt.Name, target, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// versionTarget strips constraint operators from the manifest version: the
// prober checks "^20" as a semver range, the version manager wants "20".
func versionTarget(constraint string) string {
	return strings.TrimLeft(strings.TrimSpace(constraint), "^~><= ")
}
