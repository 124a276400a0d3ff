package installer

import (
	"fmt"
	"strings"

	"provision-mac/internal/config"
	"provision-mac/internal/logger"
	"provision-mac/internal/reconcile"
)

// masInstall installs a Mac App Store app through the mas CLI. A missing mas
// binary makes the item a soft skip, not a failure: App Store installs also
// depend on the user being signed in, which this tool cannot arrange.
func (e *Executor) masInstall(app *config.StoreApp) error {
	if _, err := e.runner.LookPath("mas"); err != nil {
		return fmt.Errorf("%w: mas CLI is not installed", reconcile.ErrSkip)
	}

	logger.Debug("[DEBUG] Running command: mas install %s\n", app.ID)
	out, err := e.runner.Run("mas", "install", app.ID)
	if err != nil {
		return fmt.Errorf("mas install %s (%s): %v: %s", app.Name, app.ID, err, strings.TrimSpace(string(out)))
	}
	return nil
}
