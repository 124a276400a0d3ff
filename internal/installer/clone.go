package installer

import (
	"errors"
	"fmt"

	git "github.com/go-git/go-git/v5"

	"provision-mac/internal/config"
	"provision-mac/internal/fragment"
	"provision-mac/internal/logger"
)

// cloneRepo installs a repository-shipped tool (the shell framework, the
// runtime version manager) by cloning it to its fixed destination. When the
// manifest names a backup file, a timestamped copy is taken first: these
// installers tend to rewrite the shell RC file, and losing the previous one
// is worse than an extra sibling. The backup is best-effort.
func (e *Executor) cloneRepo(c *config.Clone) error {
	if c.Backup != "" {
		path := e.env.Expand(c.Backup)
		backupPath, err := fragment.Backup(path)
		if err != nil {
			logger.Warn("[WARN] Could not back up %s: %v\n", path, err)
		} else if backupPath != "" {
			logger.Info("[INFO] Backed up %s to %s\n", path, backupPath)
		}
	}

	dest := e.env.Expand(c.Dest)
	logger.Debug("[DEBUG] Cloning %s to %s\n", c.Repo, dest)
	_, err := git.PlainClone(dest, false, &git.CloneOptions{
		URL:          c.Repo,
		Depth:        1,
		SingleBranch: true,
	})
	if errors.Is(err, git.ErrRepositoryAlreadyExists) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("clone %s: %w", c.Repo, err)
	}
	return nil
}
