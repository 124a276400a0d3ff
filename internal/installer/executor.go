// Package installer is the action executor: it invokes the external
// installers and mutators that bring an unsatisfied manifest item into its
// desired state. Failures are returned per item and never abort the run.
package installer

import (
	"fmt"
	"path/filepath"

	"github.com/google/go-github/v75/github"

	"provision-mac/internal/command"
	"provision-mac/internal/config"
	"provision-mac/internal/environment"
	"provision-mac/internal/fragment"
	"provision-mac/internal/gitcfg"
	"provision-mac/internal/logger"
	"provision-mac/internal/reconcile"
)

// Executor applies manifest items. GitGlobalConfig and FontsDir default to
// the conventional locations under the resolved home directory and are
// exported so tests can point them at temp paths.
type Executor struct {
	runner command.Runner
	env    environment.Environment
	github *github.Client

	GitGlobalConfig string
	FontsDir        string
}

func New(runner command.Runner, env environment.Environment) *Executor {
	return &Executor{
		runner:          runner,
		env:             env,
		github:          github.NewClient(nil),
		GitGlobalConfig: filepath.Join(env.Home, ".gitconfig"),
		FontsDir:        filepath.Join(env.Home, "Library", "Fonts"),
	}
}

// Apply performs the external action for one item. An error wrapping
// reconcile.ErrSkip marks the item inapplicable on this host; any other
// error classifies it as failed.
func (e *Executor) Apply(item config.Item) error {
	switch item.Kind {
	case config.KindPackage:
		return e.brewInstall(item.Identifier, false)
	case config.KindCask:
		return e.brewInstall(item.Identifier, true)
	case config.KindStoreApp:
		return e.masInstall(item.StoreApp)
	case config.KindClone:
		return e.cloneRepo(item.Clone)
	case config.KindRuntime:
		return e.installRuntime(item.Runtime)
	case config.KindFragment:
		return e.applyFragment(item.Fragment)
	case config.KindGitIdentity:
		return e.writeIdentity(item.GitIdentity)
	case config.KindGitDefault:
		return e.setDefaultEmail(item.GitIdentity.Email)
	case config.KindFont:
		return e.installFont(item.Font)
	default:
		return fmt.Errorf("unknown item kind %q", item.Kind)
	}
}

func (e *Executor) applyFragment(f *config.Fragment) error {
	target := e.env.Expand(f.TargetFile)
	result, err := fragment.Ensure(target, f.Marker, f.Content)
	if err != nil {
		return err
	}
	if result == fragment.AlreadyPresent {
		// The probe normally catches this; it can still happen when the
		// marker landed in the file earlier in the same run.
		logger.Debug("[DEBUG] Fragment %s already present in %s\n", f.Name, target)
	}
	return nil
}

func (e *Executor) writeIdentity(id *config.GitIdentity) error {
	email := id.Email
	if email == "" {
		email = e.env.WorkEmail
	}
	if email == "" {
		return fmt.Errorf("%w: no work email provided for %s", reconcile.ErrSkip, id.Dir)
	}
	return gitcfg.WriteIdentity(e.env.Expand(id.Dir), email)
}

// setDefaultEmail writes the global default only when user.email is unset;
// an existing value always wins over the manifest.
func (e *Executor) setDefaultEmail(email string) error {
	if gitcfg.DefaultEmailSet(e.GitGlobalConfig) {
		return nil
	}
	return gitcfg.SetDefaultEmail(e.GitGlobalConfig, email)
}
