package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"provision-mac/internal/command"
	"provision-mac/internal/config"
	"provision-mac/internal/environment"
	"provision-mac/internal/installer"
	"provision-mac/internal/logger"
	"provision-mac/internal/probe"
	"provision-mac/internal/reconcile"
	"provision-mac/internal/report"
)

// manifestPath is the top-level manifest file, set via --manifest/-m.
var manifestPath string

// applyCmd runs the full reconciliation pass over every manifest section.
var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Reconcile the workstation with the manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApply("")
	},
}

// sectionCmd builds an apply subcommand restricted to one manifest section.
func sectionCmd(section, short string) *cobra.Command {
	return &cobra.Command{
		Use:   section,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(section)
		},
	}
}

func init() {
	applyCmd.PersistentFlags().StringVarP(&manifestPath, "manifest", "m", "manifest.yaml", "Path to the manifest file")

	applyCmd.AddCommand(sectionCmd(config.SectionPackages, "Reconcile only Homebrew formulae"))
	applyCmd.AddCommand(sectionCmd(config.SectionApps, "Reconcile only casks and Mac App Store apps"))
	applyCmd.AddCommand(sectionCmd(config.SectionShell, "Reconcile only shell fragments, clones and runtimes"))
	applyCmd.AddCommand(sectionCmd(config.SectionGit, "Reconcile only git configuration"))
	applyCmd.AddCommand(sectionCmd(config.SectionFonts, "Reconcile only fonts"))

	rootCmd.AddCommand(applyCmd)
}

// runApply performs one reconciliation pass, optionally limited to a single
// manifest section. A non-nil return is a hard precondition failure and
// exits 1; per-item failures are recorded in the outcomes and still exit 0.
func runApply(section string) error {
	m, err := config.Load(manifestPath)
	if err != nil {
		return err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}
	overrides, err := config.LoadOverrides(config.DefaultOverridesPath(home))
	if err != nil {
		return err
	}
	if overrides.DefaultEmail != "" {
		m.Git.DefaultEmail = overrides.DefaultEmail
	}

	env, err := environment.Resolve(environment.Options{
		GOOS:          runtime.GOOS,
		Home:          home,
		BrewPrefix:    overrides.BrewPrefix,
		WorkEmail:     overrides.WorkEmail,
		NeedWorkEmail: needsWorkEmail(m, section),
		Stdin:         os.Stdin,
	})
	if err != nil {
		return err
	}

	items := filterSection(m.Items(), section)
	logger.Debug("[DEBUG] Manifest flattened to %d item(s)\n", len(items))

	runner := command.ExecRunner{}
	if hasBrewItems(items) {
		if err := installer.EnsureHomebrew(runner, &env); err != nil {
			return err
		}
	}

	driver := reconcile.NewDriver(probe.New(runner, env), installer.New(runner, env))
	outcomes := driver.Run(items)
	reconcile.Report(outcomes)

	if err := report.Save(report.DefaultPath(env.Home), outcomes); err != nil {
		logger.Warn("[WARN] Could not save run report: %v\n", err)
	}
	return nil
}

func filterSection(items []config.Item, section string) []config.Item {
	if section == "" {
		return items
	}
	var filtered []config.Item
	for _, item := range items {
		if item.Section == section {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// hasBrewItems reports whether the pass contains anything that needs the
// package manager, so Homebrew is bootstrapped only when it will be used.
func hasBrewItems(items []config.Item) bool {
	for _, item := range items {
		if item.Kind == config.KindPackage || item.Kind == config.KindCask {
			return true
		}
	}
	return false
}

// needsWorkEmail reports whether any scoped git identity leaves its email to
// the prompted work email, and the pass includes the git section at all.
func needsWorkEmail(m config.Manifest, section string) bool {
	if section != "" && section != config.SectionGit {
		return false
	}
	for _, id := range m.Git.Identities {
		if id.Email == "" {
			return true
		}
	}
	return false
}
