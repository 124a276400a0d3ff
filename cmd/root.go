package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"provision-mac/internal/logger"
)

// debug toggles debug logging via the global --debug flag.
var debug bool

var rootCmd = &cobra.Command{
	Use:   "provision-mac",
	Short: "Declarative macOS workstation provisioner",
	Long: "provision-mac reconciles a macOS development workstation with a declarative\n" +
		"manifest: Homebrew packages and casks, Mac App Store apps, shell configuration\n" +
		"fragments, git identities, runtimes and fonts. Each run probes current state\n" +
		"fresh and applies only what is missing.",
	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A local .env may carry PROVISION_WORK_EMAIL and similar values.
		_ = godotenv.Load()
		logger.Init(debug)
	},
}

// Execute runs the CLI. Per-item failures never reach here: the process
// exits non-zero only for hard preconditions (wrong OS, missing install
// root, unreadable manifest).
func Execute() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		logger.Error("[ERROR] %v\n", err)
		os.Exit(1)
	}
}
