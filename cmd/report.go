package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"provision-mac/internal/logger"
	"provision-mac/internal/reconcile"
	"provision-mac/internal/report"
)

// reportCmd prints the outcome of the most recent apply.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the outcome of the last run",
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home directory: %w", err)
		}
		rep, err := report.Load(report.DefaultPath(home))
		if err != nil {
			return err
		}

		logger.Summary("Last run: %s\n", rep.Timestamp.Format(time.RFC1123))
		logger.Summary("%d already satisfied, %d installed, %d failed, %d skipped\n\n",
			rep.Summary.Satisfied, rep.Summary.Installed, rep.Summary.Failed, rep.Summary.Skipped)

		for _, o := range rep.Outcomes {
			line := fmt.Sprintf("%-20s %-30s %s", o.Kind, o.DisplayName, o.Status)
			if o.Detail != "" {
				line += " (" + o.Detail + ")"
			}
			switch o.Status {
			case reconcile.Failed:
				logger.Error("%s\n", line)
			case reconcile.Skipped:
				logger.Warn("%s\n", line)
			default:
				logger.Info("%s\n", line)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
