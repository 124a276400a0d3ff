// Package report persists the outcome of the last run as JSON. The report
// is write-only output for humans and the `report` subcommand; reconciliation
// never reads it, since idempotence comes from fresh probes, not a ledger.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"provision-mac/internal/logger"
	"provision-mac/internal/reconcile"
)

// RunReport is one run's summary plus its ordered per-item outcomes.
type RunReport struct {
	Timestamp time.Time           `json:"timestamp"`
	Summary   reconcile.Summary   `json:"summary"`
	Outcomes  []reconcile.Outcome `json:"outcomes"`
}

// DefaultPath is where apply writes the report: next to the overrides file
// under ~/.config/provision-mac.
func DefaultPath(home string) string {
	return filepath.Join(home, ".config", "provision-mac", "last-run.json")
}

// Save writes the run report as indented JSON. Failure to save is a warning
// for the caller, never a reason to fail a run that already happened.
func Save(path string, outcomes []reconcile.Outcome) error {
	rep := RunReport{
		Timestamp: time.Now(),
		Summary:   reconcile.Summarize(outcomes),
		Outcomes:  outcomes,
	}

	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	logger.Debug("[DEBUG] Writing run report to %s\n", path)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write run report %s: %w", path, err)
	}
	return nil
}

// Load reads a previously saved run report.
func Load(path string) (*RunReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read run report %s: %w", path, err)
	}
	var rep RunReport
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("parse run report %s: %w", path, err)
	}
	return &rep, nil
}
