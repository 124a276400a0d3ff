package reconcile

import (
	"provision-mac/internal/config"
)

// Status is the final, immutable state of one manifest item for one run.
// Items have no transitions, only this terminal status.
type Status string

const (
	// AlreadySatisfied: the probe found the desired state already holds.
	AlreadySatisfied Status = "already-satisfied"
	// Installed: the executor applied the change successfully.
	Installed Status = "installed"
	// Failed: the executor attempted the change and it did not take.
	Failed Status = "failed"
	// Skipped: a soft condition made the item inapplicable (a helper tool
	// absent, a prompt left blank). Not a failure.
	Skipped Status = "skipped"
)

// Outcome records what happened to one item. Created once per item per run,
// never mutated, collected in manifest order.
type Outcome struct {
	Kind        config.Kind `json:"kind"`
	Identifier  string      `json:"identifier"`
	DisplayName string      `json:"display_name"`
	Status      Status      `json:"status"`
	Detail      string      `json:"detail,omitempty"`
}

// Summary aggregates one run's outcomes for the end-of-run report.
type Summary struct {
	Satisfied    int      `json:"satisfied"`
	Installed    int      `json:"installed"`
	Failed       int      `json:"failed"`
	Skipped      int      `json:"skipped"`
	FailedItems  []string `json:"failed_items,omitempty"`
	SkippedItems []string `json:"skipped_items,omitempty"`
}

// Summarize tallies outcomes, keeping failed and skipped identifiers visible.
func Summarize(outcomes []Outcome) Summary {
	var s Summary
	for _, o := range outcomes {
		switch o.Status {
		case AlreadySatisfied:
			s.Satisfied++
		case Installed:
			s.Installed++
		case Failed:
			s.Failed++
			s.FailedItems = append(s.FailedItems, o.Identifier)
		case Skipped:
			s.Skipped++
			s.SkippedItems = append(s.SkippedItems, o.Identifier)
		}
	}
	return s
}
