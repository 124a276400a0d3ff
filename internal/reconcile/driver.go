// Package reconcile drives the declarative pass: probe each manifest item,
// apply the missing ones, and record a per-item outcome. One item's failure
// never blocks the items after it.
package reconcile

import (
	"errors"
	"strings"

	"provision-mac/internal/config"
	"provision-mac/internal/logger"
)

// ErrSkip marks an apply error as a soft skip rather than a failure. The
// executor wraps it when an item is inapplicable on this host, e.g. the mas
// CLI is absent or no work email was provided.
var ErrSkip = errors.New("item skipped")

// Prober tests whether an item already satisfies its desired state. A false
// result with a non-nil error means the current state could not be read
// cleanly; the driver surfaces that as a warning and still lets the executor
// try, so the real problem is recorded against the item.
type Prober interface {
	Probe(item config.Item) (bool, error)
}

// Applier performs the external action that satisfies an item.
type Applier interface {
	Apply(item config.Item) error
}

// Driver walks items in declared manifest order. It is single-threaded,
// not re-entrant within a run, and holds no state across runs: idempotence
// comes purely from probing fresh every time.
type Driver struct {
	prober  Prober
	applier Applier
}

func NewDriver(p Prober, a Applier) *Driver {
	return &Driver{prober: p, applier: a}
}

// Run performs one full pass and returns the outcomes in item order.
func (d *Driver) Run(items []config.Item) []Outcome {
	outcomes := make([]Outcome, 0, len(items))

	for _, item := range items {
		outcome := Outcome{
			Kind:        item.Kind,
			Identifier:  item.Identifier,
			DisplayName: item.DisplayName,
		}

		satisfied, err := d.prober.Probe(item)
		if err != nil {
			logger.Warn("[WARN] Probe for %s reported: %v\n", item.DisplayName, err)
		}

		if satisfied {
			outcome.Status = AlreadySatisfied
			logger.Info("[INFO] %s already satisfied. Skipping.\n", item.DisplayName)
			outcomes = append(outcomes, outcome)
			continue
		}

		logger.Debug("[DEBUG] Applying %s (%s %s)\n", item.DisplayName, item.Kind, item.Identifier)
		switch err := d.applier.Apply(item); {
		case err == nil:
			outcome.Status = Installed
			logger.Info("[INFO] Applied %s\n", item.DisplayName)
		case errors.Is(err, ErrSkip):
			outcome.Status = Skipped
			outcome.Detail = skipDetail(err)
			logger.Warn("[WARN] Skipped %s: %s\n", item.DisplayName, outcome.Detail)
		default:
			outcome.Status = Failed
			outcome.Detail = err.Error()
			logger.Error("[ERROR] Failed to apply %s: %v\n", item.DisplayName, err)
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes
}

// Report prints the end-of-run summary and returns it.
func Report(outcomes []Outcome) Summary {
	s := Summarize(outcomes)
	logger.Summary("\nRun complete: %d already satisfied, %d installed, %d failed, %d skipped\n",
		s.Satisfied, s.Installed, s.Failed, s.Skipped)
	if len(s.FailedItems) > 0 {
		logger.Error("Failed items: %s\n", strings.Join(s.FailedItems, ", "))
	}
	if len(s.SkippedItems) > 0 {
		logger.Warn("Skipped items: %s\n", strings.Join(s.SkippedItems, ", "))
	}
	return s
}

// skipDetail strips the ErrSkip prefix so the outcome carries only the
// human-readable reason.
func skipDetail(err error) string {
	detail := err.Error()
	prefix := ErrSkip.Error() + ": "
	if strings.HasPrefix(detail, prefix) {
		return detail[len(prefix):]
	}
	return detail
}
