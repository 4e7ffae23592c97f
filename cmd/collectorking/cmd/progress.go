package cmd

import (
	"fmt"
	"io"

	"github.com/collectorking/collectorking/pkg/reconcile"
)

// printSink reports row outcomes as they happen, one line per row.
type printSink struct {
	out io.Writer
}

// RowDone implements reconcile.ProgressSink.
func (s *printSink) RowDone(outcome reconcile.RowOutcome) {
	switch outcome.Status {
	case reconcile.StatusSkipped:
		fmt.Fprintf(s.out, "  skip  %s: %s\n", outcome.SetCode, outcome.Reason)
	default:
		line := "  ok    " + outcome.SetCode
		if outcome.Rarity != "" {
			line += " (" + outcome.Rarity + ")"
		}
		if outcome.Reason != "" {
			line += " [" + outcome.Reason + "]"
		}
		fmt.Fprintln(s.out, line)
	}
}

// printSummary writes the batch totals after a run.
func printSummary(out io.Writer, verb string, summary *reconcile.Summary) {
	fmt.Fprintf(out, "\n%d %s, %d skipped\n", summary.Succeeded, verb, summary.Skipped)
	if summary.Canceled {
		fmt.Fprintln(out, "Batch canceled, partial results kept")
	}
}
