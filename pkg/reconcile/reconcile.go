// Package reconcile contains the pipeline that turns raw import rows into
// stored collection records and keeps stored records current: rarity
// resolution with an optional human decision point, price resolution with a
// fallback hierarchy, and the batch orchestrators for import and refresh.
package reconcile

import (
	"context"

	"github.com/google/uuid"

	"github.com/collectorking/collectorking/internal/ygoprodeck"
)

// newRunID returns a short identifier carried in every log line of one
// batch. Eight hex characters are plenty to tell runs apart in a log.
func newRunID() string {
	return uuid.NewString()[:8]
}

// Catalog is the single point of contact with the external card catalog.
// *ygoprodeck.Client satisfies it.
type Catalog interface {
	SetInfo(ctx context.Context, setCode string) (*ygoprodeck.SetMeta, error)
	Rarities(ctx context.Context, setCode string) ([]string, error)
	Price(ctx context.Context, setCode, rarityName string) (float64, error)
	ImageRefs(ctx context.Context, cardID int64) ([]string, error)
}

// ImageFetcher caches remote images locally. *images.Cache satisfies it.
type ImageFetcher interface {
	Fetch(ctx context.Context, setCode string, refs []string) ([]string, error)
}

// Chooser resolves an ambiguous rarity: given the candidate names for a set
// code it returns exactly one of them, or an error to signal cancellation.
// It is supplied by the presentation layer and may block on a human for an
// unbounded time.
type Chooser interface {
	Choose(ctx context.Context, setCode string, candidates []string) (string, error)
}

// ChooserFunc adapts a plain function to the Chooser interface.
type ChooserFunc func(ctx context.Context, setCode string, candidates []string) (string, error)

// Choose implements Chooser.
func (f ChooserFunc) Choose(ctx context.Context, setCode string, candidates []string) (string, error) {
	return f(ctx, setCode, candidates)
}

// Row is one parsed input line awaiting reconciliation.
type Row struct {
	SetCode  string
	Rarity   string
	Quantity int
}

// Status classifies the outcome of one row.
type Status string

const (
	// StatusImported means the row produced a stored record.
	StatusImported Status = "imported"

	// StatusRefreshed means a stored record's price was re-resolved.
	StatusRefreshed Status = "refreshed"

	// StatusSkipped means the row failed in a row-scoped way and was
	// passed over; Reason says why.
	StatusSkipped Status = "skipped"
)

// RowOutcome is the per-row result reported to the progress sink and
// collected into the batch summary.
type RowOutcome struct {
	SetCode string
	Rarity  string
	Status  Status
	Reason  string
}

// Summary is the result of one batch operation. Batches always conclude
// with per-row outcomes, never a bare pass/fail.
type Summary struct {
	RunID     string
	Succeeded int
	Skipped   int
	Canceled  bool
	Outcomes  []RowOutcome
}

// ProgressSink receives row outcomes as they happen, for live reporting.
type ProgressSink interface {
	RowDone(outcome RowOutcome)
}

// NopSink discards all progress events.
type NopSink struct{}

// RowDone implements ProgressSink.
func (NopSink) RowDone(RowOutcome) {}
