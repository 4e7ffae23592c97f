package reconcile

import (
	"context"

	"github.com/collectorking/collectorking/pkg/collection"
	"github.com/collectorking/collectorking/pkg/errors"
	"github.com/collectorking/collectorking/pkg/logging"
)

// Refresher runs the refresh path: every stored record gets its price
// re-resolved against the catalog. A record with a known rarity keeps its
// stale price as the fallback of last resort, so an unavailable catalog
// never erases a known price; a record without a rarity re-derives both
// rarity and price from the set-level defaults.
type Refresher struct {
	store   collection.Store
	catalog Catalog
	price   *PriceResolver
	sink    ProgressSink
}

// RefresherOption configures a Refresher.
type RefresherOption func(*Refresher)

// WithRefreshProgressSink sets the sink that receives row outcomes.
func WithRefreshProgressSink(sink ProgressSink) RefresherOption {
	return func(r *Refresher) {
		r.sink = sink
	}
}

// NewRefresher creates a Refresher over a store and catalog.
func NewRefresher(store collection.Store, catalog Catalog, opts ...RefresherOption) *Refresher {
	r := &Refresher{
		store:   store,
		catalog: catalog,
		price:   NewPriceResolver(catalog),
		sink:    NopSink{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run refreshes all stored records and returns the per-record summary.
// Cancellation between records stops the scan with a partial summary.
func (r *Refresher) Run(ctx context.Context) *Summary {
	summary := &Summary{RunID: newRunID()}
	ctx = logging.WithRunID(ctx, summary.RunID)
	logger := logging.Ctx(ctx)

	records := r.store.List()
	logger.Info().Int("records", len(records)).Msg("Starting refresh")

	for _, rec := range records {
		if ctx.Err() != nil {
			summary.Canceled = true
			break
		}

		outcome, err := r.refreshRecord(ctx, rec)
		if err != nil {
			summary.Canceled = true
			break
		}

		summary.Outcomes = append(summary.Outcomes, outcome)
		if outcome.Status == StatusSkipped {
			summary.Skipped++
		} else {
			summary.Succeeded++
		}
		r.sink.RowDone(outcome)
	}

	logger.Info().
		Int("refreshed", summary.Succeeded).
		Int("skipped", summary.Skipped).
		Bool("canceled", summary.Canceled).
		Msg("Refresh finished")
	return summary
}

// refreshRecord re-resolves one record's price. The returned error is
// reserved for cancellation; everything else becomes a skipped outcome.
func (r *Refresher) refreshRecord(ctx context.Context, rec collection.Record) (RowOutcome, error) {
	ctx = logging.WithSetCode(ctx, rec.SetCode)

	if rec.Rarity != "" {
		stale := rec.Price
		quote, err := r.price.Resolve(ctx, rec.SetCode, rec.Rarity, &stale)
		if err != nil {
			return RowOutcome{}, err
		}
		if err := r.store.UpdatePrice(rec.Key(), quote.Amount, ""); err != nil {
			return skipped(rec.SetCode, rec.Rarity, err), nil
		}
		logging.Ctx(ctx).Debug().
			Float64("price", quote.Amount).
			Str("provenance", string(quote.Provenance)).
			Msg("Price refreshed")
		return RowOutcome{SetCode: rec.SetCode, Rarity: rec.Rarity, Status: StatusRefreshed}, nil
	}

	// No stored rarity: re-derive rarity and price from the set-level
	// defaults.
	meta, err := r.catalog.SetInfo(ctx, rec.SetCode)
	if err != nil {
		if errors.IsCanceled(err) {
			return RowOutcome{}, err
		}
		return skipped(rec.SetCode, "", err), nil
	}

	amount := rec.Price
	if meta.Price != nil && *meta.Price >= 0 {
		amount = *meta.Price
	}
	if err := r.store.UpdatePrice(rec.Key(), amount, meta.Rarity); err != nil {
		return skipped(rec.SetCode, meta.Rarity, err), nil
	}
	return RowOutcome{SetCode: rec.SetCode, Rarity: meta.Rarity, Status: StatusRefreshed}, nil
}
