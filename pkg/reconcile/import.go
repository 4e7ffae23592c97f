package reconcile

import (
	"context"

	"github.com/collectorking/collectorking/pkg/collection"
	"github.com/collectorking/collectorking/pkg/errors"
	"github.com/collectorking/collectorking/pkg/logging"
)

// Importer runs the import path: each row is resolved against the catalog
// and upserted into the store. Failures are row-scoped; one bad row never
// aborts the batch, only cancellation does, and even then a partial summary
// is returned.
type Importer struct {
	store   collection.Store
	catalog Catalog
	rarity  *RarityResolver
	price   *PriceResolver
	images  ImageFetcher
	sink    ProgressSink
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithChooser sets the disambiguation callback for ambiguous rarities.
func WithChooser(chooser Chooser) ImporterOption {
	return func(i *Importer) {
		i.rarity = NewRarityResolver(i.catalog, chooser)
	}
}

// WithImages enables image caching during import.
func WithImages(fetcher ImageFetcher) ImporterOption {
	return func(i *Importer) {
		i.images = fetcher
	}
}

// WithProgressSink sets the sink that receives row outcomes as they happen.
func WithProgressSink(sink ProgressSink) ImporterOption {
	return func(i *Importer) {
		i.sink = sink
	}
}

// NewImporter creates an Importer over a store and catalog.
func NewImporter(store collection.Store, catalog Catalog, opts ...ImporterOption) *Importer {
	i := &Importer{
		store:   store,
		catalog: catalog,
		rarity:  NewRarityResolver(catalog, nil),
		price:   NewPriceResolver(catalog),
		sink:    NopSink{},
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Run imports a batch of rows and returns the per-row summary. Cancellation
// between rows stops the batch; rows already processed stay in the summary.
func (i *Importer) Run(ctx context.Context, rows []Row) *Summary {
	summary := &Summary{RunID: newRunID()}
	ctx = logging.WithRunID(ctx, summary.RunID)
	logger := logging.Ctx(ctx)

	logger.Info().Int("rows", len(rows)).Msg("Starting import")

	for _, row := range rows {
		if ctx.Err() != nil {
			summary.Canceled = true
			break
		}

		outcome, err := i.importRow(ctx, row)
		if err != nil {
			// Only cancellation escapes importRow.
			summary.Canceled = true
			break
		}

		i.record(summary, outcome)
	}

	logger.Info().
		Int("imported", summary.Succeeded).
		Int("skipped", summary.Skipped).
		Bool("canceled", summary.Canceled).
		Msg("Import finished")
	return summary
}

// importRow reconciles one row. Row-scoped failures come back as a skipped
// outcome; the returned error is reserved for cancellation.
func (i *Importer) importRow(ctx context.Context, row Row) (RowOutcome, error) {
	ctx = logging.WithSetCode(ctx, row.SetCode)
	logger := logging.Ctx(ctx)

	resolution, err := i.rarity.Resolve(ctx, row.SetCode, row.Rarity)
	if err != nil {
		if errors.IsCanceled(err) {
			return RowOutcome{}, err
		}
		return skipped(row.SetCode, "", err), nil
	}
	logger.Debug().
		Str("rarity", resolution.Rarity).
		Stringer("confidence", resolution.Confidence).
		Msg("Rarity resolved")

	meta, err := i.catalog.SetInfo(ctx, row.SetCode)
	if err != nil {
		if errors.IsCanceled(err) {
			return RowOutcome{}, err
		}
		return skipped(row.SetCode, resolution.Rarity, err), nil
	}

	quote, err := i.price.Resolve(ctx, row.SetCode, resolution.Rarity, meta.Price)
	if err != nil {
		return RowOutcome{}, err
	}
	if quote.Provenance == ProvenanceUnavailable {
		logger.Warn().Msg("No price available, storing without one")
	}

	imagePaths, err := i.fetchImages(ctx, row.SetCode, meta.ID)
	if err != nil {
		return RowOutcome{}, err
	}

	record := collection.Record{
		SetCode:    row.SetCode,
		Rarity:     resolution.Rarity,
		Name:       meta.Name,
		SetName:    meta.SetName,
		Price:      quote.Amount,
		Quantity:   row.Quantity,
		ImagePaths: imagePaths,
	}
	if meta.ID != 0 {
		id := meta.ID
		record.ExternalID = &id
	}

	if err := i.store.Upsert(record); err != nil {
		return skipped(row.SetCode, resolution.Rarity, err), nil
	}

	logger.Info().
		Str("rarity", resolution.Rarity).
		Float64("price", quote.Amount).
		Str("provenance", string(quote.Provenance)).
		Msg("Row imported")
	outcome := RowOutcome{SetCode: row.SetCode, Rarity: resolution.Rarity, Status: StatusImported}
	if quote.Provenance == ProvenanceUnavailable {
		outcome.Reason = "price unavailable"
	}
	return outcome, nil
}

// fetchImages is best effort: a missing image reference or failed download
// only costs the row its artwork.
func (i *Importer) fetchImages(ctx context.Context, setCode string, cardID int64) ([]string, error) {
	if i.images == nil || cardID == 0 {
		return nil, nil
	}

	refs, err := i.catalog.ImageRefs(ctx, cardID)
	if err != nil {
		if errors.IsCanceled(err) {
			return nil, err
		}
		logging.Ctx(ctx).Warn().Err(err).Msg("Image reference lookup failed, skipping artwork")
		return nil, nil
	}

	paths, err := i.images.Fetch(ctx, setCode, refs)
	if err != nil {
		if errors.IsCanceled(err) {
			return nil, err
		}
		logging.Ctx(ctx).Warn().Err(err).Msg("Image caching failed, skipping artwork")
		return nil, nil
	}
	return paths, nil
}

func (i *Importer) record(summary *Summary, outcome RowOutcome) {
	summary.Outcomes = append(summary.Outcomes, outcome)
	if outcome.Status == StatusSkipped {
		summary.Skipped++
	} else {
		summary.Succeeded++
	}
	i.sink.RowDone(outcome)
}

func skipped(setCode, rarityName string, err error) RowOutcome {
	return RowOutcome{
		SetCode: setCode,
		Rarity:  rarityName,
		Status:  StatusSkipped,
		Reason:  reasonFor(err),
	}
}

// reasonFor maps the error taxonomy to the short reasons shown in batch
// summaries. Not-found and unavailable are deliberately distinct.
func reasonFor(err error) string {
	switch {
	case errors.IsRarityUnresolvable(err):
		return "rarity unresolvable"
	case errors.IsNotFound(err):
		return "not found in catalog"
	case errors.IsUnavailable(err):
		return "catalog unavailable"
	default:
		return err.Error()
	}
}
