// Package collectorking reconciles a card collection against the YGOPRODeck
// catalog: delimited imports with flexible headers, rarity and price
// resolution, cached artwork, and a YAML-backed collection store.
package collectorking

import (
	"context"
	"fmt"
	"io"

	"github.com/collectorking/collectorking/internal/csvio"
	"github.com/collectorking/collectorking/internal/images"
	"github.com/collectorking/collectorking/internal/ygoprodeck"
	"github.com/collectorking/collectorking/pkg/collection"
	"github.com/collectorking/collectorking/pkg/reconcile"
)

// Library is the top-level entry point: one collection, one catalog, and
// the batch operations over them.
type Library interface {
	// Import reconciles delimited input rows into the collection and
	// returns the per-row batch summary.
	Import(ctx context.Context, input io.Reader) (*reconcile.Summary, error)

	// Refresh re-resolves the price of every stored record.
	Refresh(ctx context.Context) (*reconcile.Summary, error)

	// Export writes the collection in the fixed export layout.
	Export(w io.Writer) error

	// Records returns all stored records in insertion order.
	Records() []collection.Record

	// Record returns one stored record by its natural key.
	Record(setCode, rarityName string) (collection.Record, error)

	// SetQuantity changes the quantity of a stored record.
	SetQuantity(setCode, rarityName string, quantity int) error

	// TotalValue returns the sum of price times quantity over the
	// collection.
	TotalValue() float64
}

// library is the internal implementation of the Library interface.
type library struct {
	config  *config
	store   collection.Store
	catalog reconcile.Catalog
	images  reconcile.ImageFetcher
}

// New creates a Library with the given options. Without options it stores
// the collection in collection.yaml next to the working directory, caches
// artwork under images/, and talks to the public YGOPRODeck API.
func New(opts ...Option) (Library, error) {
	l := &library{config: defaultConfig()}

	for _, opt := range opts {
		if err := opt(l.config); err != nil {
			return nil, fmt.Errorf("applying options: %w", err)
		}
	}

	if l.config.store != nil {
		l.store = l.config.store
	} else {
		store, err := collection.NewFileStore(l.config.collectionPath,
			collection.WithQuantityPolicy(l.config.quantityPolicy))
		if err != nil {
			return nil, fmt.Errorf("opening collection: %w", err)
		}
		l.store = store
	}

	if l.config.catalog != nil {
		l.catalog = l.config.catalog
	} else {
		l.catalog = ygoprodeck.New()
	}

	if l.config.images != nil {
		l.images = l.config.images
	} else if l.config.imagesDir != "" {
		l.images = images.New(l.config.imagesDir)
	}

	return l, nil
}

// Import implements Library.
func (l *library) Import(ctx context.Context, input io.Reader) (*reconcile.Summary, error) {
	parsed, err := csvio.ReadRows(input)
	if err != nil {
		return nil, err
	}

	rows := make([]reconcile.Row, len(parsed))
	for i, row := range parsed {
		rows[i] = reconcile.Row{SetCode: row.Code, Rarity: row.Rarity, Quantity: row.Quantity}
	}

	opts := []reconcile.ImporterOption{
		reconcile.WithProgressSink(l.config.sink),
	}
	if l.config.chooser != nil {
		opts = append(opts, reconcile.WithChooser(l.config.chooser))
	}
	if l.images != nil {
		opts = append(opts, reconcile.WithImages(l.images))
	}

	importer := reconcile.NewImporter(l.store, l.catalog, opts...)
	return importer.Run(ctx, rows), nil
}

// Refresh implements Library.
func (l *library) Refresh(ctx context.Context) (*reconcile.Summary, error) {
	refresher := reconcile.NewRefresher(l.store, l.catalog,
		reconcile.WithRefreshProgressSink(l.config.sink))
	return refresher.Run(ctx), nil
}

// Export implements Library.
func (l *library) Export(w io.Writer) error {
	return csvio.WriteRecords(w, l.store.List())
}

// Records implements Library.
func (l *library) Records() []collection.Record {
	return l.store.List()
}

// Record implements Library.
func (l *library) Record(setCode, rarityName string) (collection.Record, error) {
	return l.store.Record(collection.Key{SetCode: setCode, Rarity: rarityName})
}

// SetQuantity implements Library.
func (l *library) SetQuantity(setCode, rarityName string, quantity int) error {
	return l.store.SetQuantity(collection.Key{SetCode: setCode, Rarity: rarityName}, quantity)
}

// TotalValue implements Library.
func (l *library) TotalValue() float64 {
	return l.store.TotalValue()
}
