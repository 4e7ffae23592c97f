package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collectorking/collectorking/internal/ygoprodeck"
	"github.com/collectorking/collectorking/pkg/collection"
)

func TestImporterEndToEnd(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.sets["SOI-EN001"] = &ygoprodeck.SetMeta{
		ID: 44508094, Name: "Stardust Dragon", SetName: "Shadow of Infinity",
		Rarity: "Ultimate Rare", Price: floatPtr(8.00),
	}
	catalog.sets["MFC-105"] = &ygoprodeck.SetMeta{
		ID: 10000, Name: "Dark Magician Girl", SetName: "Magician's Force",
		Rarity: "Ultra Rare", Price: floatPtr(30.00),
	}
	catalog.sets["LOB-001"] = &ygoprodeck.SetMeta{
		ID: 89631139, Name: "Blue-Eyes White Dragon", SetName: "Legend of Blue Eyes",
		Rarity: "Ultra Rare", Price: floatPtr(25.00),
	}
	catalog.rarities["LOB-001"] = []string{"Ultra Rare"}
	catalog.prices[priceKey("SOI-EN001", "Ultimate Rare")] = 12.50

	store := collection.NewMemoryStore()
	sink := &collectSink{}
	importer := NewImporter(store, catalog, WithProgressSink(sink))

	summary := importer.Run(context.Background(), []Row{
		{SetCode: "SOI-EN001", Rarity: "Ultimate Rare", Quantity: 1},
		{SetCode: "MFC-105", Rarity: "QCSE", Quantity: 2},
		{SetCode: "LOB-001", Rarity: "", Quantity: 3},
	})

	assert.Equal(t, 3, summary.Succeeded)
	assert.Equal(t, 0, summary.Skipped)
	assert.False(t, summary.Canceled)
	assert.NotEmpty(t, summary.RunID)
	assert.Len(t, sink.outcomes, 3)

	records := store.List()
	require.Len(t, records, 3)
	assert.Equal(t, "Ultimate Rare", records[0].Rarity)
	assert.Equal(t, "Quarter Century Secret Rare", records[1].Rarity)
	assert.Equal(t, "Ultra Rare", records[2].Rarity)

	// SOI-EN001 had an exact printing price, the others fall back to the
	// set default.
	assert.Equal(t, 12.50, records[0].Price)
	assert.Equal(t, 30.00, records[1].Price)
	assert.Equal(t, 25.00, records[2].Price)

	assert.Equal(t, 1, records[0].Quantity)
	assert.Equal(t, 2, records[1].Quantity)
	assert.Equal(t, 3, records[2].Quantity)

	require.NotNil(t, records[2].ExternalID)
	assert.Equal(t, int64(89631139), *records[2].ExternalID)

	// Explicit rarities never trigger a rarity lookup.
	assert.Equal(t, 1, catalog.raritiesCalls)
}

func TestImporterRowScopedFailures(t *testing.T) {
	t.Run("unknown code skipped as not found", func(t *testing.T) {
		catalog := newFakeCatalog()
		catalog.sets["SOI-EN001"] = &ygoprodeck.SetMeta{ID: 1, Name: "A", SetName: "S", Price: floatPtr(1)}

		store := collection.NewMemoryStore()
		importer := NewImporter(store, catalog)

		summary := importer.Run(context.Background(), []Row{
			{SetCode: "XXXX-000", Rarity: "Common", Quantity: 1},
			{SetCode: "SOI-EN001", Rarity: "Rare", Quantity: 1},
		})

		assert.Equal(t, 1, summary.Succeeded)
		assert.Equal(t, 1, summary.Skipped)
		require.Len(t, summary.Outcomes, 2)
		assert.Equal(t, StatusSkipped, summary.Outcomes[0].Status)
		assert.Equal(t, "not found in catalog", summary.Outcomes[0].Reason)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("unavailable catalog distinct from not found", func(t *testing.T) {
		catalog := newFakeCatalog()
		catalog.unavailable["SOI-EN001"] = true

		importer := NewImporter(collection.NewMemoryStore(), catalog)
		summary := importer.Run(context.Background(), []Row{
			{SetCode: "SOI-EN001", Rarity: "Rare", Quantity: 1},
		})

		require.Len(t, summary.Outcomes, 1)
		assert.Equal(t, "catalog unavailable", summary.Outcomes[0].Reason)
	})

	t.Run("unresolvable rarity skipped", func(t *testing.T) {
		catalog := newFakeCatalog()
		catalog.rarities["SOI-EN001"] = []string{}
		catalog.sets["SOI-EN001"] = &ygoprodeck.SetMeta{ID: 1, Name: "A", SetName: "S"}

		importer := NewImporter(collection.NewMemoryStore(), catalog)
		summary := importer.Run(context.Background(), []Row{
			{SetCode: "SOI-EN001", Rarity: "", Quantity: 1},
		})

		require.Len(t, summary.Outcomes, 1)
		assert.Equal(t, "rarity unresolvable", summary.Outcomes[0].Reason)
	})

	t.Run("missing price stores record without one", func(t *testing.T) {
		catalog := newFakeCatalog()
		catalog.sets["SOI-EN001"] = &ygoprodeck.SetMeta{ID: 1, Name: "A", SetName: "S"}

		store := collection.NewMemoryStore()
		importer := NewImporter(store, catalog)
		summary := importer.Run(context.Background(), []Row{
			{SetCode: "SOI-EN001", Rarity: "Rare", Quantity: 1},
		})

		assert.Equal(t, 1, summary.Succeeded)
		require.Len(t, summary.Outcomes, 1)
		assert.Equal(t, StatusImported, summary.Outcomes[0].Status)
		assert.Equal(t, "price unavailable", summary.Outcomes[0].Reason)
		records := store.List()
		require.Len(t, records, 1)
		assert.Equal(t, 0.0, records[0].Price)
	})
}

func TestImporterReimportSameKey(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.sets["SOI-EN001"] = &ygoprodeck.SetMeta{ID: 1, Name: "A", SetName: "S", Price: floatPtr(2)}

	store := collection.NewMemoryStore()
	importer := NewImporter(store, catalog)

	rows := []Row{{SetCode: "SOI-EN001", Rarity: "Rare", Quantity: 2}}
	importer.Run(context.Background(), rows)
	rows[0].Quantity = 5
	importer.Run(context.Background(), rows)

	// Same key never duplicates; default policy replaces quantity.
	require.Equal(t, 1, store.Len())
	records := store.List()
	assert.Equal(t, 5, records[0].Quantity)
}

func TestImporterImages(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.sets["SOI-EN001"] = &ygoprodeck.SetMeta{ID: 44508094, Name: "A", SetName: "S", Price: floatPtr(1)}
	catalog.images[44508094] = []string{"https://img.example/a.jpg", "https://img.example/b.jpg"}

	store := collection.NewMemoryStore()
	fetcher := newFakeFetcher()
	importer := NewImporter(store, catalog, WithImages(fetcher))

	summary := importer.Run(context.Background(), []Row{
		{SetCode: "SOI-EN001", Rarity: "Rare", Quantity: 1},
	})

	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, catalog.images[44508094], fetcher.calls["SOI-EN001"])

	records := store.List()
	require.Len(t, records, 1)
	assert.Equal(t, []string{"images/SOI-EN001_1.jpg", "images/SOI-EN001_2.jpg"}, records[0].ImagePaths)
}

func TestImporterCancellation(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.sets["SOI-EN001"] = &ygoprodeck.SetMeta{ID: 1, Name: "A", SetName: "S", Price: floatPtr(1)}
	catalog.sets["MFC-105"] = &ygoprodeck.SetMeta{ID: 2, Name: "B", SetName: "S", Price: floatPtr(1)}

	store := collection.NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())

	// Cancel after the first row via the progress sink.
	importer := NewImporter(store, catalog, WithProgressSink(sinkFunc(func(RowOutcome) { cancel() })))

	summary := importer.Run(ctx, []Row{
		{SetCode: "SOI-EN001", Rarity: "Rare", Quantity: 1},
		{SetCode: "MFC-105", Rarity: "Rare", Quantity: 1},
	})

	assert.True(t, summary.Canceled)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Len(t, summary.Outcomes, 1)
	assert.Equal(t, 1, store.Len())
}

// sinkFunc adapts a function to ProgressSink for tests.
type sinkFunc func(RowOutcome)

func (f sinkFunc) RowDone(outcome RowOutcome) {
	f(outcome)
}
