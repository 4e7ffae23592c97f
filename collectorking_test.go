package collectorking

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collectorking/collectorking/internal/ygoprodeck"
	"github.com/collectorking/collectorking/pkg/collection"
	"github.com/collectorking/collectorking/pkg/errors"
	"github.com/collectorking/collectorking/pkg/reconcile"
)

// stubCatalog serves a fixed set of entries without the network.
type stubCatalog struct {
	sets map[string]*ygoprodeck.SetMeta
}

func (s *stubCatalog) SetInfo(_ context.Context, setCode string) (*ygoprodeck.SetMeta, error) {
	meta, ok := s.sets[setCode]
	if !ok {
		return nil, errors.NewNotFoundError("set code", setCode)
	}
	return meta, nil
}

func (s *stubCatalog) Rarities(_ context.Context, setCode string) ([]string, error) {
	meta, ok := s.sets[setCode]
	if !ok {
		return nil, errors.NewNotFoundError("set code", setCode)
	}
	if meta.Rarity == "" {
		return []string{}, nil
	}
	return []string{meta.Rarity}, nil
}

func (s *stubCatalog) Price(context.Context, string, string) (float64, error) {
	return 0, errors.NewNotFoundError("price", "unknown")
}

func (s *stubCatalog) ImageRefs(context.Context, int64) ([]string, error) {
	return nil, errors.NewNotFoundError("card id", "unknown")
}

func price(f float64) *float64 { return &f }

func newTestLibrary(t *testing.T) Library {
	t.Helper()
	catalog := &stubCatalog{sets: map[string]*ygoprodeck.SetMeta{
		"SOI-EN001": {ID: 1, Name: "Stardust Dragon", SetName: "Shadow of Infinity", Rarity: "Ultimate Rare", Price: price(12.50)},
		"MFC-105":   {ID: 2, Name: "Dark Magician Girl", SetName: "Magician's Force", Rarity: "Ultra Rare", Price: price(30.00)},
	}}

	lib, err := New(
		WithCollectionFile(filepath.Join(t.TempDir(), "collection.yaml")),
		WithCatalog(catalog),
		WithImagesDir(""),
	)
	require.NoError(t, err)
	return lib
}

func TestLibraryImportExport(t *testing.T) {
	lib := newTestLibrary(t)

	summary, err := lib.Import(context.Background(), strings.NewReader(
		"set_code,rarity,quantity\nSOI-EN001,Ultimate Rare,1\nMFC-105,qcse,2\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 0, summary.Skipped)

	records := lib.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "Quarter Century Secret Rare", records[1].Rarity)

	assert.InDelta(t, 12.50+2*30.00, lib.TotalValue(), 0.001)

	var buf bytes.Buffer
	require.NoError(t, lib.Export(&buf))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "SOI-EN001,Stardust Dragon"))
}

func TestLibraryImportMissingCodeColumn(t *testing.T) {
	lib := newTestLibrary(t)

	_, err := lib.Import(context.Background(), strings.NewReader("name,rarity\nA,Common\n"))
	assert.ErrorIs(t, err, errors.ErrMissingColumn)
}

func TestLibrarySetQuantity(t *testing.T) {
	lib := newTestLibrary(t)

	_, err := lib.Import(context.Background(), strings.NewReader(
		"set_code,rarity\nSOI-EN001,Ultimate Rare\n"))
	require.NoError(t, err)

	require.NoError(t, lib.SetQuantity("SOI-EN001", "Ultimate Rare", 4))
	rec, err := lib.Record("SOI-EN001", "Ultimate Rare")
	require.NoError(t, err)
	assert.Equal(t, 4, rec.Quantity)
	assert.InDelta(t, 4*12.50, lib.TotalValue(), 0.001)

	err = lib.SetQuantity("LOB-001", "Common", 1)
	assert.True(t, errors.IsRecordNotFound(err))
}

func TestLibraryPersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "collection.yaml")
	catalog := &stubCatalog{sets: map[string]*ygoprodeck.SetMeta{
		"SOI-EN001": {ID: 1, Name: "A", SetName: "S", Rarity: "Common", Price: price(1)},
	}}

	lib, err := New(WithCollectionFile(path), WithCatalog(catalog), WithImagesDir(""))
	require.NoError(t, err)
	_, err = lib.Import(context.Background(), strings.NewReader("code\nSOI-EN001\n"))
	require.NoError(t, err)

	reopened, err := New(WithCollectionFile(path), WithCatalog(catalog), WithImagesDir(""))
	require.NoError(t, err)
	require.Len(t, reopened.Records(), 1)
	assert.Equal(t, "SOI-EN001", reopened.Records()[0].SetCode)
}

func TestLibraryQuantityPolicyOption(t *testing.T) {
	catalog := &stubCatalog{sets: map[string]*ygoprodeck.SetMeta{
		"SOI-EN001": {ID: 1, Name: "A", SetName: "S", Rarity: "Common", Price: price(1)},
	}}

	lib, err := New(
		WithStore(collection.NewMemoryStore(collection.WithQuantityPolicy(collection.QuantityAccumulate))),
		WithCatalog(catalog),
		WithImagesDir(""),
	)
	require.NoError(t, err)

	input := "set_code,quantity\nSOI-EN001,2\n"
	_, err = lib.Import(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	_, err = lib.Import(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	rec, err := lib.Record("SOI-EN001", "Common")
	require.NoError(t, err)
	assert.Equal(t, 4, rec.Quantity)
}

func TestLibraryRefresh(t *testing.T) {
	lib := newTestLibrary(t)

	_, err := lib.Import(context.Background(), strings.NewReader(
		"set_code,rarity\nSOI-EN001,Ultimate Rare\n"))
	require.NoError(t, err)

	// Price lookup always misses in the stub, so refresh keeps the stored
	// price.
	summary, err := lib.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Succeeded)

	rec, err := lib.Record("SOI-EN001", "Ultimate Rare")
	require.NoError(t, err)
	assert.Equal(t, 12.50, rec.Price)
}

var _ reconcile.ProgressSink = reconcile.NopSink{}
