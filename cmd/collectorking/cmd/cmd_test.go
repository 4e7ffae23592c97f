package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collectorking/collectorking"
	"github.com/collectorking/collectorking/pkg/collection"
	"github.com/collectorking/collectorking/pkg/errors"
	"github.com/collectorking/collectorking/pkg/reconcile"
)

// stubLibrary is a canned Library for command tests.
type stubLibrary struct {
	records       []collection.Record
	importSummary *reconcile.Summary
	setQuantity   map[string]int
}

func (s *stubLibrary) Import(context.Context, io.Reader) (*reconcile.Summary, error) {
	return s.importSummary, nil
}

func (s *stubLibrary) Refresh(context.Context) (*reconcile.Summary, error) {
	return &reconcile.Summary{Succeeded: len(s.records)}, nil
}

func (s *stubLibrary) Export(w io.Writer) error {
	_, err := w.Write([]byte("set_code,name\n"))
	return err
}

func (s *stubLibrary) Records() []collection.Record {
	return s.records
}

func (s *stubLibrary) Record(setCode, rarityName string) (collection.Record, error) {
	for _, rec := range s.records {
		if rec.SetCode == setCode && rec.Rarity == rarityName {
			return rec, nil
		}
	}
	return collection.Record{}, &errors.RecordError{Key: setCode}
}

func (s *stubLibrary) SetQuantity(setCode, rarityName string, quantity int) error {
	for i, rec := range s.records {
		if rec.SetCode == setCode && rec.Rarity == rarityName {
			s.records[i].Quantity = quantity
			if s.setQuantity == nil {
				s.setQuantity = make(map[string]int)
			}
			s.setQuantity[setCode] = quantity
			return nil
		}
	}
	return &errors.RecordError{Key: setCode}
}

func (s *stubLibrary) TotalValue() float64 {
	var total float64
	for _, rec := range s.records {
		total += rec.LineTotal()
	}
	return total
}

// stubApp hands out a stub library.
type stubApp struct {
	library *stubLibrary
}

func (a *stubApp) Library() (collectorking.Library, error) {
	return a.library, nil
}

func (a *stubApp) LibraryWithOptions(...collectorking.Option) (collectorking.Library, error) {
	return a.library, nil
}

func (a *stubApp) Logger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func (a *stubApp) Version() string { return "test" }
func (a *stubApp) Commit() string  { return "abc" }
func (a *stubApp) Date() string    { return "today" }
func (a *stubApp) BuiltBy() string { return "tests" }

func testRecords() []collection.Record {
	return []collection.Record{
		{
			SetCode: "SOI-EN001", Name: "Stardust Dragon", Rarity: "Ultimate Rare",
			Price: 12.50, Quantity: 2, LastUpdated: time.Now(),
		},
		{
			SetCode: "LOB-001", Name: "Blue-Eyes White Dragon", Rarity: "Ultra Rare",
			Price: 25.00, Quantity: 1, LastUpdated: time.Now(),
		},
	}
}

func TestImportCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.csv")
	require.NoError(t, os.WriteFile(path, []byte("set_code\nSOI-EN001\n"), 0o644))

	app := &stubApp{library: &stubLibrary{
		importSummary: &reconcile.Summary{
			Succeeded: 1,
			Outcomes: []reconcile.RowOutcome{
				{SetCode: "SOI-EN001", Rarity: "Ultimate Rare", Status: reconcile.StatusImported},
			},
		},
	}}

	var out bytes.Buffer
	c := NewImportCommand(app)
	c.SetOut(&out)
	c.SetArgs([]string{path})
	require.NoError(t, c.Execute())
	assert.Contains(t, out.String(), "1 imported, 0 skipped")
}

func TestImportCommandMissingFile(t *testing.T) {
	app := &stubApp{library: &stubLibrary{}}
	c := NewImportCommand(app)
	c.SetOut(io.Discard)
	c.SetErr(io.Discard)
	c.SetArgs([]string{filepath.Join(t.TempDir(), "nope.csv")})
	assert.Error(t, c.Execute())
}

func TestListCommand(t *testing.T) {
	app := &stubApp{library: &stubLibrary{records: testRecords()}}

	var out bytes.Buffer
	c := NewListCommand(app)
	c.SetOut(&out)
	c.SetArgs([]string{})
	require.NoError(t, c.Execute())

	assert.Contains(t, out.String(), "SOI-EN001")
	assert.Contains(t, out.String(), "Blue-Eyes White Dragon")
	assert.Contains(t, out.String(), "total value $50.00")
}

func TestListCommandEmpty(t *testing.T) {
	app := &stubApp{library: &stubLibrary{}}

	var out bytes.Buffer
	c := NewListCommand(app)
	c.SetOut(&out)
	c.SetArgs([]string{})
	require.NoError(t, c.Execute())
	assert.Contains(t, out.String(), "Collection is empty")
}

func TestSetQuantityCommand(t *testing.T) {
	app := &stubApp{library: &stubLibrary{records: testRecords()}}

	var out bytes.Buffer
	c := NewSetQuantityCommand(app)
	c.SetOut(&out)
	c.SetArgs([]string{"SOI-EN001", "Ultimate Rare", "5"})
	require.NoError(t, c.Execute())

	assert.Equal(t, 5, app.library.setQuantity["SOI-EN001"])
	assert.Contains(t, out.String(), "quantity 5")
}

func TestSetQuantityCommandBadNumber(t *testing.T) {
	app := &stubApp{library: &stubLibrary{records: testRecords()}}

	c := NewSetQuantityCommand(app)
	c.SetOut(io.Discard)
	c.SetErr(io.Discard)
	c.SetArgs([]string{"SOI-EN001", "Ultimate Rare", "lots"})
	assert.Error(t, c.Execute())
}

func TestExportCommandToFile(t *testing.T) {
	app := &stubApp{library: &stubLibrary{records: testRecords()}}
	path := filepath.Join(t.TempDir(), "export.csv")

	c := NewExportCommand(app)
	c.SetOut(io.Discard)
	c.SetArgs([]string{path})
	require.NoError(t, c.Execute())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "set_code")
}

func TestExportCommandFileErrorSurfaces(t *testing.T) {
	app := &stubApp{library: &stubLibrary{records: testRecords()}}

	// The target is a directory, so the file cannot be written.
	c := NewExportCommand(app)
	c.SetOut(io.Discard)
	c.SetErr(io.Discard)
	c.SetArgs([]string{t.TempDir()})
	assert.Error(t, c.Execute())
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	c := NewVersionCommand(&stubApp{})
	c.SetOut(&out)
	c.SetArgs([]string{})
	require.NoError(t, c.Execute())
	assert.Contains(t, out.String(), "collectorking version test")
	assert.Contains(t, out.String(), "commit: abc")
}
