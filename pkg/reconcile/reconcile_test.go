package reconcile

import (
	"context"
	"fmt"

	"github.com/collectorking/collectorking/internal/ygoprodeck"
	"github.com/collectorking/collectorking/pkg/errors"
)

// fakeCatalog is an in-memory Catalog for pipeline tests. Per-operation
// errors can be injected per set code, and call counts are tracked so tests
// can assert which lookups actually happened.
type fakeCatalog struct {
	sets     map[string]*ygoprodeck.SetMeta
	rarities map[string][]string
	prices   map[string]float64
	images   map[int64][]string

	unavailable map[string]bool

	setInfoCalls  int
	raritiesCalls int
	priceCalls    int
	imageCalls    int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		sets:        make(map[string]*ygoprodeck.SetMeta),
		rarities:    make(map[string][]string),
		prices:      make(map[string]float64),
		images:      make(map[int64][]string),
		unavailable: make(map[string]bool),
	}
}

func priceKey(setCode, rarityName string) string {
	return setCode + "|" + rarityName
}

func unavailableErr() error {
	return &errors.APIError{Service: "fake", StatusCode: 503, Message: "down"}
}

func (f *fakeCatalog) SetInfo(_ context.Context, setCode string) (*ygoprodeck.SetMeta, error) {
	f.setInfoCalls++
	if f.unavailable[setCode] {
		return nil, unavailableErr()
	}
	meta, ok := f.sets[setCode]
	if !ok {
		return nil, errors.NewNotFoundError("set code", setCode)
	}
	return meta, nil
}

func (f *fakeCatalog) Rarities(_ context.Context, setCode string) ([]string, error) {
	f.raritiesCalls++
	if f.unavailable[setCode] {
		return nil, unavailableErr()
	}
	names, ok := f.rarities[setCode]
	if !ok {
		return nil, errors.NewNotFoundError("set code", setCode)
	}
	return names, nil
}

func (f *fakeCatalog) Price(_ context.Context, setCode, rarityName string) (float64, error) {
	f.priceCalls++
	if f.unavailable[setCode] {
		return 0, unavailableErr()
	}
	amount, ok := f.prices[priceKey(setCode, rarityName)]
	if !ok {
		return 0, errors.NewNotFoundError("price for", setCode)
	}
	return amount, nil
}

func (f *fakeCatalog) ImageRefs(_ context.Context, cardID int64) ([]string, error) {
	f.imageCalls++
	refs, ok := f.images[cardID]
	if !ok {
		return nil, errors.NewNotFoundError("card id", fmt.Sprint(cardID))
	}
	return refs, nil
}

// fakeFetcher records image fetches without touching the filesystem.
type fakeFetcher struct {
	calls map[string][]string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{calls: make(map[string][]string)}
}

func (f *fakeFetcher) Fetch(_ context.Context, setCode string, refs []string) ([]string, error) {
	f.calls[setCode] = refs
	paths := make([]string, len(refs))
	for i := range refs {
		paths[i] = fmt.Sprintf("images/%s_%d.jpg", setCode, i+1)
	}
	return paths, nil
}

// collectSink accumulates progress events in order.
type collectSink struct {
	outcomes []RowOutcome
}

func (s *collectSink) RowDone(outcome RowOutcome) {
	s.outcomes = append(s.outcomes, outcome)
}

func floatPtr(f float64) *float64 {
	return &f
}
