package reconcile

import (
	"context"

	"github.com/collectorking/collectorking/pkg/errors"
	"github.com/collectorking/collectorking/pkg/logging"
)

// Provenance says where a resolved price came from.
type Provenance string

const (
	// ProvenanceRaritySpecific means the catalog priced the exact
	// (set code, rarity) printing.
	ProvenanceRaritySpecific Provenance = "rarity-specific"

	// ProvenanceSetDefault means the set-level default price was used
	// because the printing itself carried none.
	ProvenanceSetDefault Provenance = "set-default-fallback"

	// ProvenanceUnavailable means no source yielded a usable amount; the
	// Amount field is meaningless and callers must not store it blindly.
	ProvenanceUnavailable Provenance = "unavailable"
)

// Quote is a resolved price with its provenance. Amount is only meaningful
// when Provenance is not ProvenanceUnavailable.
type Quote struct {
	Amount     float64
	Provenance Provenance
}

// PriceResolver resolves the price for a (set code, rarity) printing with a
// fallback hierarchy: exact printing, then the supplied set-level default,
// then an explicit unavailable quote. It never invents a silent zero.
type PriceResolver struct {
	catalog Catalog
}

// NewPriceResolver creates a resolver backed by the catalog.
func NewPriceResolver(catalog Catalog) *PriceResolver {
	return &PriceResolver{catalog: catalog}
}

// Resolve returns a Quote for (setCode, rarityName). fallback is the
// set-level default price, nil when the set carries none; on refresh the
// caller passes the record's own stale price instead. The only returned
// error is cancellation.
func (p *PriceResolver) Resolve(ctx context.Context, setCode, rarityName string, fallback *float64) (Quote, error) {
	amount, err := p.catalog.Price(ctx, setCode, rarityName)
	if err == nil {
		return Quote{Amount: amount, Provenance: ProvenanceRaritySpecific}, nil
	}
	if errors.IsCanceled(err) {
		return Quote{}, err
	}

	if !errors.IsNotFound(err) && !errors.IsUnavailable(err) {
		logging.Ctx(ctx).Warn().
			Str("set_code", setCode).
			Str("rarity", rarityName).
			Err(err).
			Msg("Unexpected price lookup failure, falling back")
	}

	if fallback != nil && *fallback >= 0 {
		return Quote{Amount: *fallback, Provenance: ProvenanceSetDefault}, nil
	}
	return Quote{Provenance: ProvenanceUnavailable}, nil
}
