package reconcile

import (
	"context"
	"slices"

	"github.com/collectorking/collectorking/pkg/errors"
	"github.com/collectorking/collectorking/pkg/logging"
	"github.com/collectorking/collectorking/pkg/rarity"
)

// Resolution is the outcome of rarity resolution: the canonical rarity and
// how confidently it was derived.
type Resolution struct {
	Rarity     string
	Confidence rarity.Confidence
}

// RarityResolver decides the canonical rarity for one row. Explicit input
// never touches the catalog; only a blank rarity triggers a lookup, and an
// ambiguous lookup suspends on the Chooser.
type RarityResolver struct {
	catalog Catalog
	chooser Chooser
}

// NewRarityResolver creates a resolver. The chooser may be nil, in which
// case ambiguous lookups fail as unresolvable instead of suspending.
func NewRarityResolver(catalog Catalog, chooser Chooser) *RarityResolver {
	return &RarityResolver{catalog: catalog, chooser: chooser}
}

// Resolve returns the canonical rarity for (setCode, rawRarity).
func (r *RarityResolver) Resolve(ctx context.Context, setCode, rawRarity string) (Resolution, error) {
	if !rarity.IsMissing(rawRarity) {
		if canonical, ok := rarity.Lookup(rawRarity); ok {
			return Resolution{Rarity: canonical, Confidence: rarity.ConfidenceAlias}, nil
		}
		return Resolution{Rarity: rarity.Normalize(rawRarity), Confidence: rarity.ConfidenceExplicit}, nil
	}

	candidates, err := r.catalog.Rarities(ctx, setCode)
	if err != nil {
		return Resolution{}, err
	}

	switch len(candidates) {
	case 0:
		return Resolution{}, &errors.RarityError{
			SetCode: setCode,
			Reason:  "catalog lists no rarities",
			Err:     errors.ErrRarityUnresolvable,
		}
	case 1:
		return Resolution{Rarity: candidates[0], Confidence: rarity.ConfidenceAPISingle}, nil
	}

	if r.chooser == nil {
		return Resolution{}, &errors.RarityError{
			SetCode: setCode,
			Reason:  "ambiguous and no chooser configured",
			Err:     errors.ErrRarityUnresolvable,
		}
	}

	choice, err := r.chooser.Choose(ctx, setCode, candidates)
	if err != nil {
		logging.Ctx(ctx).Debug().
			Str("set_code", setCode).
			Err(err).
			Msg("Rarity choice canceled")
		return Resolution{}, &errors.RarityError{
			SetCode: setCode,
			Reason:  "choice canceled",
			Err:     errors.ErrRarityUnresolvable,
		}
	}
	if !slices.Contains(candidates, choice) {
		return Resolution{}, &errors.RarityError{
			SetCode: setCode,
			Reason:  "choice is not a listed candidate",
			Err:     errors.ErrRarityUnresolvable,
		}
	}
	return Resolution{Rarity: choice, Confidence: rarity.ConfidenceAPIAmbiguous}, nil
}
