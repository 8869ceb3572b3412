package claims

import (
	"sort"

	models "mixerai/internal/domain/models/claims"
)

// PrecedenceResolver turns a heterogeneous bag of claims into the ordered,
// de-duplicated list a compliance reviewer or copywriter should see. It is a
// pure function over its input: no repository access, no failure modes, and
// an empty input yields an empty output.
type PrecedenceResolver struct{}

// NewPrecedenceResolver creates a new precedence resolver
func NewPrecedenceResolver() *PrecedenceResolver {
	return &PrecedenceResolver{}
}

// Resolve filters, orders and de-duplicates claims for the target market.
//
// Filtering: when target is a concrete market, only rows for that market or
// the global sentinel are in force, and a global row is dropped when a
// market-specific row with identical text exists (the market row overrides
// the global fallback). AllMarkets keeps everything.
//
// Ordering (stable; ties keep input order):
//  1. mandatory claims before all other types
//  2. level rank: product before ingredient before brand
//  3. a concrete market code before the global sentinel
//
// Deduplication: after sorting, claims with identical text collapse to the
// first occurrence. This is a display dedup, not a legal merge - it does not
// reconcile type differences; a collision whose types differ is reported as
// a TypeConflict so the underlying data inconsistency stays visible.
func (r *PrecedenceResolver) Resolve(input []models.Claim, target models.Country) models.Resolution {
	inForce := filterInForce(input, target)

	sort.SliceStable(inForce, func(i, j int) bool {
		a, b := &inForce[i], &inForce[j]
		if ar, br := typeRank(a.Type), typeRank(b.Type); ar != br {
			return ar < br
		}
		if ar, br := levelRank(a.Level), levelRank(b.Level); ar != br {
			return ar < br
		}
		return countryRank(a.Country) < countryRank(b.Country)
	})

	resolution := models.Resolution{
		Country: target,
		Claims:  make([]models.EffectiveClaim, 0, len(inForce)),
	}

	seen := make(map[string]int, len(inForce)) // text -> index into resolution.Claims
	for _, claim := range inForce {
		if keptIdx, dup := seen[claim.Text]; dup {
			kept := &resolution.Claims[keptIdx]
			if kept.Type != claim.Type {
				resolution.TypeConflicts = append(resolution.TypeConflicts, models.TypeConflict{
					Text:           claim.Text,
					KeptClaimID:    kept.ID,
					KeptType:       kept.Type,
					DroppedClaimID: claim.ID,
					DroppedType:    claim.Type,
				})
			}
			continue
		}
		seen[claim.Text] = len(resolution.Claims)
		resolution.Claims = append(resolution.Claims, models.EffectiveClaim{Claim: claim})
	}

	return resolution
}

// filterInForce keeps claims in force for the target market and applies the
// global-vs-market override per claim text.
func filterInForce(input []models.Claim, target models.Country) []models.Claim {
	kept := make([]models.Claim, 0, len(input))
	if target.IsAllMarkets() {
		return append(kept, input...)
	}

	// Texts that have a market-specific row for the target; those rows
	// override global rows with the same wording.
	marketTexts := make(map[string]struct{})
	for i := range input {
		if input[i].Country == target && !input[i].Country.IsGlobal() {
			marketTexts[input[i].Text] = struct{}{}
		}
	}

	for _, claim := range input {
		if !claim.Country.InForce(target) {
			continue
		}
		if claim.Country.IsGlobal() && !target.IsGlobal() {
			if _, overridden := marketTexts[claim.Text]; overridden {
				continue
			}
		}
		kept = append(kept, claim)
	}
	return kept
}

// typeRank: mandatory claims are never optional reading, so they sort first.
// The remaining types keep equal rank; their relative order is input order.
func typeRank(t models.ClaimType) int {
	if t == models.TypeMandatory {
		return 0
	}
	return 1
}

// levelRank: more specific claims surface first.
func levelRank(l models.ClaimLevel) int {
	switch l {
	case models.LevelProduct:
		return 1
	case models.LevelIngredient:
		return 2
	case models.LevelBrand:
		return 3
	default:
		// Unknown levels sink to the bottom rather than panicking on
		// malformed rows; Validate rejects them before they get this far.
		return 4
	}
}

// countryRank: market-specific guidance takes visual precedence over global.
func countryRank(c models.Country) int {
	if c.IsGlobal() {
		return 1
	}
	return 0
}
