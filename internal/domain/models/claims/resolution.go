package claims

import (
	"github.com/google/uuid"
)

// EffectiveClaim is one entry of a resolved claim list. It keeps the source
// claim's level, country and type so callers can render groupings without
// re-querying.
type EffectiveClaim struct {
	Claim
}

// TypeConflict records a display dedup that collapsed two claims with
// identical text but different types. The first-seen claim is kept; the
// conflict is surfaced because differing types on the same wording usually
// indicates a data inconsistency rather than a legitimate override.
type TypeConflict struct {
	Text          string    `json:"text"`
	KeptClaimID   uuid.UUID `json:"kept_claim_id"`
	KeptType      ClaimType `json:"kept_type"`
	DroppedClaimID uuid.UUID `json:"dropped_claim_id"`
	DroppedType   ClaimType `json:"dropped_type"`
}

// Resolution is the complete outcome of resolving effective claims for one
// product and market. NoClaims marks the legitimate "product has no claims"
// state (e.g. no master brand link); it is not an error.
type Resolution struct {
	ProductID     uuid.UUID        `json:"product_id"`
	Country       Country          `json:"country_code"`
	Claims        []EffectiveClaim `json:"claims"`
	TypeConflicts []TypeConflict   `json:"type_conflicts,omitempty"`
	NoClaims      bool             `json:"no_claims"`
}

// StyledClaim pairs an effective claim with the market-ready wording produced
// by the external styling service.
type StyledClaim struct {
	EffectiveClaim
	StyledText string `json:"styled_text"`
}
