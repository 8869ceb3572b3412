package claims

import (
	"context"

	models "mixerai/internal/domain/models/claims"
)

// Styler rewords resolved claims for presentation. The real implementation
// is an external text-transform service owned by the platform; this engine
// only consumes the interface and never interprets the styled output.
type Styler interface {
	// StyleClaims rewords each effective claim in the given brand tone.
	// The claim set, its order and its provenance must pass through
	// unchanged; only the wording is the service's to touch.
	StyleClaims(ctx context.Context, resolved []models.EffectiveClaim, brandTone string) ([]models.StyledClaim, error)
}

// PassthroughStyler returns each claim's original wording unchanged. It is
// the default wiring when no styling service is configured and the zero
// behavior tests run against.
type PassthroughStyler struct{}

// NewPassthroughStyler creates a new passthrough styler
func NewPassthroughStyler() *PassthroughStyler {
	return &PassthroughStyler{}
}

// StyleClaims implements Styler
func (s *PassthroughStyler) StyleClaims(_ context.Context, resolved []models.EffectiveClaim, _ string) ([]models.StyledClaim, error) {
	styled := make([]models.StyledClaim, 0, len(resolved))
	for _, claim := range resolved {
		styled = append(styled, models.StyledClaim{
			EffectiveClaim: claim,
			StyledText:     claim.Text,
		})
	}
	return styled, nil
}
