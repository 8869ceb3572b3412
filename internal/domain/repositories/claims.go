package repositories

import (
	"context"

	"github.com/google/uuid"
	"mixerai/internal/domain/models/claims"
)

// ClaimRepository fetches raw claim rows. Pure data access; no business
// logic. Implementations must batch: one query per call regardless of how
// many owner ids are passed.
type ClaimRepository interface {
	// FetchClaims returns claims at the given level owned by any of ownerIDs.
	//
	// ownerIDs must be non-empty. country narrows the market:
	// AllMarkets returns both global and all market-specific rows; a concrete
	// market returns that market's rows plus global rows (the global-vs-market
	// override is applied later by the precedence resolver, not here).
	//
	// I/O failures are wrapped in *domain.DataUnavailableError; context
	// cancellation is returned as-is.
	FetchClaims(ctx context.Context, level claims.ClaimLevel, ownerIDs []uuid.UUID, country claims.Country) ([]claims.Claim, error)
}

// BrandLinkRepository resolves the product→master-brand→tenant-brand
// ownership chain and the permission rows hanging off it. Every method is a
// single batched query; per-id round trips are the anti-pattern this
// interface exists to prevent.
type BrandLinkRepository interface {
	// GetProducts returns the products matching ids. Unknown ids are simply
	// absent from the result; callers decide whether that is an error.
	GetProducts(ctx context.Context, ids []uuid.UUID) ([]claims.Product, error)

	// GetMasterBrands returns the master claim brands matching ids.
	GetMasterBrands(ctx context.Context, ids []uuid.UUID) ([]claims.MasterClaimBrand, error)

	// GetIngredientIDs returns, per product, the ingredient ids linked
	// through the join table. Products with no ingredients are absent from
	// the map.
	GetIngredientIDs(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error)

	// GetAdminBrandIDs returns the subset of tenantBrandIDs the user holds
	// an admin-role permission against.
	GetAdminBrandIDs(ctx context.Context, userID uuid.UUID, tenantBrandIDs []uuid.UUID) ([]uuid.UUID, error)
}
