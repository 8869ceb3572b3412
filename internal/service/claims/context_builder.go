package claims

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"mixerai/internal/domain"
	models "mixerai/internal/domain/models/claims"
	"mixerai/internal/domain/repositories"
)

// BuilderConfig carries the engine's behavior toggles explicitly - no
// env-driven globals.
type BuilderConfig struct {
	// IngredientFetchLenient degrades an ingredient claim fetch failure to
	// "no ingredient claims" instead of failing the whole resolution.
	// Default false: silently dropping mandatory claims is unsafe, so only
	// callers that understand the compliance risk opt in.
	IngredientFetchLenient bool
}

// ClaimsContextBuilder produces the effective, precedence-ordered claim set
// for products in one (or all) markets, ready for downstream presentation or
// styling. It composes the claim repository with the precedence resolver;
// permission checking is the PermissionResolver's job.
type ClaimsContextBuilder struct {
	claims   repositories.ClaimRepository
	links    repositories.BrandLinkRepository
	resolver *PrecedenceResolver
	config   BuilderConfig
	logger   *slog.Logger
}

// NewClaimsContextBuilder creates a new claims context builder
func NewClaimsContextBuilder(
	claimRepo repositories.ClaimRepository,
	links repositories.BrandLinkRepository,
	config BuilderConfig,
	logger *slog.Logger,
) *ClaimsContextBuilder {
	return &ClaimsContextBuilder{
		claims:   claimRepo,
		links:    links,
		resolver: NewPrecedenceResolver(),
		config:   config,
		logger:   logger,
	}
}

// ResolveEffectiveClaims resolves the effective claim set for one product.
//
// A product without a master brand link yields Resolution{NoClaims: true} -
// a legitimate, common state, not an error. Any fetch failure aborts the
// whole operation: a partial claim set is a compliance risk, not a
// degraded-but-usable result.
func (b *ClaimsContextBuilder) ResolveEffectiveClaims(ctx context.Context, productID uuid.UUID, country models.Country) (*models.Resolution, error) {
	resolutions, err := b.ResolveEffectiveClaimsBatch(ctx, []uuid.UUID{productID}, country)
	if err != nil {
		return nil, err
	}
	resolution, ok := resolutions[productID]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
	}
	return resolution, nil
}

// ResolveEffectiveClaimsBatch resolves effective claims for many products at
// once. Batching is an optimization, not a semantic change: each product's
// resolution is identical to what an individual call would return, but the
// repository sees a fixed number of batched queries instead of 3·N.
//
// The brand, product and ingredient fetches are independent read-only calls
// and run concurrently; the group context cancels the others as soon as one
// fails, and cancellation surfaces as an error, never as a partial result.
func (b *ClaimsContextBuilder) ResolveEffectiveClaimsBatch(ctx context.Context, productIDs []uuid.UUID, country models.Country) (map[uuid.UUID]*models.Resolution, error) {
	if len(productIDs) == 0 {
		return nil, fmt.Errorf("product ids must be non-empty: %w", domain.ErrValidation)
	}

	requested := dedupeIDs(productIDs)

	products, err := b.links.GetProducts(ctx, requested)
	if err != nil {
		return nil, err
	}

	resolutions := make(map[uuid.UUID]*models.Resolution, len(requested))

	// Products lacking a master brand link resolve to the explicit
	// "no claims" state up front and drop out of the fetch set.
	var withBrand []models.Product
	masterBrandSet := make(map[uuid.UUID]struct{})
	for _, product := range products {
		if product.MasterBrandID == nil {
			resolutions[product.ID] = &models.Resolution{
				ProductID: product.ID,
				Country:   country,
				Claims:    []models.EffectiveClaim{},
				NoClaims:  true,
			}
			continue
		}
		withBrand = append(withBrand, product)
		masterBrandSet[*product.MasterBrandID] = struct{}{}
	}

	if len(withBrand) == 0 {
		return resolutions, nil
	}

	fetchProductIDs := make([]uuid.UUID, 0, len(withBrand))
	for _, product := range withBrand {
		fetchProductIDs = append(fetchProductIDs, product.ID)
	}
	masterBrandIDs := setToIDs(masterBrandSet)

	var (
		brandClaims      []models.Claim
		productClaims    []models.Claim
		ingredientClaims []models.Claim
		ingredientLinks  map[uuid.UUID][]uuid.UUID
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		brandClaims, err = b.claims.FetchClaims(gctx, models.LevelBrand, masterBrandIDs, country)
		return err
	})

	g.Go(func() error {
		var err error
		productClaims, err = b.claims.FetchClaims(gctx, models.LevelProduct, fetchProductIDs, country)
		return err
	})

	g.Go(func() error {
		var err error
		ingredientLinks, err = b.links.GetIngredientIDs(gctx, fetchProductIDs)
		if err != nil {
			return b.ingredientFailure(gctx, err)
		}

		ingredientIDSet := make(map[uuid.UUID]struct{})
		for _, ids := range ingredientLinks {
			for _, id := range ids {
				ingredientIDSet[id] = struct{}{}
			}
		}
		if len(ingredientIDSet) == 0 {
			return nil
		}

		ingredientClaims, err = b.claims.FetchClaims(gctx, models.LevelIngredient, setToIDs(ingredientIDSet), country)
		if err != nil {
			ingredientClaims = nil
			return b.ingredientFailure(gctx, err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	brandClaimsByOwner := groupByOwner(brandClaims)
	productClaimsByOwner := groupByOwner(productClaims)
	ingredientClaimsByOwner := groupByOwner(ingredientClaims)

	for _, product := range withBrand {
		merged := make([]models.Claim, 0,
			len(brandClaimsByOwner[*product.MasterBrandID])+
				len(productClaimsByOwner[product.ID]))

		// Spec order: brand, then product, then ingredient claims; the
		// resolver's stable sort preserves this for equal keys.
		merged = append(merged, brandClaimsByOwner[*product.MasterBrandID]...)
		merged = append(merged, productClaimsByOwner[product.ID]...)
		for _, ingredientID := range ingredientLinks[product.ID] {
			merged = append(merged, ingredientClaimsByOwner[ingredientID]...)
		}

		resolution := b.resolver.Resolve(merged, country)
		resolution.ProductID = product.ID
		for _, conflict := range resolution.TypeConflicts {
			b.logger.Warn("claim text collision with differing types",
				"product_id", product.ID,
				"text", conflict.Text,
				"kept_type", conflict.KeptType,
				"dropped_type", conflict.DroppedType,
				"dropped_claim_id", conflict.DroppedClaimID,
			)
		}
		resolutions[product.ID] = &resolution
	}

	return resolutions, nil
}

// ingredientFailure applies the lenient toggle: cancellation always aborts,
// store failures degrade to "no ingredient claims" only when configured.
func (b *ClaimsContextBuilder) ingredientFailure(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return err
	}
	if b.config.IngredientFetchLenient {
		b.logger.Warn("ingredient claim fetch failed, continuing without ingredient claims",
			"error", err,
		)
		return nil
	}
	return err
}

func groupByOwner(claimList []models.Claim) map[uuid.UUID][]models.Claim {
	byOwner := make(map[uuid.UUID][]models.Claim)
	for _, claim := range claimList {
		owner, ok := claim.OwnerID()
		if !ok {
			continue
		}
		byOwner[owner] = append(byOwner[owner], claim)
	}
	return byOwner
}
