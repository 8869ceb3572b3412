package claims

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"mixerai/internal/domain"
	models "mixerai/internal/domain/models/claims"
	"mixerai/internal/domain/repositories"
)

// PermissionResolver answers "may user U manage claims for all of products P?"
// with an auditable reason when the answer is no.
//
// The check walks the indirect ownership chain product → master claim brand →
// tenant brand → user permission in three batched repository calls, never one
// query per id. It is all-or-nothing: a verdict for a set of products is
// granted iff it would be granted for each product individually.
type PermissionResolver struct {
	links  repositories.BrandLinkRepository
	logger *slog.Logger
}

// NewPermissionResolver creates a new permission resolver
func NewPermissionResolver(links repositories.BrandLinkRepository, logger *slog.Logger) *PermissionResolver {
	return &PermissionResolver{
		links:  links,
		logger: logger,
	}
}

// CheckProductClaimsPermission evaluates whether userID holds admin rights
// over every tenant brand reachable from productIDs.
//
// The error return is reserved for store failures and cancellation; every
// authorization outcome, including denial, is a verdict value. Unknown
// product ids fail the check explicitly - silently ignoring them would let
// an attacker probe for products by omission.
func (r *PermissionResolver) CheckProductClaimsPermission(ctx context.Context, userID uuid.UUID, productIDs []uuid.UUID) (models.PermissionVerdict, error) {
	if userID == uuid.Nil {
		return models.PermissionVerdict{}, fmt.Errorf("user id is required: %w", domain.ErrValidation)
	}
	if len(productIDs) == 0 {
		return models.PermissionVerdict{}, fmt.Errorf("product ids must be non-empty: %w", domain.ErrValidation)
	}

	requested := dedupeIDs(productIDs)

	// Step 1: resolve products.
	products, err := r.links.GetProducts(ctx, requested)
	if err != nil {
		return models.PermissionVerdict{}, err
	}

	found := make(map[uuid.UUID]*models.Product, len(products))
	for i := range products {
		found[products[i].ID] = &products[i]
	}

	var reasons []models.Reason

	var missing []uuid.UUID
	for _, id := range requested {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		reasons = append(reasons, models.Reason{
			Code:    models.ReasonProductsNotFound,
			IDs:     sortedIDs(missing),
			Message: fmt.Sprintf("%d requested product(s) do not exist", len(missing)),
		})
	}

	// Step 2: every found product must link to a master brand.
	var unlinked []uuid.UUID
	masterBrandSet := make(map[uuid.UUID]struct{})
	for _, product := range products {
		if product.MasterBrandID == nil {
			unlinked = append(unlinked, product.ID)
			continue
		}
		masterBrandSet[*product.MasterBrandID] = struct{}{}
	}
	if len(unlinked) > 0 {
		reasons = append(reasons, models.Reason{
			Code:    models.ReasonProductsMissingBrandLink,
			IDs:     sortedIDs(unlinked),
			Message: fmt.Sprintf("%d product(s) have no master claim brand link", len(unlinked)),
		})
	}

	// Product-stage failures are terminal: there is no brand set worth
	// checking permissions against when the chain is already broken.
	if len(reasons) > 0 {
		r.logDenial(userID, reasons)
		return models.Denied(reasons...), nil
	}

	// Step 3: resolve each master brand to its tenant brand.
	masterBrandIDs := setToIDs(masterBrandSet)
	masterBrands, err := r.links.GetMasterBrands(ctx, masterBrandIDs)
	if err != nil {
		return models.PermissionVerdict{}, err
	}

	brandByID := make(map[uuid.UUID]*models.MasterClaimBrand, len(masterBrands))
	for i := range masterBrands {
		brandByID[masterBrands[i].ID] = &masterBrands[i]
	}

	var unmapped []uuid.UUID
	tenantBrandSet := make(map[uuid.UUID]struct{})
	for _, id := range masterBrandIDs {
		brand, ok := brandByID[id]
		// A master brand row missing entirely is treated like a missing
		// tenant link: either way no brand-scoped admin can be authorized
		// through it.
		if !ok || brand.TenantBrandID == nil {
			unmapped = append(unmapped, id)
			continue
		}
		tenantBrandSet[*brand.TenantBrandID] = struct{}{}
	}
	if len(unmapped) > 0 {
		// All-or-nothing: one unlinked master brand fails the whole check
		// regardless of the other products' state.
		reasons = append(reasons, models.Reason{
			Code:    models.ReasonBrandsMissingTenantMapping,
			IDs:     sortedIDs(unmapped),
			Message: fmt.Sprintf("%d master claim brand(s) have no tenant brand mapping", len(unmapped)),
		})
		r.logDenial(userID, reasons)
		return models.Denied(reasons...), nil
	}

	// Step 4: one batched permission lookup for the whole tenant brand set.
	tenantBrandIDs := setToIDs(tenantBrandSet)
	adminBrandIDs, err := r.links.GetAdminBrandIDs(ctx, userID, tenantBrandIDs)
	if err != nil {
		return models.PermissionVerdict{}, err
	}

	granted := make(map[uuid.UUID]struct{}, len(adminBrandIDs))
	for _, id := range adminBrandIDs {
		granted[id] = struct{}{}
	}

	var uncovered []uuid.UUID
	for _, id := range tenantBrandIDs {
		if _, ok := granted[id]; !ok {
			uncovered = append(uncovered, id)
		}
	}
	if len(uncovered) > 0 {
		reasons = append(reasons, models.Reason{
			Code:    models.ReasonInsufficientBrandPermissions,
			IDs:     sortedIDs(uncovered),
			Message: fmt.Sprintf("user lacks admin permission for %d tenant brand(s)", len(uncovered)),
		})
		r.logDenial(userID, reasons)
		return models.Denied(reasons...), nil
	}

	return models.GrantedVerdict(), nil
}

func (r *PermissionResolver) logDenial(userID uuid.UUID, reasons []models.Reason) {
	for _, reason := range reasons {
		r.logger.Info("claims permission denied",
			"user_id", userID,
			"code", reason.Code,
			"ids", reason.IDs,
		)
	}
}

// dedupeIDs drops duplicate ids preserving first-seen order.
func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func setToIDs(set map[uuid.UUID]struct{}) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return sortedIDs(out)
}

// sortedIDs orders ids lexicographically so verdicts are deterministic and
// audit logs are diffable.
func sortedIDs(ids []uuid.UUID) []uuid.UUID {
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return ids
}
