package claims

import (
	"github.com/google/uuid"
)

// ReasonCode identifies which stage of the product→master-brand→tenant-brand
// chain a permission check failed at.
type ReasonCode string

const (
	// ReasonProductsNotFound: requested product ids that do not exist.
	// Unknown ids are reported, never silently ignored, so callers cannot
	// be probed for products by omission.
	ReasonProductsNotFound ReasonCode = "products_not_found"

	// ReasonProductsMissingBrandLink: products with no master brand link.
	ReasonProductsMissingBrandLink ReasonCode = "products_missing_brand_link"

	// ReasonBrandsMissingTenantMapping: master brands with no tenant brand.
	// These fail the whole check for brand-scoped admins; a platform-admin
	// override is a caller policy decision, not made here.
	ReasonBrandsMissingTenantMapping ReasonCode = "brands_missing_tenant_mapping"

	// ReasonInsufficientBrandPermissions: tenant brands the user holds no
	// admin role against.
	ReasonInsufficientBrandPermissions ReasonCode = "insufficient_brand_permissions"
)

// Reason is one structured, auditable denial detail.
type Reason struct {
	Code    ReasonCode  `json:"code"`
	IDs     []uuid.UUID `json:"ids"`
	Message string      `json:"message"`
}

// PermissionVerdict is the outcome of a product claims permission check.
// Denials are values, not errors: they carry enough detail for an audit log
// and are only produced when every repository read succeeded.
type PermissionVerdict struct {
	Granted bool     `json:"granted"`
	Reasons []Reason `json:"reasons"`
}

// Denied builds a not-granted verdict from the given reasons.
func Denied(reasons ...Reason) PermissionVerdict {
	return PermissionVerdict{Granted: false, Reasons: reasons}
}

// Granted is the success verdict.
func GrantedVerdict() PermissionVerdict {
	return PermissionVerdict{Granted: true, Reasons: []Reason{}}
}
