package claims

import (
	"time"

	"github.com/google/uuid"
)

// MasterClaimBrand is the claims-domain brand entity, distinct from a
// tenant's operational brand. An unlinked master brand (TenantBrandID nil)
// is manageable only by a platform administrator, never by a brand-scoped
// admin; the permission resolver treats it as an unconditional denial.
type MasterClaimBrand struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	TenantBrandID *uuid.UUID `json:"tenant_brand_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Product belongs to exactly one master claim brand. Products without the
// link are excluded from all claims workflows.
type Product struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	MasterBrandID *uuid.UUID `json:"master_brand_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Ingredient is an independent entity linked to products through a
// many-to-many join.
type Ingredient struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// RoleAdmin is the only brand permission role that grants claim-management
// rights.
const RoleAdmin = "admin"

// BrandPermission grants a user a role against a tenant brand.
type BrandPermission struct {
	UserID  uuid.UUID `json:"user_id"`
	BrandID uuid.UUID `json:"brand_id"`
	Role    string    `json:"role"`
}
