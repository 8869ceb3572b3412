package claims

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// ClaimType classifies the regulatory weight of a claim.
type ClaimType string

const (
	TypeMandatory   ClaimType = "mandatory"
	TypeAllowed     ClaimType = "allowed"
	TypeDisallowed  ClaimType = "disallowed"
	TypeConditional ClaimType = "conditional"
)

// Valid reports whether the type is one of the known values.
func (t ClaimType) Valid() bool {
	switch t {
	case TypeMandatory, TypeAllowed, TypeDisallowed, TypeConditional:
		return true
	}
	return false
}

// ClaimLevel identifies which entity a claim is attached to.
type ClaimLevel string

const (
	LevelBrand      ClaimLevel = "brand"
	LevelProduct    ClaimLevel = "product"
	LevelIngredient ClaimLevel = "ingredient"
)

// Valid reports whether the level is one of the known values.
func (l ClaimLevel) Valid() bool {
	switch l {
	case LevelBrand, LevelProduct, LevelIngredient:
		return true
	}
	return false
}

// Claim is a regulatory statement attached to a brand, product or ingredient,
// scoped to one market or to the global sentinel. Claims are authored through
// the platform's CRUD surface and are read-only to this engine.
type Claim struct {
	ID      uuid.UUID  `json:"id"`
	Text    string     `json:"text"`
	Type    ClaimType  `json:"type"`
	Level   ClaimLevel `json:"level"`
	Country Country    `json:"country_code"`

	// Exactly one owner reference is set, matching Level.
	MasterBrandID *uuid.UUID `json:"master_brand_id,omitempty"`
	ProductID     *uuid.UUID `json:"product_id,omitempty"`
	IngredientID  *uuid.UUID `json:"ingredient_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// OwnerID returns the owner reference matching the claim's level.
func (c *Claim) OwnerID() (uuid.UUID, bool) {
	switch c.Level {
	case LevelBrand:
		if c.MasterBrandID != nil {
			return *c.MasterBrandID, true
		}
	case LevelProduct:
		if c.ProductID != nil {
			return *c.ProductID, true
		}
	case LevelIngredient:
		if c.IngredientID != nil {
			return *c.IngredientID, true
		}
	}
	return uuid.Nil, false
}

// Validate enforces the level/owner consistency invariant: the owner field
// matching Level must be set and the other two must be nil, the type and
// level must be known values, and the country must be concrete (claim rows
// never carry the "no filter" zero value).
func (c *Claim) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Text, validation.Required),
		validation.Field(&c.Type, validation.By(validClaimType)),
		validation.Field(&c.Level, validation.By(validClaimLevel)),
	); err != nil {
		return err
	}

	if c.Country.IsAllMarkets() {
		return validation.NewError("claim_country", "claim country must be a market code or the global sentinel")
	}

	owners := 0
	for _, ref := range []*uuid.UUID{c.MasterBrandID, c.ProductID, c.IngredientID} {
		if ref != nil {
			owners++
		}
	}
	if owners != 1 {
		return validation.NewError("claim_owner", "exactly one owner reference must be set")
	}
	if _, ok := c.OwnerID(); !ok {
		return validation.NewError("claim_owner", "owner reference does not match claim level")
	}
	return nil
}

func validClaimType(value interface{}) error {
	t, _ := value.(ClaimType)
	if !t.Valid() {
		return validation.NewError("claim_type", "unknown claim type")
	}
	return nil
}

func validClaimLevel(value interface{}) error {
	l, _ := value.(ClaimLevel)
	if !l.Valid() {
		return validation.NewError("claim_level", "unknown claim level")
	}
	return nil
}
