package seed

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	models "mixerai/internal/domain/models/claims"
)

// Fixtures is the YAML shape the seed tool loads. Ids are optional on
// entities; missing ones are generated so fixture files can stay terse while
// cross-references (by name) still resolve.
type Fixtures struct {
	MasterClaimBrands []BrandFixture      `yaml:"master_claim_brands"`
	Products          []ProductFixture    `yaml:"products"`
	Ingredients       []IngredientFixture `yaml:"ingredients"`
	Permissions       []PermissionFixture `yaml:"brand_permissions"`
	Claims            []ClaimFixture      `yaml:"claims"`
}

type BrandFixture struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name"`
	TenantBrandID string `yaml:"tenant_brand_id"`
}

type ProductFixture struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	MasterBrand string   `yaml:"master_brand"` // brand fixture name; empty = unlinked
	Ingredients []string `yaml:"ingredients"`  // ingredient fixture names
}

type IngredientFixture struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type PermissionFixture struct {
	UserID        string `yaml:"user_id"`
	TenantBrandID string `yaml:"tenant_brand_id"`
	Role          string `yaml:"role"`
}

type ClaimFixture struct {
	Text    string `yaml:"text"`
	Type    string `yaml:"type"`
	Level   string `yaml:"level"`
	Country string `yaml:"country"` // "global" or a market code
	Owner   string `yaml:"owner"`   // fixture name of the brand/product/ingredient
}

// LoadFixtures parses and validates a fixtures YAML file.
func LoadFixtures(path string) (*Fixtures, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}

	var fixtures Fixtures
	if err := yaml.Unmarshal(raw, &fixtures); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}

	if err := fixtures.validate(); err != nil {
		return nil, err
	}

	return &fixtures, nil
}

func (f *Fixtures) validate() error {
	brandNames := make(map[string]struct{}, len(f.MasterClaimBrands))
	for _, brand := range f.MasterClaimBrands {
		if brand.Name == "" {
			return fmt.Errorf("master claim brand missing name")
		}
		if _, dup := brandNames[brand.Name]; dup {
			return fmt.Errorf("duplicate master claim brand %q", brand.Name)
		}
		brandNames[brand.Name] = struct{}{}
	}

	ingredientNames := make(map[string]struct{}, len(f.Ingredients))
	for _, ingredient := range f.Ingredients {
		if ingredient.Name == "" {
			return fmt.Errorf("ingredient missing name")
		}
		ingredientNames[ingredient.Name] = struct{}{}
	}

	productNames := make(map[string]struct{}, len(f.Products))
	for _, product := range f.Products {
		if product.Name == "" {
			return fmt.Errorf("product missing name")
		}
		if _, dup := productNames[product.Name]; dup {
			return fmt.Errorf("duplicate product %q", product.Name)
		}
		productNames[product.Name] = struct{}{}
		if product.MasterBrand != "" {
			if _, ok := brandNames[product.MasterBrand]; !ok {
				return fmt.Errorf("product %q references unknown master brand %q", product.Name, product.MasterBrand)
			}
		}
		for _, ingredient := range product.Ingredients {
			if _, ok := ingredientNames[ingredient]; !ok {
				return fmt.Errorf("product %q references unknown ingredient %q", product.Name, ingredient)
			}
		}
	}

	ownerNames := map[models.ClaimLevel]map[string]struct{}{
		models.LevelBrand:      brandNames,
		models.LevelProduct:    productNames,
		models.LevelIngredient: ingredientNames,
	}
	for i, claim := range f.Claims {
		if claim.Text == "" {
			return fmt.Errorf("claim %d missing text", i)
		}
		if !models.ClaimType(claim.Type).Valid() {
			return fmt.Errorf("claim %q has unknown type %q", claim.Text, claim.Type)
		}
		level := models.ClaimLevel(claim.Level)
		if !level.Valid() {
			return fmt.Errorf("claim %q has unknown level %q", claim.Text, claim.Level)
		}
		if claim.Country == "" {
			return fmt.Errorf("claim %q missing country", claim.Text)
		}
		if _, ok := ownerNames[level][claim.Owner]; !ok {
			return fmt.Errorf("claim %q references unknown %s owner %q", claim.Text, level, claim.Owner)
		}
	}

	for _, permission := range f.Permissions {
		if _, err := uuid.Parse(permission.UserID); err != nil {
			return fmt.Errorf("brand permission has invalid user id %q", permission.UserID)
		}
		if _, err := uuid.Parse(permission.TenantBrandID); err != nil {
			return fmt.Errorf("brand permission has invalid tenant brand id %q", permission.TenantBrandID)
		}
		if permission.Role == "" {
			return fmt.Errorf("brand permission for user %s missing role", permission.UserID)
		}
	}

	return nil
}

// CountryCode maps the fixture country spelling to the stored column value.
func (c ClaimFixture) CountryCode() string {
	if c.Country == "global" {
		return models.GlobalCountryCode
	}
	return c.Country
}
