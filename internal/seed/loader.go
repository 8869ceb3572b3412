package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	models "mixerai/internal/domain/models/claims"
	"mixerai/internal/repository/postgres"
)

// Loader inserts fixtures into the claims tables inside one transaction.
type Loader struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewLoader creates a new fixture loader
func NewLoader(pool *pgxpool.Pool, tables *postgres.TableNames, logger *slog.Logger) *Loader {
	return &Loader{pool: pool, tables: tables, logger: logger}
}

// Load inserts the fixtures. All-or-nothing: the transaction rolls back on
// the first failure so a half-seeded environment never exists.
func (l *Loader) Load(ctx context.Context, fixtures *Fixtures) error {
	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	brandIDs := make(map[string]uuid.UUID, len(fixtures.MasterClaimBrands))
	for _, brand := range fixtures.MasterClaimBrands {
		id, err := fixtureID(brand.ID)
		if err != nil {
			return fmt.Errorf("master brand %q: %w", brand.Name, err)
		}
		var tenantBrandID *uuid.UUID
		if brand.TenantBrandID != "" {
			parsed, err := uuid.Parse(brand.TenantBrandID)
			if err != nil {
				return fmt.Errorf("master brand %q tenant id: %w", brand.Name, err)
			}
			tenantBrandID = &parsed
		}
		brandIDs[brand.Name] = id

		query := fmt.Sprintf(`
			INSERT INTO %s (id, name, tenant_brand_id, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (name) DO UPDATE SET tenant_brand_id = EXCLUDED.tenant_brand_id
		`, l.tables.MasterClaimBrands)
		if _, err := tx.Exec(ctx, query, id, brand.Name, tenantBrandID, time.Now()); err != nil {
			if postgres.IsUniqueViolation(err) {
				return fmt.Errorf("insert master brand %q: fixture id %s already used by another row: %w",
					brand.Name, id, err)
			}
			return fmt.Errorf("insert master brand %q: %w", brand.Name, err)
		}
	}

	ingredientIDs := make(map[string]uuid.UUID, len(fixtures.Ingredients))
	for _, ingredient := range fixtures.Ingredients {
		id, err := fixtureID(ingredient.ID)
		if err != nil {
			return fmt.Errorf("ingredient %q: %w", ingredient.Name, err)
		}
		ingredientIDs[ingredient.Name] = id

		query := fmt.Sprintf(`
			INSERT INTO %s (id, name, created_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (name) DO NOTHING
		`, l.tables.Ingredients)
		if _, err := tx.Exec(ctx, query, id, ingredient.Name, time.Now()); err != nil {
			return fmt.Errorf("insert ingredient %q: %w", ingredient.Name, err)
		}
	}

	productIDs := make(map[string]uuid.UUID, len(fixtures.Products))
	for _, product := range fixtures.Products {
		id, err := fixtureID(product.ID)
		if err != nil {
			return fmt.Errorf("product %q: %w", product.Name, err)
		}
		productIDs[product.Name] = id

		var masterBrandID *uuid.UUID
		if product.MasterBrand != "" {
			brandID := brandIDs[product.MasterBrand]
			masterBrandID = &brandID
		}

		query := fmt.Sprintf(`
			INSERT INTO %s (id, name, master_brand_id, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (name) DO UPDATE SET master_brand_id = EXCLUDED.master_brand_id
		`, l.tables.Products)
		if _, err := tx.Exec(ctx, query, id, product.Name, masterBrandID, time.Now()); err != nil {
			return fmt.Errorf("insert product %q: %w", product.Name, err)
		}

		for _, ingredientName := range product.Ingredients {
			linkQuery := fmt.Sprintf(`
				INSERT INTO %s (product_id, ingredient_id)
				VALUES ($1, $2)
				ON CONFLICT DO NOTHING
			`, l.tables.ProductIngredients)
			if _, err := tx.Exec(ctx, linkQuery, id, ingredientIDs[ingredientName]); err != nil {
				return fmt.Errorf("link product %q to ingredient %q: %w", product.Name, ingredientName, err)
			}
		}
	}

	for _, permission := range fixtures.Permissions {
		query := fmt.Sprintf(`
			INSERT INTO %s (user_id, brand_id, role)
			VALUES ($1, $2, $3)
			ON CONFLICT DO NOTHING
		`, l.tables.BrandPermissions)
		if _, err := tx.Exec(ctx, query, permission.UserID, permission.TenantBrandID, permission.Role); err != nil {
			return fmt.Errorf("insert brand permission for %s: %w", permission.UserID, err)
		}
	}

	ownerIDs := map[models.ClaimLevel]map[string]uuid.UUID{
		models.LevelBrand:      brandIDs,
		models.LevelProduct:    productIDs,
		models.LevelIngredient: ingredientIDs,
	}
	for _, claim := range fixtures.Claims {
		level := models.ClaimLevel(claim.Level)
		ownerID := ownerIDs[level][claim.Owner]

		var masterBrandID, productID, ingredientID *uuid.UUID
		switch level {
		case models.LevelBrand:
			masterBrandID = &ownerID
		case models.LevelProduct:
			productID = &ownerID
		case models.LevelIngredient:
			ingredientID = &ownerID
		}

		query := fmt.Sprintf(`
			INSERT INTO %s (id, text, claim_type, level, country_code,
			                master_brand_id, product_id, ingredient_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, l.tables.Claims)
		_, err := tx.Exec(ctx, query,
			uuid.New(), claim.Text, claim.Type, claim.Level, claim.CountryCode(),
			masterBrandID, productID, ingredientID, time.Now(),
		)
		if err != nil {
			if postgres.IsForeignKeyViolation(err) {
				return fmt.Errorf("insert claim %q: owner %q (%s) not present in this environment: %w",
					claim.Text, claim.Owner, claim.Level, err)
			}
			return fmt.Errorf("insert claim %q: %w", claim.Text, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit seed transaction: %w", err)
	}

	l.logger.Info("fixtures loaded",
		"brands", len(fixtures.MasterClaimBrands),
		"products", len(fixtures.Products),
		"ingredients", len(fixtures.Ingredients),
		"permissions", len(fixtures.Permissions),
		"claims", len(fixtures.Claims),
	)
	return nil
}

// fixtureID parses an explicit fixture id or generates one.
func fixtureID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.New(), nil
	}
	return uuid.Parse(raw)
}
