package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"mixerai/internal/repository/postgres"
)

// CreateSchema creates the claims tables for the current environment prefix.
// Idempotent: existing tables are left alone.
func CreateSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				name TEXT NOT NULL UNIQUE,
				tenant_brand_id UUID,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`, tables.MasterClaimBrands),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				name TEXT NOT NULL UNIQUE,
				master_brand_id UUID REFERENCES %s(id),
				created_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`, tables.Products, tables.MasterClaimBrands),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				name TEXT NOT NULL UNIQUE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`, tables.Ingredients),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				product_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				ingredient_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				PRIMARY KEY (product_id, ingredient_id)
			)`, tables.ProductIngredients, tables.Products, tables.Ingredients),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				user_id UUID NOT NULL,
				brand_id UUID NOT NULL,
				role TEXT NOT NULL,
				PRIMARY KEY (user_id, brand_id, role)
			)`, tables.BrandPermissions),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				text TEXT NOT NULL,
				claim_type TEXT NOT NULL,
				level TEXT NOT NULL,
				country_code TEXT NOT NULL,
				master_brand_id UUID REFERENCES %s(id) ON DELETE CASCADE,
				product_id UUID REFERENCES %s(id) ON DELETE CASCADE,
				ingredient_id UUID REFERENCES %s(id) ON DELETE CASCADE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
				CHECK (num_nonnulls(master_brand_id, product_id, ingredient_id) = 1)
			)`, tables.Claims, tables.MasterClaimBrands, tables.Products, tables.Ingredients),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_level_owner ON %s (level, master_brand_id, product_id, ingredient_id)`,
			tables.Claims, tables.Claims),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_country ON %s (country_code)`,
			tables.Claims, tables.Claims),
	}

	for _, statement := range statements {
		if _, err := pool.Exec(ctx, statement); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// DropTables removes the claims tables for the current prefix. Destructive;
// the seed tool guards against running it in prod.
func DropTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	drops := []string{
		tables.Claims,
		tables.ProductIngredients,
		tables.BrandPermissions,
		tables.Products,
		tables.Ingredients,
		tables.MasterClaimBrands,
	}
	for _, table := range drops {
		if _, err := pool.Exec(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s CASCADE`, table)); err != nil {
			return fmt.Errorf("drop table %s: %w", table, err)
		}
	}
	return nil
}
