package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Claims             string
	Products           string
	MasterClaimBrands  string
	Ingredients        string
	ProductIngredients string
	BrandPermissions   string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Claims:             fmt.Sprintf("%sclaims", prefix),
		Products:           fmt.Sprintf("%sproducts", prefix),
		MasterClaimBrands:  fmt.Sprintf("%smaster_claim_brands", prefix),
		Ingredients:        fmt.Sprintf("%singredients", prefix),
		ProductIngredients: fmt.Sprintf("%sproduct_ingredients", prefix),
		BrandPermissions:   fmt.Sprintf("%sbrand_permissions", prefix),
	}
}

// CreateConnectionPool creates a new pgx connection pool with automatic PgBouncer compatibility.
//
// By default, pgx uses prepared statements (QueryExecModeCacheStatement). PgBouncer in
// transaction pooling mode (port 6543 on Supabase) does NOT support prepared statements,
// causing "prepared statement already exists" errors. If port 6543 is detected, the pool
// switches to QueryExecModeCacheDescribe, which uses the extended protocol but caches
// statement descriptions instead of prepared statements. An explicit
// ?default_query_exec_mode=... parameter in the connection string takes precedence.
//
// Note on dynamic table names: fmt.Sprintf for the environment prefix (dev_, test_, prod_)
// is safe because the SQL string is interpolated before being sent to the database; all
// values still go through bind parameters.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	// Port 6543 is Supabase's transaction pooler
	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}
