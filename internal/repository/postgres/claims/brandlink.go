package claims

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"mixerai/internal/domain"
	models "mixerai/internal/domain/models/claims"
	"mixerai/internal/domain/repositories"
	"mixerai/internal/repository/postgres"
)

// PostgresBrandLinkRepository implements the BrandLinkRepository interface
type PostgresBrandLinkRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewBrandLinkRepository creates a new brand link repository
func NewBrandLinkRepository(config *postgres.RepositoryConfig) repositories.BrandLinkRepository {
	return &PostgresBrandLinkRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// GetProducts returns the products matching ids; unknown ids are absent
func (r *PostgresBrandLinkRepository) GetProducts(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("product ids must be non-empty: %w", domain.ErrValidation)
	}

	query := fmt.Sprintf(`
		SELECT id, name, master_brand_id, created_at
		FROM %s
		WHERE id = ANY($1)
	`, r.tables.Products)

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, readError("fetch products", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var product models.Product
		if err := rows.Scan(&product.ID, &product.Name, &product.MasterBrandID, &product.CreatedAt); err != nil {
			return nil, readError("scan product", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, readError("iterate products", err)
	}

	if products == nil {
		products = []models.Product{}
	}

	return products, nil
}

// GetMasterBrands returns the master claim brands matching ids
func (r *PostgresBrandLinkRepository) GetMasterBrands(ctx context.Context, ids []uuid.UUID) ([]models.MasterClaimBrand, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("master brand ids must be non-empty: %w", domain.ErrValidation)
	}

	query := fmt.Sprintf(`
		SELECT id, name, tenant_brand_id, created_at
		FROM %s
		WHERE id = ANY($1)
	`, r.tables.MasterClaimBrands)

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, readError("fetch master brands", err)
	}
	defer rows.Close()

	var brands []models.MasterClaimBrand
	for rows.Next() {
		var brand models.MasterClaimBrand
		if err := rows.Scan(&brand.ID, &brand.Name, &brand.TenantBrandID, &brand.CreatedAt); err != nil {
			return nil, readError("scan master brand", err)
		}
		brands = append(brands, brand)
	}

	if err := rows.Err(); err != nil {
		return nil, readError("iterate master brands", err)
	}

	if brands == nil {
		brands = []models.MasterClaimBrand{}
	}

	return brands, nil
}

// GetIngredientIDs returns the ingredient ids linked to each product through
// the join table. Products with no ingredients are absent from the map.
func (r *PostgresBrandLinkRepository) GetIngredientIDs(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	if len(productIDs) == 0 {
		return nil, fmt.Errorf("product ids must be non-empty: %w", domain.ErrValidation)
	}

	query := fmt.Sprintf(`
		SELECT product_id, ingredient_id
		FROM %s
		WHERE product_id = ANY($1)
	`, r.tables.ProductIngredients)

	rows, err := r.pool.Query(ctx, query, productIDs)
	if err != nil {
		return nil, readError("fetch product ingredients", err)
	}
	defer rows.Close()

	links := make(map[uuid.UUID][]uuid.UUID)
	for rows.Next() {
		var productID, ingredientID uuid.UUID
		if err := rows.Scan(&productID, &ingredientID); err != nil {
			return nil, readError("scan product ingredient", err)
		}
		links[productID] = append(links[productID], ingredientID)
	}

	if err := rows.Err(); err != nil {
		return nil, readError("iterate product ingredients", err)
	}

	return links, nil
}

// GetAdminBrandIDs returns the subset of tenantBrandIDs the user holds an
// admin-role permission against, in one batched query.
func (r *PostgresBrandLinkRepository) GetAdminBrandIDs(ctx context.Context, userID uuid.UUID, tenantBrandIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(tenantBrandIDs) == 0 {
		return nil, fmt.Errorf("tenant brand ids must be non-empty: %w", domain.ErrValidation)
	}

	query := fmt.Sprintf(`
		SELECT brand_id
		FROM %s
		WHERE user_id = $1 AND role = $2 AND brand_id = ANY($3)
	`, r.tables.BrandPermissions)

	rows, err := r.pool.Query(ctx, query, userID, models.RoleAdmin, tenantBrandIDs)
	if err != nil {
		return nil, readError("fetch brand permissions", err)
	}
	defer rows.Close()

	var brandIDs []uuid.UUID
	for rows.Next() {
		var brandID uuid.UUID
		if err := rows.Scan(&brandID); err != nil {
			return nil, readError("scan brand permission", err)
		}
		brandIDs = append(brandIDs, brandID)
	}

	if err := rows.Err(); err != nil {
		return nil, readError("iterate brand permissions", err)
	}

	if brandIDs == nil {
		brandIDs = []uuid.UUID{}
	}

	return brandIDs, nil
}
