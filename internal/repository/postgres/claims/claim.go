package claims

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"mixerai/internal/domain"
	models "mixerai/internal/domain/models/claims"
	"mixerai/internal/domain/repositories"
	"mixerai/internal/repository/postgres"
)

// PostgresClaimRepository implements the ClaimRepository interface
type PostgresClaimRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewClaimRepository creates a new claim repository
func NewClaimRepository(config *postgres.RepositoryConfig) repositories.ClaimRepository {
	return &PostgresClaimRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// FetchClaims returns claims at the given level owned by any of ownerIDs,
// optionally narrowed to one market (plus global rows). One query per call.
func (r *PostgresClaimRepository) FetchClaims(ctx context.Context, level models.ClaimLevel, ownerIDs []uuid.UUID, country models.Country) ([]models.Claim, error) {
	if len(ownerIDs) == 0 {
		return nil, fmt.Errorf("owner ids must be non-empty: %w", domain.ErrValidation)
	}
	if !level.Valid() {
		return nil, fmt.Errorf("unknown claim level %q: %w", level, domain.ErrValidation)
	}

	ownerColumn, err := ownerColumnForLevel(level)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, text, claim_type, level, country_code,
		       master_brand_id, product_id, ingredient_id, created_at
		FROM %s
		WHERE level = $1 AND %s = ANY($2)
	`, r.tables.Claims, ownerColumn)

	args := []interface{}{string(level), ownerIDs}
	if !country.IsAllMarkets() {
		// A market query is also served by global rows; the precedence
		// resolver decides which of the two wins per text.
		codes := []string{country.Code()}
		if !country.IsGlobal() {
			codes = append(codes, models.GlobalCountryCode)
		}
		query += ` AND country_code = ANY($3)`
		args = append(args, codes)
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, readError("fetch "+string(level)+" claims", err)
	}
	defer rows.Close()

	var result []models.Claim
	for rows.Next() {
		var claim models.Claim
		var countryCode string
		err := rows.Scan(
			&claim.ID,
			&claim.Text,
			&claim.Type,
			&claim.Level,
			&countryCode,
			&claim.MasterBrandID,
			&claim.ProductID,
			&claim.IngredientID,
			&claim.CreatedAt,
		)
		if err != nil {
			return nil, readError("scan claim", err)
		}
		claim.Country = models.CountryFromCode(countryCode)
		result = append(result, claim)
	}

	if err := rows.Err(); err != nil {
		return nil, readError("iterate claims", err)
	}

	if result == nil {
		result = []models.Claim{}
	}

	return result, nil
}

func ownerColumnForLevel(level models.ClaimLevel) (string, error) {
	switch level {
	case models.LevelBrand:
		return "master_brand_id", nil
	case models.LevelProduct:
		return "product_id", nil
	case models.LevelIngredient:
		return "ingredient_id", nil
	default:
		return "", fmt.Errorf("unknown claim level %q: %w", level, domain.ErrValidation)
	}
}

// readError wraps store failures in DataUnavailableError while letting
// cancellation through untouched, so callers can tell "aborted" from "broken".
func readError(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if postgres.IsUndefinedTable(err) {
		return &domain.DataUnavailableError{
			Op:  op + " (schema missing for this environment, run the seed tool)",
			Err: err,
		}
	}
	return &domain.DataUnavailableError{Op: op, Err: err}
}
