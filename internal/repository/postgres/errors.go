package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the claims engine distinguishes.
const (
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
	codeUndefinedTable      = "42P01"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsForeignKeyViolation reports whether err is a foreign key violation,
// typically a fixture row referencing an entity that was never inserted.
func IsForeignKeyViolation(err error) bool {
	return pgCode(err) == codeForeignKeyViolation
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// IsUndefinedTable reports whether err means a relation does not exist.
// With env-prefixed table names this is almost always an environment whose
// schema was never created, which deserves a pointed message.
func IsUndefinedTable(err error) bool {
	return pgCode(err) == codeUndefinedTable
}
