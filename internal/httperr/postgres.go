package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	sqlStateUniqueViolation    = "23505"
	sqlStateExclusionViolation = "23P01"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsExclusionConflict reports an EXCLUDE constraint hit, i.e. two active
// sessions of the same practitioner overlapping.
func IsExclusionConflict(err error) bool {
	return pgCode(err) == sqlStateExclusionViolation
}

func IsUniqueViolation(err error) bool {
	return pgCode(err) == sqlStateUniqueViolation
}
