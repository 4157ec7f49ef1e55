package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Коды из https://www.postgresql.org/docs/current/errcodes-appendix.html
const PgErrUniqueViolation = "23505"

// IsUniqueViolation распознает нарушение уникального индекса, например
// гонку по reference или booking_ref при повторной вставке.
func IsUniqueViolation(err error) bool {
	return IsPgErrorWithCode(err, PgErrUniqueViolation)
}

func IsPgErrorWithCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}
