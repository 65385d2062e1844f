package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation código SQLSTATE de clave duplicada.
const uniqueViolation = "23505"

// isUniqueViolation indica si err (o alguno que envuelva) es un *pgconn.PgError
// de clave duplicada.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
