package implementation

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation = "23505"
	pgDeadlock        = "40P01"
	pgSerialization   = "40001"
)

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation. The provisioning engine uses this to turn a lost create race
// into an update.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// IsRetryableTxError reports deadlocks and serialization failures, which the
// processor-facing layer surfaces as transient.
func IsRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgDeadlock || pgErr.Code == pgSerialization
}
