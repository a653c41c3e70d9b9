// Package store provides the persistence layer for the permit registry:
// permits, reference data, version snapshots, duplicate pairs, and import
// batches over a pgx connection.
package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sells-group/permit-registry/internal/db"
)

// Store exposes repository functions over a Querier, so the same code runs
// on the pool, inside a transaction, or against a mock in tests.
type Store struct {
	q db.Querier
}

// New creates a Store bound to the given query surface.
func New(q db.Querier) *Store {
	return &Store{q: q}
}

// IsUniqueViolation reports whether the error is a PostgreSQL unique
// constraint violation (SQLSTATE 23505). Concurrent ingestion of the same
// canonical key races at the database; the loser surfaces here.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
