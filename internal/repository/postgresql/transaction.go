package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5/pgconn"
)

// GetQuerier returns either transaction or pool
// Used in repositories to support both transactional and non-transactional operations
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := database.TxFromContext(ctx); ok {
		return tx
	}
	return db.Pool
}

// lockKey takes a transaction-scoped advisory lock on key. It must run inside
// WithinTx; the lock is released on commit or rollback.
func lockKey(ctx context.Context, db *database.DB, key string) error {
	if _, ok := database.TxFromContext(ctx); !ok {
		return fmt.Errorf("advisory lock %q requires a transaction", key)
	}
	q := GetQuerier(ctx, db)
	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("failed to lock %q: %w", key, err)
	}
	return nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" && (constraint == "" || pgErr.ConstraintName == constraint)
}
