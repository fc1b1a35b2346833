package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides transaction scoping and transient-failure retry around a
// pgx connection pool. It is the single synchronization point of the core:
// conflicting writers are serialized by the database's own row locking, not
// by application-level locks.
type Store struct {
	db          *pgxpool.Pool
	maxAttempts int
	retryBase   RetryDelay
}

// New creates a store wrapper around a pgx connection pool. maxAttempts and
// retryBase bound the busy-retry policy of WithRetry.
func New(db *pgxpool.Pool, maxAttempts int, retryBase RetryDelay) *Store {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Store{db: db, maxAttempts: maxAttempts, retryBase: retryBase}
}

// Pool returns the underlying connection pool for plain queries.
func (s *Store) Pool() *pgxpool.Pool {
	return s.db
}

// RunInTx executes fn within a database transaction. The transaction is
// rolled back if fn returns an error.
func (s *Store) RunInTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
