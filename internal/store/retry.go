package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/seyilawal/easyremit/internal/observability"
)

// RetryDelay is the base backoff between retry attempts; attempt n sleeps
// for n times this duration.
type RetryDelay = time.Duration

// ErrBusy is returned when an operation kept hitting transient lock
// contention until the attempt budget ran out.
var ErrBusy = errors.New("store busy")

// Postgres error codes treated as transient contention.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

// WithRetry executes op, retrying transient busy/locked conditions with a
// linearly increasing backoff. Non-busy failures return immediately; an
// exhausted budget surfaces the last transient error wrapped in ErrBusy.
func (s *Store) WithRetry(ctx context.Context, op func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if !isBusy(err) {
			return err
		}
		lastErr = err
		observability.IncrementStoreRetry()

		if attempt == s.maxAttempts {
			break
		}
		select {
		case <-time.After(time.Duration(attempt) * s.retryBase):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("%w: %v", ErrBusy, lastErr)
}

func isBusy(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
		return true
	}
	return false
}
