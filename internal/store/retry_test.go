package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func busyErr() error {
	return &pgconn.PgError{Code: codeDeadlockDetected, Message: "deadlock detected"}
}

func TestWithRetryBusyThenSuccess(t *testing.T) {
	s := New(nil, 5, time.Millisecond)

	attempts := 0
	err := s.WithRetry(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return busyErr()
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithRetryNonBusyFailsImmediately(t *testing.T) {
	s := New(nil, 5, time.Millisecond)

	structural := errors.New("relation does not exist")
	attempts := 0
	err := s.WithRetry(context.Background(), func(ctx context.Context) error {
		attempts++
		return structural
	})
	assert.ErrorIs(t, err, structural)
	assert.NotErrorIs(t, err, ErrBusy)
	assert.Equal(t, 1, attempts)
}

// Reads route through WithRetry too, so a no-rows result must surface on the
// first attempt without being treated as transient.
func TestWithRetryPassesThroughNoRows(t *testing.T) {
	s := New(nil, 5, time.Millisecond)

	attempts := 0
	err := s.WithRetry(context.Background(), func(ctx context.Context) error {
		attempts++
		return pgx.ErrNoRows
	})
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	assert.Equal(t, 1, attempts)
}

func TestWithRetryExhaustionSurfacesErrBusy(t *testing.T) {
	s := New(nil, 3, time.Millisecond)

	attempts := 0
	err := s.WithRetry(context.Background(), func(ctx context.Context) error {
		attempts++
		return busyErr()
	})
	assert.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, 3, attempts)
}

func TestWithRetryLinearBackoff(t *testing.T) {
	base := 10 * time.Millisecond
	s := New(nil, 3, base)

	start := time.Now()
	_ = s.WithRetry(context.Background(), func(ctx context.Context) error {
		return busyErr()
	})
	// Two sleeps between three attempts: base*1 + base*2.
	assert.GreaterOrEqual(t, time.Since(start), 3*base)
}

func TestWithRetryContextCancelAbortsBackoff(t *testing.T) {
	s := New(nil, 10, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.WithRetry(ctx, func(ctx context.Context) error {
			return busyErr()
		})
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("WithRetry did not honor context cancellation")
	}
}

func TestIsBusyClassification(t *testing.T) {
	assert.True(t, isBusy(&pgconn.PgError{Code: codeSerializationFailure}))
	assert.True(t, isBusy(&pgconn.PgError{Code: codeDeadlockDetected}))
	assert.True(t, isBusy(&pgconn.PgError{Code: codeLockNotAvailable}))
	assert.False(t, isBusy(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isBusy(errors.New("plain error")))
	assert.False(t, isBusy(nil))
}
