package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/seyilawal/easyremit/internal/db"
	"github.com/seyilawal/easyremit/internal/ident"
	"github.com/seyilawal/easyremit/internal/repository"
	"github.com/seyilawal/easyremit/internal/store"
)

func init() {
	_ = godotenv.Load("../../.env") // Load from root
}

var (
	testKey = []byte("mysecretkey12345")
	testIV  = []byte("uniqueiv12345678")
)

type testCore struct {
	pool     *pgxpool.Pool
	store    *store.Store
	accounts *repository.AccountRepository
	engine   *TransferEngine
}

// setupTestCore connects to the local Postgres instance, applies migrations,
// truncates the core tables and wires a full ledger core.
func setupTestCore(t *testing.T) *testCore {
	t.Helper()

	connString := os.Getenv("DATABASE_URL")
	if connString == "" {
		t.Skip("Skipping integration test: DATABASE_URL not set")
	}
	ctx := context.Background()

	require.NoError(t, db.Migrate(ctx, connString))

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, "TRUNCATE TABLE transaction_history, accounts")
	require.NoError(t, err)

	st := store.New(pool, 5, 10*time.Millisecond)
	accounts := repository.NewAccountRepository(st, ident.NewGenerator(10), testKey, testIV, 500, zap.NewNop())
	return &testCore{
		pool:     pool,
		store:    st,
		accounts: accounts,
		engine:   NewTransferEngine(st, zap.NewNop()),
	}
}

// newTestAccount signs up an account with the default 500 grant.
func (tc *testCore) newTestAccount(t *testing.T, name, birthDate string) string {
	t.Helper()
	id, err := tc.accounts.CreateAccount(context.Background(), repository.NewAccountParams{
		Email:     name + "@example.com",
		Name:      name,
		Passport:  "AB123456",
		BirthDate: birthDate,
		Password:  "123456",
	})
	require.NoError(t, err)
	return id
}

func (tc *testCore) balance(t *testing.T, id string) int64 {
	t.Helper()
	balance, err := tc.accounts.GetBalance(context.Background(), id)
	require.NoError(t, err)
	return balance
}

func (tc *testCore) historyCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, tc.pool.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM transaction_history").Scan(&n))
	return n
}
