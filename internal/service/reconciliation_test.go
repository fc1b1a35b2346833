package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/seyilawal/easyremit/internal/session"
)

func TestReconciliationRun(t *testing.T) {
	tc := setupTestCore(t)
	ctx := context.Background()
	reconcile := NewReconciliationService(tc.store, zap.NewNop())

	accountA := tc.newTestAccount(t, "rec-a", "01/02/1994")
	accountB := tc.newTestAccount(t, "rec-b", "15/06/2001")

	sess := session.NewContext()
	sess.SetCurrentAccount(accountA)
	tc.engine.Stage(sess, accountB, 200)
	_, err := tc.engine.Commit(ctx, sess)
	require.NoError(t, err)

	// grant + flows matches both balances
	imbalances, err := reconcile.Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, imbalances)

	// skew one balance behind the ledger's back
	_, err = tc.pool.Exec(ctx,
		"UPDATE accounts SET balance = balance + 77 WHERE id = $1", accountB)
	require.NoError(t, err)

	imbalances, err = reconcile.Run(ctx)
	require.NoError(t, err)
	require.Len(t, imbalances, 1)
	assert.Equal(t, accountB, imbalances[0].AccountID)
	assert.Equal(t, imbalances[0].Expected+77, imbalances[0].Balance)
}
