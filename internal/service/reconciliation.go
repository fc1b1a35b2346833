package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/seyilawal/easyremit/internal/observability"
	"github.com/seyilawal/easyremit/internal/store"
)

// ReconciliationService verifies ledger integrity: every account's balance
// must equal the sum of its receipts (the genesis grant included) minus the
// sum of its sends. The grant sentinel has no account row and acts as an
// unbounded external source, so it is never itself reconciled.
type ReconciliationService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewReconciliationService creates a reconciliation service.
func NewReconciliationService(st *store.Store, logger *zap.Logger) *ReconciliationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconciliationService{store: st, logger: logger}
}

// Imbalance reports one account whose balance diverged from its ledger flows.
type Imbalance struct {
	AccountID string
	Balance   int64
	Expected  int64
}

// Run checks the reconciliation invariant for every account and returns the
// accounts that violate it. An empty slice means the ledger is consistent.
func (s *ReconciliationService) Run(ctx context.Context) ([]Imbalance, error) {
	var imbalances []Imbalance
	err := s.store.WithRetry(ctx, func(ctx context.Context) error {
		rows, err := s.store.Pool().Query(ctx, `
			SELECT a.id, a.balance,
				COALESCE((SELECT SUM(t.amount) FROM transaction_history t WHERE t.receiver_id = a.id), 0)
				- COALESCE((SELECT SUM(t.amount) FROM transaction_history t WHERE t.sender_id = a.id), 0) AS expected
			FROM accounts a`)
		if err != nil {
			return fmt.Errorf("run reconciliation query: %w", err)
		}
		defer rows.Close()

		imbalances = imbalances[:0]
		for rows.Next() {
			var row Imbalance
			if err := rows.Scan(&row.AccountID, &row.Balance, &row.Expected); err != nil {
				return fmt.Errorf("scan reconciliation row: %w", err)
			}
			if row.Balance != row.Expected {
				imbalances = append(imbalances, row)
			}
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("read reconciliation rows: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(imbalances) > 0 {
		for _, im := range imbalances {
			observability.IncrementLedgerImbalance()
			s.logger.Error("CRITICAL: ledger imbalance detected",
				zap.String("account_id", im.AccountID),
				zap.Int64("balance", im.Balance),
				zap.Int64("expected", im.Expected))
		}
		return imbalances, nil
	}

	s.logger.Info("ledger balanced")
	return nil, nil
}
