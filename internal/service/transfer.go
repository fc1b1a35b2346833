package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/seyilawal/easyremit/internal/domain"
	"github.com/seyilawal/easyremit/internal/models"
	"github.com/seyilawal/easyremit/internal/observability"
	"github.com/seyilawal/easyremit/internal/session"
	"github.com/seyilawal/easyremit/internal/store"
)

// TransferEngine validates and executes money movements between two
// accounts. The ledger insert and both balance updates run in one database
// transaction, so a failure at any sub-step leaves no partial state behind.
type TransferEngine struct {
	store  *store.Store
	logger *zap.Logger
}

// NewTransferEngine creates a transfer engine.
func NewTransferEngine(st *store.Store, logger *zap.Logger) *TransferEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransferEngine{store: st, logger: logger}
}

// TransferResult describes a committed transfer.
type TransferResult struct {
	TransactionID uuid.UUID
	SenderID      string
	ReceiverID    string
	Amount        int64
	SenderBalance int64
}

// DisplayAmount renders the transferred amount for presentation.
func (r TransferResult) DisplayAmount() string {
	return domain.NewMoney(r.Amount).String()
}

// Stage records a (receiver, amount) pair in the session context for a later
// Commit. It performs no validation and no I/O.
func (e *TransferEngine) Stage(sess *session.Context, receiverID string, amount int64) {
	sess.StageTransfer(receiverID, amount)
}

// Commit executes the staged transfer for the session's authenticated
// account. Validation rejections (ErrNothingStaged, ErrSelfTransfer,
// ErrInvalidAmount, ErrUnknownReceiver, ErrInsufficientFunds) leave all
// stored state untouched and keep the stage intact so the caller can fix and
// restage. On success the stage is cleared before returning, so re-invoking
// Commit cannot double-spend; ErrTransferFailed means ledger state is
// indeterminate and must be re-queried.
func (e *TransferEngine) Commit(ctx context.Context, sess *session.Context) (TransferResult, error) {
	senderID, ok := sess.CurrentAccount()
	if !ok {
		observability.IncrementTransferOutcome(domain.OutcomeNothingStaged)
		return TransferResult{}, models.ErrNothingStaged
	}
	pending, ok := sess.Pending()
	if !ok {
		observability.IncrementTransferOutcome(domain.OutcomeNothingStaged)
		return TransferResult{}, models.ErrNothingStaged
	}

	if pending.Amount <= 0 {
		observability.IncrementTransferOutcome(domain.OutcomeInvalidAmount)
		return TransferResult{}, models.ErrInvalidAmount
	}
	if pending.ReceiverID == senderID {
		observability.IncrementTransferOutcome(domain.OutcomeSelfTransfer)
		return TransferResult{}, models.ErrSelfTransfer
	}

	result, err := e.execute(ctx, senderID, pending.ReceiverID, pending.Amount)
	if err != nil {
		observability.IncrementTransferOutcome(outcomeFor(err))
		if isRejection(err) {
			return TransferResult{}, err
		}
		e.logger.Error("transfer commit failed",
			zap.String("sender_id", senderID),
			zap.String("receiver_id", pending.ReceiverID),
			zap.Int64("amount", pending.Amount),
			zap.Error(err))
		return TransferResult{}, fmt.Errorf("%w: %v", models.ErrTransferFailed, err)
	}

	sess.ClearPending()
	observability.IncrementTransferOutcome(domain.OutcomeCommitted)
	e.logger.Info("transfer committed",
		zap.String("transaction_id", result.TransactionID.String()),
		zap.String("sender_id", result.SenderID),
		zap.String("receiver_id", result.ReceiverID),
		zap.Int64("amount", result.Amount))
	return result, nil
}

func (e *TransferEngine) execute(ctx context.Context, senderID, receiverID string, amount int64) (TransferResult, error) {
	var result TransferResult
	err := e.store.WithRetry(ctx, func(ctx context.Context) error {
		return e.store.RunInTx(ctx, func(tx pgx.Tx) error {
			// Lock both rows in a consistent order to prevent deadlocks
			// between opposing transfers.
			first, second := senderID, receiverID
			if first > second {
				first, second = second, first
			}
			balances := map[string]int64{}
			for _, id := range []string{first, second} {
				var balance int64
				err := tx.QueryRow(ctx,
					`SELECT balance FROM accounts WHERE id = $1 FOR UPDATE`, id).Scan(&balance)
				if errors.Is(err, pgx.ErrNoRows) {
					if id == receiverID {
						return models.ErrUnknownReceiver
					}
					return fmt.Errorf("sender %s: %w", id, models.ErrAccountNotFound)
				}
				if err != nil {
					return fmt.Errorf("lock account %s: %w", id, err)
				}
				balances[id] = balance
			}

			// Balances above are the latest committed values; validating
			// against anything older risks a lost update.
			if balances[senderID] < amount {
				return models.ErrInsufficientFunds
			}

			transactionID := uuid.New()
			if _, err := tx.Exec(ctx, `
				INSERT INTO transaction_history (id, sender_id, amount, receiver_id)
				VALUES ($1, $2, $3, $4)`,
				transactionID, senderID, amount, receiverID); err != nil {
				return fmt.Errorf("insert ledger entry: %w", err)
			}

			if _, err := tx.Exec(ctx,
				`UPDATE accounts SET balance = balance - $1 WHERE id = $2`,
				amount, senderID); err != nil {
				return fmt.Errorf("debit sender: %w", err)
			}
			if _, err := tx.Exec(ctx,
				`UPDATE accounts SET balance = balance + $1 WHERE id = $2`,
				amount, receiverID); err != nil {
				return fmt.Errorf("credit receiver: %w", err)
			}

			result = TransferResult{
				TransactionID: transactionID,
				SenderID:      senderID,
				ReceiverID:    receiverID,
				Amount:        amount,
				SenderBalance: balances[senderID] - amount,
			}
			return nil
		})
	})
	return result, err
}

func isRejection(err error) bool {
	return errors.Is(err, models.ErrUnknownReceiver) ||
		errors.Is(err, models.ErrSelfTransfer) ||
		errors.Is(err, models.ErrInvalidAmount) ||
		errors.Is(err, models.ErrInsufficientFunds) ||
		errors.Is(err, models.ErrNothingStaged)
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, models.ErrUnknownReceiver):
		return domain.OutcomeUnknownReceiver
	case errors.Is(err, models.ErrSelfTransfer):
		return domain.OutcomeSelfTransfer
	case errors.Is(err, models.ErrInvalidAmount):
		return domain.OutcomeInvalidAmount
	case errors.Is(err, models.ErrInsufficientFunds):
		return domain.OutcomeInsufficientFunds
	case errors.Is(err, models.ErrNothingStaged):
		return domain.OutcomeNothingStaged
	default:
		return domain.OutcomeFailed
	}
}
