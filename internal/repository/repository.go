package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/seyilawal/easyremit/internal/crypto"
	"github.com/seyilawal/easyremit/internal/domain"
	"github.com/seyilawal/easyremit/internal/ident"
	"github.com/seyilawal/easyremit/internal/models"
	"github.com/seyilawal/easyremit/internal/store"
)

const codeUniqueViolation = "23505"

// maxIDAttempts bounds how often CreateAccount regenerates a colliding id
// before giving up with ErrDuplicateID.
const maxIDAttempts = 5

// decryptFallback is shown in place of a PII field whose ciphertext could
// not be decrypted. Display must never abort on a crypto failure.
const decryptFallback = "unknown"

// AccountRepository owns the account row lifecycle: creation with the
// genesis grant, credential verification and display projections. PII fields
// are encrypted on the way in and decrypted best-effort on the way out.
type AccountRepository struct {
	store         *store.Store
	ids           *ident.Generator
	piiKey        []byte
	piiIV         []byte
	startingGrant int64
	logger        *zap.Logger
}

// NewAccountRepository wires an account repository. key and iv are the PII
// cipher material provisioned by configuration.
func NewAccountRepository(st *store.Store, ids *ident.Generator, key, iv []byte, startingGrant int64, logger *zap.Logger) *AccountRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountRepository{
		store:         st,
		ids:           ids,
		piiKey:        key,
		piiIV:         iv,
		startingGrant: startingGrant,
		logger:        logger,
	}
}

// NewAccountParams carries pre-validated signup input. Format validation
// (email shape, passport pattern, dd/mm/yyyy date, 6-digit password) is a
// presentation-layer concern; the repository assumes it already happened.
type NewAccountParams struct {
	Email     string
	Name      string
	Passport  string
	BirthDate string
	Password  string
}

// CreateAccount generates an id, hashes the password, encrypts the PII
// fields and inserts the account row together with its genesis grant ledger
// entry in one transaction. An id collision triggers regeneration rather
// than failure.
func (r *AccountRepository) CreateAccount(ctx context.Context, p NewAccountParams) (string, error) {
	credentialHash, err := crypto.HashCredential(p.Password)
	if err != nil {
		return "", fmt.Errorf("hash credential: %w", err)
	}

	encryptedPassport, err := crypto.EncryptField([]byte(p.Passport), r.piiKey, r.piiIV)
	if err != nil {
		return "", fmt.Errorf("encrypt passport: %w", err)
	}
	encryptedBirthDate, err := crypto.EncryptField([]byte(p.BirthDate), r.piiKey, r.piiIV)
	if err != nil {
		return "", fmt.Errorf("encrypt birth date: %w", err)
	}

	for attempt := 1; attempt <= maxIDAttempts; attempt++ {
		id, err := r.ids.NewAccountID(p.BirthDate)
		if err != nil {
			return "", fmt.Errorf("generate account id: %w", err)
		}

		err = r.store.WithRetry(ctx, func(ctx context.Context) error {
			return r.store.RunInTx(ctx, func(tx pgx.Tx) error {
				_, err := tx.Exec(ctx, `
					INSERT INTO accounts (id, email, name, encrypted_passport, encrypted_birth_date, credential_hash, balance)
					VALUES ($1, $2, $3, $4, $5, $6, $7)`,
					id, p.Email, p.Name, encryptedPassport, encryptedBirthDate, credentialHash, r.startingGrant)
				if err != nil {
					return err
				}

				_, err = tx.Exec(ctx, `
					INSERT INTO transaction_history (id, sender_id, amount, receiver_id)
					VALUES ($1, $2, $3, $4)`,
					uuid.New(), domain.GrantSenderID, r.startingGrant, id)
				return err
			})
		})
		if err == nil {
			r.logger.Info("account created", zap.String("account_id", id))
			return id, nil
		}
		if isUniqueViolation(err) {
			r.logger.Warn("account id collision, regenerating",
				zap.String("account_id", id), zap.Int("attempt", attempt))
			continue
		}
		return "", fmt.Errorf("create account: %w", err)
	}
	return "", models.ErrDuplicateID
}

// Authenticate verifies the (id, email, password) triple against a single
// account row. A missing account and a wrong password are deliberately not
// distinguished, so callers cannot probe which ids exist.
func (r *AccountRepository) Authenticate(ctx context.Context, id, email, password string) (bool, error) {
	var credentialHash string
	err := r.store.WithRetry(ctx, func(ctx context.Context) error {
		return r.store.Pool().QueryRow(ctx,
			`SELECT credential_hash FROM accounts WHERE id = $1 AND email = $2`,
			id, email).Scan(&credentialHash)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("look up account: %w", err)
	}
	return crypto.VerifyCredential(password, credentialHash), nil
}

// GetAccountSummary returns the display projection of an account. PII fields
// that fail to decrypt fall back to a sentinel value instead of an error.
func (r *AccountRepository) GetAccountSummary(ctx context.Context, id string) (models.AccountSummary, error) {
	var (
		summary            models.AccountSummary
		encryptedPassport  string
		encryptedBirthDate string
	)
	err := r.store.WithRetry(ctx, func(ctx context.Context) error {
		return r.store.Pool().QueryRow(ctx, `
			SELECT id, name, balance, encrypted_passport, encrypted_birth_date
			FROM accounts WHERE id = $1`, id).
			Scan(&summary.ID, &summary.Name, &summary.Balance, &encryptedPassport, &encryptedBirthDate)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return models.AccountSummary{}, models.ErrAccountNotFound
	}
	if err != nil {
		return models.AccountSummary{}, fmt.Errorf("get account summary: %w", err)
	}

	summary.Passport = r.decryptForDisplay(encryptedPassport, "passport", id)
	summary.BirthDate = r.decryptForDisplay(encryptedBirthDate, "birth_date", id)
	return summary, nil
}

func (r *AccountRepository) decryptForDisplay(encoded, field, accountID string) string {
	plaintext, err := crypto.DecryptField(encoded, r.piiKey, r.piiIV)
	if err != nil {
		r.logger.Warn("pii decrypt failed, using fallback",
			zap.String("account_id", accountID), zap.String("field", field), zap.Error(err))
		return decryptFallback
	}
	return string(plaintext)
}

// AccountExists reports whether an account row exists for id.
func (r *AccountRepository) AccountExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.store.WithRetry(ctx, func(ctx context.Context) error {
		return r.store.Pool().QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1)`, id).Scan(&exists)
	})
	if err != nil {
		return false, fmt.Errorf("check account existence: %w", err)
	}
	return exists, nil
}

// GetBalance returns the committed balance of an account.
func (r *AccountRepository) GetBalance(ctx context.Context, id string) (int64, error) {
	var balance int64
	err := r.store.WithRetry(ctx, func(ctx context.Context) error {
		return r.store.Pool().QueryRow(ctx,
			`SELECT balance FROM accounts WHERE id = $1`, id).Scan(&balance)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, models.ErrAccountNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return balance, nil
}

// GetHistory returns the ledger rows touching an account, oldest first, in
// insertion-sequence order.
func (r *AccountRepository) GetHistory(ctx context.Context, id string, limit, offset int) ([]models.TransactionRecord, error) {
	if limit < 1 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	var records []models.TransactionRecord
	err := r.store.WithRetry(ctx, func(ctx context.Context) error {
		rows, err := r.store.Pool().Query(ctx, `
			SELECT seq, id, sender_id, amount, receiver_id, created_at
			FROM transaction_history
			WHERE sender_id = $1 OR receiver_id = $1
			ORDER BY seq
			LIMIT $2 OFFSET $3`, id, limit, offset)
		if err != nil {
			return fmt.Errorf("get history: %w", err)
		}
		defer rows.Close()

		records = records[:0]
		for rows.Next() {
			var rec models.TransactionRecord
			if err := rows.Scan(&rec.Seq, &rec.ID, &rec.SenderID, &rec.Amount, &rec.ReceiverID, &rec.CreatedAt); err != nil {
				return fmt.Errorf("scan history row: %w", err)
			}
			records = append(records, rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}
