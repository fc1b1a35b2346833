package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/seyilawal/easyremit/internal/domain"
)

// Account is one holder of funds. The passport and birth date columns hold
// AES-CBC ciphertext encoded as base64; the credential hash is an Argon2id
// PHC string. Balance is in minor currency units and never goes negative at
// a committed state.
type Account struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	Name               string    `json:"name"`
	EncryptedPassport  string    `json:"-"`
	EncryptedBirthDate string    `json:"-"`
	CredentialHash     string    `json:"-"`
	Balance            int64     `json:"balance"`
	CreatedAt          time.Time `json:"created_at"`
}

// TransactionRecord is one append-only ledger row. Amount is always positive;
// direction is implied by the sender/receiver roles. Seq is the insertion
// sequence and defines the ledger's causal order.
type TransactionRecord struct {
	Seq        int64     `json:"seq"`
	ID         uuid.UUID `json:"id"`
	SenderID   string    `json:"sender_id"`
	Amount     int64     `json:"amount"`
	ReceiverID string    `json:"receiver_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// AccountSummary is the display projection of an account: decrypted PII with
// sentinel fallback, never the stored ciphertext or hash.
type AccountSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Balance   int64  `json:"balance"`
	Passport  string `json:"passport"`
	BirthDate string `json:"birth_date"`
}

// DisplayBalance renders the balance for presentation, e.g. "$5.00".
func (s AccountSummary) DisplayBalance() string {
	return domain.NewMoney(s.Balance).String()
}
