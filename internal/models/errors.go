package models

import "errors"

var (
	// ErrAccountNotFound indicates a lookup for an id with no account row.
	ErrAccountNotFound = errors.New("account not found")

	// ErrDuplicateID indicates the generated account id kept colliding with
	// existing rows even after regeneration.
	ErrDuplicateID = errors.New("account id already exists")
)

// Transfer rejections. All are terminal for the staged transfer and leave
// stored state untouched.
var (
	ErrUnknownReceiver   = errors.New("receiver account does not exist")
	ErrSelfTransfer      = errors.New("cannot transfer to the same account")
	ErrInvalidAmount     = errors.New("transfer amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNothingStaged     = errors.New("no transfer staged")
)

// ErrTransferFailed indicates a storage failure during commit. The caller
// must treat ledger state as indeterminate and re-query before retrying.
var ErrTransferFailed = errors.New("transfer failed")
