package domain

// GrantSenderID is the sentinel sender recorded on the genesis transaction
// credited to every new account. It has no account row of its own; the
// ledger treats it as an unbounded external source.
const GrantSenderID = "New User's Privilege"

// DefaultStartingGrant is the amount, in minor currency units, credited to a
// new account from the grant sentinel.
const DefaultStartingGrant int64 = 500

// Transfer outcomes recorded by observability counters.
const (
	OutcomeCommitted         = "committed"
	OutcomeUnknownReceiver   = "unknown_receiver"
	OutcomeSelfTransfer      = "self_transfer"
	OutcomeInvalidAmount     = "invalid_amount"
	OutcomeInsufficientFunds = "insufficient_funds"
	OutcomeNothingStaged     = "nothing_staged"
	OutcomeFailed            = "failed"
)
