// Package session holds per-session mutable state: the authenticated account
// and at most one staged transfer. A Context value is owned by the calling
// UI layer and passed explicitly into the components that need it; there is
// no process-wide ambient session.
package session

import "sync"

// PendingTransfer is a staged (receiver, amount) pair awaiting commit.
type PendingTransfer struct {
	ReceiverID string
	Amount     int64
}

// Context is safe for concurrent use.
type Context struct {
	mu        sync.Mutex
	accountID string
	pending   *PendingTransfer
}

// NewContext returns an empty session context.
func NewContext() *Context {
	return &Context{}
}

// SetCurrentAccount records the authenticated account id.
func (c *Context) SetCurrentAccount(accountID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accountID = accountID
}

// CurrentAccount returns the authenticated account id, if any.
func (c *Context) CurrentAccount() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accountID, c.accountID != ""
}

// StageTransfer stages a transfer, replacing any previously staged one.
func (c *Context) StageTransfer(receiverID string, amount int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = &PendingTransfer{ReceiverID: receiverID, Amount: amount}
}

// Pending returns the staged transfer, if any.
func (c *Context) Pending() (PendingTransfer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return PendingTransfer{}, false
	}
	return *c.pending, true
}

// ClearPending discards the staged transfer. Valid only between stage and
// commit; committing clears it so the same stage cannot double-spend.
func (c *Context) ClearPending() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = nil
}

// Clear resets the whole session, both account and staged transfer.
func (c *Context) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accountID = ""
	c.pending = nil
}
