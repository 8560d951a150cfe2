package domain

import "time"

// Customer is the ledger aggregate: an identity plus an append-only,
// insertion-ordered list of balance operations. The balance is always
// derived from the operation list, never stored as its own field, so a
// cached total can never diverge from its constituent entries.
type Customer struct {
	ID         string
	Name       string
	Email      string
	Operations []BalanceOperation
	Validity
}

// NewCustomer creates an open customer with an empty ledger.
func NewCustomer(id, name, email string, now time.Time) *Customer {
	return &Customer{
		ID:       id,
		Name:     name,
		Email:    email,
		Validity: NewValidity(now),
	}
}

// Balance sums the amounts of all valid operations. Invalidated
// operations stay in the list for audit but do not count.
func (c *Customer) Balance() int64 {
	var total int64
	for _, op := range c.Operations {
		if op.Validity.IsValid {
			total += op.Amount
		}
	}

	return total
}

// AppendOperation adds an operation to the end of the ledger. Order is
// append order and is never rewritten.
func (c *Customer) AppendOperation(op BalanceOperation) {
	c.Operations = append(c.Operations, op)
}

// InvalidateOperation soft-deletes the operation with the given ID.
// Returns ErrOperationNotFound when no such operation exists.
func (c *Customer) InvalidateOperation(id string, now time.Time) error {
	for i := range c.Operations {
		if c.Operations[i].ID == id {
			c.Operations[i].Validity.Invalidate(now)
			return nil
		}
	}

	return ErrOperationNotFound
}

// FindOperation returns the operation with the given ID, if present.
func (c *Customer) FindOperation(id string) (BalanceOperation, bool) {
	for _, op := range c.Operations {
		if op.ID == id {
			return op, true
		}
	}

	return BalanceOperation{}, false
}

// Close soft-deletes the customer record. Historical operations are
// untouched; the balance remains computable after closure.
func (c *Customer) Close(now time.Time) {
	c.Validity.Invalidate(now)
}

// IsOpen reports whether the customer record itself is still valid.
func (c *Customer) IsOpen() bool {
	return c.Validity.IsValid
}
