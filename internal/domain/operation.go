package domain

import "time"

// BalanceOperation is a single signed ledger entry belonging to exactly
// one customer. Negative amounts are debits, positive amounts credits,
// always relative to the owning customer. Operations are append-only:
// once created, the only permitted mutation is soft invalidation.
type BalanceOperation struct {
	ID          string
	CustomerID  string
	TransferID  string // empty for direct deposits and withdrawals
	Amount      int64  // signed minor units, never zero
	Description string
	Validity
}

// NewBalanceOperation creates a valid operation. The amount must be
// non-zero; sign encodes direction.
func NewBalanceOperation(id, customerID, transferID string, amount int64, description string, now time.Time) (BalanceOperation, error) {
	if amount == 0 {
		return BalanceOperation{}, ErrZeroAmount
	}

	return BalanceOperation{
		ID:          id,
		CustomerID:  customerID,
		TransferID:  transferID,
		Amount:      amount,
		Description: description,
		Validity:    NewValidity(now),
	}, nil
}

// Negated returns the construction input for the conjugate leg of this
// operation: same description and transfer, amount with the sign
// flipped. The receiver is not mutated; the conjugate gets its own
// identity when created.
func (o BalanceOperation) Negated() (amount int64, description string) {
	return -o.Amount, o.Description
}

// IsDebit reports whether the operation removes value from its owner.
func (o BalanceOperation) IsDebit() bool {
	return o.Amount < 0
}
