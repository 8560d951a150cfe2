package domain

import "time"

// TransferStatus is the lifecycle state of a persisted transfer.
type TransferStatus string

const (
	// TransferStatusPending means the transfer record exists but its
	// ledger legs may not have been applied yet.
	TransferStatusPending TransferStatus = "pending"
	// TransferStatusApplied means both conjugate legs are committed.
	TransferStatusApplied TransferStatus = "applied"
	// TransferStatusFailed means the transfer was rejected and no leg
	// remains on either ledger.
	TransferStatusFailed TransferStatus = "failed"
)

// Transfer is a persisted record of a two-party value movement. It is
// the recovery anchor: legs are applied idempotently keyed by the
// transfer ID, so a half-finished transfer can always be completed or
// compensated by re-running the apply step.
type Transfer struct {
	ID            string
	SourceID      string
	DestinationID string
	Amount        int64 // always positive; signs live on the legs
	Description   string
	Status        TransferStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks the request invariants that need no repository
// access. Self-transfers are rejected outright rather than treated as
// a no-op.
func (t *Transfer) Validate() error {
	if t.Amount <= 0 {
		return ErrInvalidAmount
	}

	if t.SourceID == t.DestinationID {
		return ErrSameCustomer
	}

	return nil
}

// Legs returns the conjugate operation amounts for this transfer: the
// debit applied to the source and the credit applied to the
// destination. Their sum is zero, which is what conservation of value
// means at the ledger level.
func (t *Transfer) Legs() (debit, credit int64) {
	return -t.Amount, t.Amount
}

// IsSettled reports whether the transfer reached a terminal status.
func (t *Transfer) IsSettled() bool {
	return t.Status == TransferStatusApplied || t.Status == TransferStatusFailed
}
