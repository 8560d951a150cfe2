package domain

import "time"

// Validity is the soft-delete marker carried by every ledger record.
// Invalid records are retained for audit but excluded from balance
// computation.
type Validity struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	IsValid   bool
}

// NewValidity creates a valid flag with both timestamps set to now.
func NewValidity(now time.Time) Validity {
	return Validity{
		CreatedAt: now,
		UpdatedAt: now,
		IsValid:   true,
	}
}

// Invalidate marks the record invalid. The only allowed transition is
// valid -> invalid; invalidating an already-invalid flag keeps IsValid
// false but still advances UpdatedAt.
func (v *Validity) Invalidate(now time.Time) {
	v.IsValid = false
	v.UpdatedAt = now
}

// Touch advances UpdatedAt without changing validity.
func (v *Validity) Touch(now time.Time) {
	v.UpdatedAt = now
}
