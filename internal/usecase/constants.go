package usecase

import "time"

const (
	// DefaultTransactionTimeout bounds how long a single apply
	// transaction may hold customer row locks.
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour

	// DefaultPendingCutoff is how old a pending transfer must be
	// before the recovery sweep picks it up. Younger pendings are
	// assumed to still be in flight.
	DefaultPendingCutoff = 30 * time.Second

	// DefaultSweepBatchSize limits how many stuck transfers one sweep
	// pass settles.
	DefaultSweepBatchSize = 100
)
