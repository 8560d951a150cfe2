package usecase

import (
	"context"
	"time"

	"github.com/iho/passbook/internal/domain"
)

// CustomerRepository defines data access for customer aggregates.
type CustomerRepository interface {
	// CreateTx persists a new customer within a transaction.
	CreateTx(ctx context.Context, tx Transaction, customer *domain.Customer) error
	// GetByID loads the full aggregate: the customer record plus its
	// operations in append order.
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	// GetRecord loads the customer record without its operations.
	GetRecord(ctx context.Context, id string) (*domain.Customer, error)
	// LockForUpdate locks the customer rows in the given order and
	// returns their records without operations. Callers must pass IDs
	// pre-sorted to keep lock acquisition order global.
	LockForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Customer, error)
	// Replace persists the whole customer record (profile fields and
	// validity), leaving operations untouched.
	Replace(ctx context.Context, tx Transaction, customer *domain.Customer) error
	List(ctx context.Context, limit, offset int) ([]*domain.Customer, error)
}

// OperationRepository defines data access for balance operations.
type OperationRepository interface {
	Append(ctx context.Context, tx Transaction, op domain.BalanceOperation) error
	// Invalidate soft-deletes one operation and returns it as stored.
	// Returns domain.ErrOperationNotFound when no row matches.
	Invalidate(ctx context.Context, tx Transaction, customerID, operationID string, now time.Time) (domain.BalanceOperation, error)
	ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]domain.BalanceOperation, error)
	GetByTransfer(ctx context.Context, transferID string) ([]domain.BalanceOperation, error)
	GetByTransferTx(ctx context.Context, tx Transaction, transferID string) ([]domain.BalanceOperation, error)
	// SumValid computes the derived balance: the sum of amounts over
	// valid operations only.
	SumValid(ctx context.Context, customerID string) (int64, error)
	SumValidTx(ctx context.Context, tx Transaction, customerID string) (int64, error)
}

// TransferRepository defines data access for persisted transfers.
type TransferRepository interface {
	Create(ctx context.Context, transfer *domain.Transfer) error
	GetByID(ctx context.Context, id string) (*domain.Transfer, error)
	ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*domain.Transfer, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.TransferStatus, updatedAt time.Time) error
	// ListPendingBefore returns transfers still pending whose record
	// was created before the cutoff, oldest first.
	ListPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Transfer, error)
}

// LedgerRepository defines ledger-wide queries used by consistency
// checks.
type LedgerRepository interface {
	// SumAppliedTransferLegs sums all valid operations that belong to
	// applied transfers. Conservation means this is always zero.
	SumAppliedTransferLegs(ctx context.Context) (int64, error)
	// FindUnbalancedTransfers returns IDs of applied transfers whose
	// valid legs do not pair up to zero.
	FindUnbalancedTransfers(ctx context.Context, limit int) ([]string, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a storage transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation on transient storage conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
