package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/iho/passbook/internal/domain"
)

// TransferUseCase orchestrates two-party transfers. A transfer is
// recorded first as a pending anchor row, then both conjugate legs are
// applied in a single storage transaction keyed by the transfer ID.
// The apply step is idempotent, so a crash between the anchor write
// and the apply commit is repaired later by the recovery sweep.
type TransferUseCase struct {
	txManager     TransactionManager
	customerRepo  CustomerRepository
	operationRepo OperationRepository
	transferRepo  TransferRepository
	outboxRepo    OutboxRepository
	idGen         IDGenerator
	retrier       Retrier
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	txManager TransactionManager,
	customerRepo CustomerRepository,
	operationRepo OperationRepository,
	transferRepo TransferRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	retrier Retrier,
) *TransferUseCase {
	return &TransferUseCase{
		txManager:     txManager,
		customerRepo:  customerRepo,
		operationRepo: operationRepo,
		transferRepo:  transferRepo,
		outboxRepo:    outboxRepo,
		idGen:         idGen,
		retrier:       retrier,
	}
}

// CreateTransferInput represents input for creating a transfer.
type CreateTransferInput struct {
	SourceID      string
	DestinationID string
	Amount        int64
	Description   string
}

// CreateTransfer moves Amount from the source customer's ledger to the
// destination customer's ledger as a conjugate pair of balance
// operations. All validation failures are returned before any ledger
// mutation.
func (uc *TransferUseCase) CreateTransfer(ctx context.Context, input CreateTransferInput) (*domain.Transfer, error) {
	now := time.Now().UTC()

	transfer := &domain.Transfer{
		ID:            uc.idGen.Generate(),
		SourceID:      input.SourceID,
		DestinationID: input.DestinationID,
		Amount:        input.Amount,
		Description:   input.Description,
		Status:        domain.TransferStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := transfer.Validate(); err != nil {
		return nil, err
	}

	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	// Both parties must exist and be open before anything is written.
	for _, id := range []string{input.SourceID, input.DestinationID} {
		record, err := uc.customerRepo.GetRecord(ctx, id)
		if err != nil {
			return nil, err
		}

		if !record.IsOpen() {
			return nil, domain.ErrCustomerClosed
		}
	}

	// Persist the anchor. From this point on the transfer is always
	// settled, either here or by the recovery sweep.
	if err := uc.transferRepo.Create(ctx, transfer); err != nil {
		return nil, err
	}

	if err := uc.Settle(ctx, transfer); err != nil {
		return nil, err
	}

	return transfer, nil
}

// Settle applies both legs of a transfer atomically, or marks the
// transfer failed when a domain rule rejects it. Calling Settle on an
// already-applied transfer is a no-op; legs already present for this
// transfer ID are never written twice.
func (uc *TransferUseCase) Settle(ctx context.Context, transfer *domain.Transfer) error {
	if transfer.IsSettled() {
		return nil
	}

	err := uc.retrier.Retry(ctx, func() error {
		return uc.apply(ctx, transfer)
	})
	if err == nil {
		return nil
	}

	if isSettlementRejection(err) {
		if failErr := uc.markFailed(ctx, transfer, err); failErr != nil {
			return failErr
		}
	}

	return err
}

// apply runs the locked read-then-write sequence as one transaction:
// lock both customer rows in sorted ID order, recompute the source
// balance from its valid operations under that lock, insert the
// missing legs, and flip the anchor to applied.
func (uc *TransferUseCase) apply(ctx context.Context, transfer *domain.Transfer) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	ids := []string{transfer.SourceID, transfer.DestinationID}
	sort.Strings(ids)

	customers, err := uc.customerRepo.LockForUpdate(ctx, tx, ids)
	if err != nil {
		return err
	}

	if len(customers) != len(ids) {
		return domain.ErrCustomerNotFound
	}

	for _, c := range customers {
		if !c.IsOpen() {
			return domain.ErrCustomerClosed
		}
	}

	existing, err := uc.operationRepo.GetByTransferTx(ctx, tx, transfer.ID)
	if err != nil {
		return err
	}

	var haveDebit, haveCredit bool
	for _, op := range existing {
		if op.IsDebit() {
			haveDebit = true
		} else {
			haveCredit = true
		}
	}

	now := time.Now().UTC()
	debitAmount, creditAmount := transfer.Legs()

	if !haveDebit {
		balance, err := uc.operationRepo.SumValidTx(ctx, tx, transfer.SourceID)
		if err != nil {
			return err
		}

		if balance < transfer.Amount {
			return domain.ErrInsufficientFunds
		}

		debit, err := domain.NewBalanceOperation(
			uc.idGen.Generate(), transfer.SourceID, transfer.ID,
			debitAmount, transfer.Description, now,
		)
		if err != nil {
			return err
		}

		if err := uc.operationRepo.Append(ctx, tx, debit); err != nil {
			return err
		}
	}

	if !haveCredit {
		credit, err := domain.NewBalanceOperation(
			uc.idGen.Generate(), transfer.DestinationID, transfer.ID,
			creditAmount, transfer.Description, now,
		)
		if err != nil {
			return err
		}

		if err := uc.operationRepo.Append(ctx, tx, credit); err != nil {
			return err
		}
	}

	if err := uc.transferRepo.UpdateStatus(ctx, tx, transfer.ID, domain.TransferStatusApplied, now); err != nil {
		return err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   transfer.ID,
		AggregateType: domain.AggregateTypeTransfer,
		EventType:     domain.EventTypeTransferApplied,
		Payload: map[string]any{
			"transfer_id":    transfer.ID,
			"source_id":      transfer.SourceID,
			"destination_id": transfer.DestinationID,
			"amount":         transfer.Amount,
			"description":    transfer.Description,
		},
		CreatedAt: now,
	}

	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	transfer.Status = domain.TransferStatusApplied
	transfer.UpdatedAt = now

	return nil
}

// markFailed settles a rejected transfer terminally so the recovery
// sweep stops retrying it. No ledger leg exists for a failed transfer.
func (uc *TransferUseCase) markFailed(ctx context.Context, transfer *domain.Transfer, cause error) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()

	if err := uc.transferRepo.UpdateStatus(ctx, tx, transfer.ID, domain.TransferStatusFailed, now); err != nil {
		return err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   transfer.ID,
		AggregateType: domain.AggregateTypeTransfer,
		EventType:     domain.EventTypeTransferFailed,
		Payload: map[string]any{
			"transfer_id": transfer.ID,
			"reason":      cause.Error(),
		},
		CreatedAt: now,
	}

	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	transfer.Status = domain.TransferStatusFailed
	transfer.UpdatedAt = now

	return nil
}

// isSettlementRejection reports whether the apply step failed on a
// domain rule rather than an I/O error. Only rejections settle the
// transfer as failed; I/O errors leave it pending for the sweep.
func isSettlementRejection(err error) bool {
	return errors.Is(err, domain.ErrInsufficientFunds) ||
		errors.Is(err, domain.ErrCustomerNotFound) ||
		errors.Is(err, domain.ErrCustomerClosed)
}

// GetTransfer retrieves a transfer by ID.
func (uc *TransferUseCase) GetTransfer(ctx context.Context, id string) (*domain.Transfer, error) {
	return uc.transferRepo.GetByID(ctx, id)
}

// GetTransferOperations returns the ledger legs of a transfer.
func (uc *TransferUseCase) GetTransferOperations(ctx context.Context, id string) ([]domain.BalanceOperation, error) {
	if _, err := uc.transferRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	return uc.operationRepo.GetByTransfer(ctx, id)
}

// ListTransfersByCustomerInput represents input for listing transfers.
type ListTransfersByCustomerInput struct {
	CustomerID string
	Limit      int
	Offset     int
}

// ListTransfersByCustomer lists transfers touching a customer.
func (uc *TransferUseCase) ListTransfersByCustomer(ctx context.Context, input ListTransfersByCustomerInput) ([]*domain.Transfer, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.transferRepo.ListByCustomer(ctx, input.CustomerID, limit, offset)
}
