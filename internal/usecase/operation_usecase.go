package usecase

import (
	"context"
	"time"

	"github.com/iho/passbook/internal/domain"
)

// OperationUseCase handles the direct deposit/withdrawal path and
// operation soft invalidation. Unlike a transfer these movements have
// no counterpart customer, so only one ledger is touched.
type OperationUseCase struct {
	txManager     TransactionManager
	customerRepo  CustomerRepository
	operationRepo OperationRepository
	outboxRepo    OutboxRepository
	idGen         IDGenerator
	retrier       Retrier
}

// NewOperationUseCase creates a new OperationUseCase.
func NewOperationUseCase(
	txManager TransactionManager,
	customerRepo CustomerRepository,
	operationRepo OperationRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	retrier Retrier,
) *OperationUseCase {
	return &OperationUseCase{
		txManager:     txManager,
		customerRepo:  customerRepo,
		operationRepo: operationRepo,
		outboxRepo:    outboxRepo,
		idGen:         idGen,
		retrier:       retrier,
	}
}

// DepositInput represents input for a direct deposit or withdrawal.
type DepositInput struct {
	CustomerID  string
	Amount      int64
	Description string
}

// Deposit appends a positive operation to the customer's ledger.
func (uc *OperationUseCase) Deposit(ctx context.Context, input DepositInput) (*domain.BalanceOperation, error) {
	if input.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	return uc.appendDirect(ctx, input.CustomerID, input.Amount, input.Description)
}

// Withdraw appends a negative operation to the customer's ledger. The
// funds check runs under the same row lock as the append, so two
// concurrent withdrawals cannot both observe sufficient balance.
func (uc *OperationUseCase) Withdraw(ctx context.Context, input DepositInput) (*domain.BalanceOperation, error) {
	if input.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	return uc.appendDirect(ctx, input.CustomerID, -input.Amount, input.Description)
}

func (uc *OperationUseCase) appendDirect(ctx context.Context, customerID string, amount int64, description string) (*domain.BalanceOperation, error) {
	if err := domain.ValidateDescription(description); err != nil {
		return nil, err
	}

	var op domain.BalanceOperation

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		customers, err := uc.customerRepo.LockForUpdate(ctx, tx, []string{customerID})
		if err != nil {
			return err
		}

		if len(customers) != 1 {
			return domain.ErrCustomerNotFound
		}

		if !customers[0].IsOpen() {
			return domain.ErrCustomerClosed
		}

		if amount < 0 {
			balance, err := uc.operationRepo.SumValidTx(ctx, tx, customerID)
			if err != nil {
				return err
			}

			if balance+amount < 0 {
				return domain.ErrInsufficientFunds
			}
		}

		now := time.Now().UTC()

		op, err = domain.NewBalanceOperation(
			uc.idGen.Generate(), customerID, "", amount, description, now,
		)
		if err != nil {
			return err
		}

		if err := uc.operationRepo.Append(ctx, tx, op); err != nil {
			return err
		}

		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   customerID,
			AggregateType: domain.AggregateTypeCustomer,
			EventType:     domain.EventTypeOperationAppended,
			Payload: map[string]any{
				"customer_id":  customerID,
				"operation_id": op.ID,
				"amount":       amount,
			},
			CreatedAt: now,
		}

		if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return &op, nil
}

// InvalidateOperationInput identifies one operation on one ledger.
type InvalidateOperationInput struct {
	CustomerID  string
	OperationID string
}

// InvalidateOperation soft-deletes an operation. The row is retained
// for audit; only the derived balance changes. Invalidating an
// already-invalid operation advances its updated timestamp and leaves
// the balance untouched.
func (uc *OperationUseCase) InvalidateOperation(ctx context.Context, input InvalidateOperationInput) (*domain.BalanceOperation, error) {
	var op domain.BalanceOperation

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		customers, err := uc.customerRepo.LockForUpdate(ctx, tx, []string{input.CustomerID})
		if err != nil {
			return err
		}

		if len(customers) != 1 {
			return domain.ErrCustomerNotFound
		}

		now := time.Now().UTC()

		op, err = uc.operationRepo.Invalidate(ctx, tx, input.CustomerID, input.OperationID, now)
		if err != nil {
			return err
		}

		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   input.CustomerID,
			AggregateType: domain.AggregateTypeCustomer,
			EventType:     domain.EventTypeOperationInvalidated,
			Payload: map[string]any{
				"customer_id":  input.CustomerID,
				"operation_id": op.ID,
				"amount":       op.Amount,
			},
			CreatedAt: now,
		}

		if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return &op, nil
}

// GetBalance returns the derived balance: the sum of the customer's
// valid operations, recomputed from the log on every call.
func (uc *OperationUseCase) GetBalance(ctx context.Context, customerID string) (int64, error) {
	if _, err := uc.customerRepo.GetRecord(ctx, customerID); err != nil {
		return 0, err
	}

	return uc.operationRepo.SumValid(ctx, customerID)
}

// ListOperationsInput represents input for listing operations.
type ListOperationsInput struct {
	CustomerID string
	Limit      int
	Offset     int
}

// ListOperations lists a customer's operations in append order,
// invalidated ones included.
func (uc *OperationUseCase) ListOperations(ctx context.Context, input ListOperationsInput) ([]domain.BalanceOperation, error) {
	if _, err := uc.customerRepo.GetRecord(ctx, input.CustomerID); err != nil {
		return nil, err
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.operationRepo.ListByCustomer(ctx, input.CustomerID, limit, offset)
}
