package usecase

import (
	"context"
	"time"

	"github.com/iho/passbook/internal/domain"
)

// CustomerUseCase handles customer lifecycle business logic.
type CustomerUseCase struct {
	txManager    TransactionManager
	customerRepo CustomerRepository
	outboxRepo   OutboxRepository
	idGen        IDGenerator
}

// NewCustomerUseCase creates a new CustomerUseCase.
func NewCustomerUseCase(
	txManager TransactionManager,
	customerRepo CustomerRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
) *CustomerUseCase {
	return &CustomerUseCase{
		txManager:    txManager,
		customerRepo: customerRepo,
		outboxRepo:   outboxRepo,
		idGen:        idGen,
	}
}

// CreateCustomerInput represents input for creating a customer.
type CreateCustomerInput struct {
	Name  string
	Email string
}

// CreateCustomer creates a new open customer with an empty ledger.
func (uc *CustomerUseCase) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*domain.Customer, error) {
	if err := domain.ValidateCustomerName(input.Name); err != nil {
		return nil, err
	}

	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	customer := domain.NewCustomer(uc.idGen.Generate(), input.Name, input.Email, now)

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.customerRepo.CreateTx(ctx, tx, customer); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   customer.ID,
		AggregateType: domain.AggregateTypeCustomer,
		EventType:     domain.EventTypeCustomerCreated,
		Payload: map[string]any{
			"customer_id": customer.ID,
			"name":        customer.Name,
		},
		CreatedAt: now,
	}

	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return customer, nil
}

// GetCustomer retrieves the full aggregate, operations included.
func (uc *CustomerUseCase) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return uc.customerRepo.GetByID(ctx, id)
}

// UpdateProfileInput is the closed set of updatable customer fields.
// Fields left nil are not touched.
type UpdateProfileInput struct {
	ID    string
	Name  *string
	Email *string
}

// UpdateProfile updates profile fields on an open customer. The set of
// updatable fields is fixed here; nothing is resolved from untyped
// input.
func (uc *CustomerUseCase) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*domain.Customer, error) {
	if input.Name != nil {
		if err := domain.ValidateCustomerName(*input.Name); err != nil {
			return nil, err
		}
	}

	if input.Email != nil {
		if err := domain.ValidateEmail(*input.Email); err != nil {
			return nil, err
		}
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	customers, err := uc.customerRepo.LockForUpdate(ctx, tx, []string{input.ID})
	if err != nil {
		return nil, err
	}

	if len(customers) != 1 {
		return nil, domain.ErrCustomerNotFound
	}

	customer := customers[0]
	if !customer.IsOpen() {
		return nil, domain.ErrCustomerClosed
	}

	if input.Name != nil {
		customer.Name = *input.Name
	}

	if input.Email != nil {
		customer.Email = *input.Email
	}

	customer.Validity.Touch(time.Now().UTC())

	if err := uc.customerRepo.Replace(ctx, tx, customer); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return customer, nil
}

// CloseCustomer soft-deletes the customer record. The operation
// history stays intact and auditable.
func (uc *CustomerUseCase) CloseCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	customers, err := uc.customerRepo.LockForUpdate(ctx, tx, []string{id})
	if err != nil {
		return nil, err
	}

	if len(customers) != 1 {
		return nil, domain.ErrCustomerNotFound
	}

	now := time.Now().UTC()

	customer := customers[0]
	customer.Close(now)

	if err := uc.customerRepo.Replace(ctx, tx, customer); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   customer.ID,
		AggregateType: domain.AggregateTypeCustomer,
		EventType:     domain.EventTypeCustomerClosed,
		Payload: map[string]any{
			"customer_id": customer.ID,
		},
		CreatedAt: now,
	}

	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return customer, nil
}

// ListCustomersInput represents input for listing customers.
type ListCustomersInput struct {
	Limit  int
	Offset int
}

// ListCustomers lists customer records with pagination.
func (uc *CustomerUseCase) ListCustomers(ctx context.Context, input ListCustomersInput) ([]*domain.Customer, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.customerRepo.List(ctx, limit, offset)
}
