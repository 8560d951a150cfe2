package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/passbook/internal/usecase"
)

// CreateCustomerRequest represents a request to create a customer.
type CreateCustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCustomerRequest) ToUseCaseInput() usecase.CreateCustomerInput {
	return usecase.CreateCustomerInput{
		Name:  r.Name,
		Email: r.Email,
	}
}

// UpdateCustomerRequest represents a partial profile update. Absent
// fields are left unchanged.
type UpdateCustomerRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateCustomerRequest) ToUseCaseInput(id string) usecase.UpdateProfileInput {
	return usecase.UpdateProfileInput{
		ID:    id,
		Name:  r.Name,
		Email: r.Email,
	}
}

// MoveFundsRequest represents a deposit or withdrawal request.
type MoveFundsRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *MoveFundsRequest) ToUseCaseInput(customerID string) (usecase.DepositInput, error) {
	amount, err := toMinorUnits(r.Amount)
	if err != nil {
		return usecase.DepositInput{}, err
	}

	return usecase.DepositInput{
		CustomerID:  customerID,
		Amount:      amount,
		Description: r.Description,
	}, nil
}

// CreateTransferRequest represents a request to create a transfer.
type CreateTransferRequest struct {
	SourceID      string          `json:"source_id"`
	DestinationID string          `json:"destination_id"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransferRequest) ToUseCaseInput() (usecase.CreateTransferInput, error) {
	amount, err := toMinorUnits(r.Amount)
	if err != nil {
		return usecase.CreateTransferInput{}, err
	}

	return usecase.CreateTransferInput{
		SourceID:      r.SourceID,
		DestinationID: r.DestinationID,
		Amount:        amount,
		Description:   r.Description,
	}, nil
}
