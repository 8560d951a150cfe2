package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/passbook/internal/domain"
)

// CustomerResponse represents a customer in API responses.
type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Open      bool      `json:"open"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CustomerFromDomain converts a domain customer to a response.
func CustomerFromDomain(c *domain.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Open:      c.IsOpen(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// CustomersFromDomain converts domain customers to responses.
func CustomersFromDomain(customers []*domain.Customer) []*CustomerResponse {
	result := make([]*CustomerResponse, len(customers))
	for i, c := range customers {
		result[i] = CustomerFromDomain(c)
	}
	return result
}

// ListCustomersResponse wraps a page of customers.
type ListCustomersResponse struct {
	Customers []*CustomerResponse `json:"customers"`
	Total     int64               `json:"total"`
}

// OperationResponse represents a balance operation in API responses.
type OperationResponse struct {
	ID          string          `json:"id"`
	CustomerID  string          `json:"customer_id"`
	TransferID  string          `json:"transfer_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	MinorUnits  int64           `json:"minor_units"`
	Description string          `json:"description,omitempty"`
	Valid       bool            `json:"valid"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// OperationFromDomain converts a domain operation to a response.
func OperationFromDomain(op domain.BalanceOperation) *OperationResponse {
	return &OperationResponse{
		ID:          op.ID,
		CustomerID:  op.CustomerID,
		TransferID:  op.TransferID,
		Amount:      fromMinorUnits(op.Amount),
		MinorUnits:  op.Amount,
		Description: op.Description,
		Valid:       op.IsValid,
		CreatedAt:   op.CreatedAt,
		UpdatedAt:   op.UpdatedAt,
	}
}

// OperationsFromDomain converts domain operations to responses.
func OperationsFromDomain(ops []domain.BalanceOperation) []*OperationResponse {
	result := make([]*OperationResponse, len(ops))
	for i, op := range ops {
		result[i] = OperationFromDomain(op)
	}
	return result
}

// BalanceResponse represents a derived balance.
type BalanceResponse struct {
	CustomerID string          `json:"customer_id"`
	Balance    decimal.Decimal `json:"balance"`
	MinorUnits int64           `json:"minor_units"`
}

// BalanceFromMinorUnits builds a balance response.
func BalanceFromMinorUnits(customerID string, minorUnits int64) *BalanceResponse {
	return &BalanceResponse{
		CustomerID: customerID,
		Balance:    fromMinorUnits(minorUnits),
		MinorUnits: minorUnits,
	}
}

// TransferResponse represents a transfer in API responses.
type TransferResponse struct {
	ID            string          `json:"id"`
	SourceID      string          `json:"source_id"`
	DestinationID string          `json:"destination_id"`
	Amount        decimal.Decimal `json:"amount"`
	MinorUnits    int64           `json:"minor_units"`
	Description   string          `json:"description,omitempty"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TransferFromDomain converts a domain transfer to a response.
func TransferFromDomain(t *domain.Transfer) *TransferResponse {
	return &TransferResponse{
		ID:            t.ID,
		SourceID:      t.SourceID,
		DestinationID: t.DestinationID,
		Amount:        fromMinorUnits(t.Amount),
		MinorUnits:    t.Amount,
		Description:   t.Description,
		Status:        string(t.Status),
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

// TransfersFromDomain converts domain transfers to responses.
func TransfersFromDomain(transfers []*domain.Transfer) []*TransferResponse {
	result := make([]*TransferResponse, len(transfers))
	for i, t := range transfers {
		result[i] = TransferFromDomain(t)
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
