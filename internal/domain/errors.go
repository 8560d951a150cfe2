package domain

import "errors"

var (
	// Customer errors
	ErrCustomerNotFound = errors.New("customer not found")
	ErrCustomerClosed   = errors.New("customer account is closed")

	// Operation errors
	ErrZeroAmount        = errors.New("operation amount must be non-zero")
	ErrOperationNotFound = errors.New("balance operation not found")

	// Transfer errors
	ErrInvalidAmount     = errors.New("transfer amount must be positive")
	ErrSameCustomer      = errors.New("cannot transfer to the same customer")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrTransferNotFound  = errors.New("transfer not found")
	ErrTransferSettled   = errors.New("transfer already settled")
)
