package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/passbook/internal/adapter/http/dto"
	"github.com/iho/passbook/internal/domain"
	"github.com/iho/passbook/internal/usecase"
)

// OperationService defines the behavior needed by OperationHandler.
type OperationService interface {
	Deposit(ctx context.Context, input usecase.DepositInput) (*domain.BalanceOperation, error)
	Withdraw(ctx context.Context, input usecase.DepositInput) (*domain.BalanceOperation, error)
	InvalidateOperation(ctx context.Context, input usecase.InvalidateOperationInput) (*domain.BalanceOperation, error)
	GetBalance(ctx context.Context, customerID string) (int64, error)
	ListOperations(ctx context.Context, input usecase.ListOperationsInput) ([]domain.BalanceOperation, error)
}

// OperationHandler handles balance operation HTTP requests.
type OperationHandler struct {
	operationUC OperationService
}

// NewOperationHandler creates a new OperationHandler.
func NewOperationHandler(operationUC OperationService) *OperationHandler {
	return &OperationHandler{operationUC: operationUC}
}

// Deposit appends a positive operation to the customer's ledger.
func (h *OperationHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "id")
	if customerID == "" {
		writeError(w, http.StatusBadRequest, "missing customer ID", "")
		return
	}

	var req dto.MoveFundsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(customerID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	op, err := h.operationUC.Deposit(r.Context(), input)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to deposit", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.OperationFromDomain(*op))
}

// Withdraw appends a negative operation to the customer's ledger.
func (h *OperationHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "id")
	if customerID == "" {
		writeError(w, http.StatusBadRequest, "missing customer ID", "")
		return
	}

	var req dto.MoveFundsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(customerID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	op, err := h.operationUC.Withdraw(r.Context(), input)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to withdraw", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.OperationFromDomain(*op))
}

// Invalidate soft-deletes an operation on the customer's ledger.
func (h *OperationHandler) Invalidate(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "id")
	operationID := chi.URLParam(r, "opID")

	if customerID == "" || operationID == "" {
		writeError(w, http.StatusBadRequest, "missing customer or operation ID", "")
		return
	}

	op, err := h.operationUC.InvalidateOperation(r.Context(), usecase.InvalidateOperationInput{
		CustomerID:  customerID,
		OperationID: operationID,
	})
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to invalidate operation", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.OperationFromDomain(*op))
}

// GetBalance returns the customer's derived balance.
func (h *OperationHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "id")
	if customerID == "" {
		writeError(w, http.StatusBadRequest, "missing customer ID", "")
		return
	}

	balance, err := h.operationUC.GetBalance(r.Context(), customerID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get balance", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromMinorUnits(customerID, balance))
}

// ListByCustomer lists a customer's operations in append order.
func (h *OperationHandler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "id")
	if customerID == "" {
		writeError(w, http.StatusBadRequest, "missing customer ID", "")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	ops, err := h.operationUC.ListOperations(r.Context(), usecase.ListOperationsInput{
		CustomerID: customerID,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list operations", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.OperationsFromDomain(ops))
}
