package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/passbook/internal/adapter/http/dto"
	"github.com/iho/passbook/internal/domain"
	"github.com/iho/passbook/internal/usecase"
)

type customerServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateCustomerInput) (*domain.Customer, error)
	getFn    func(ctx context.Context, id string) (*domain.Customer, error)
	updateFn func(ctx context.Context, input usecase.UpdateProfileInput) (*domain.Customer, error)
	closeFn  func(ctx context.Context, id string) (*domain.Customer, error)
	listFn   func(ctx context.Context, input usecase.ListCustomersInput) ([]*domain.Customer, error)
}

func (s *customerServiceStub) CreateCustomer(ctx context.Context, input usecase.CreateCustomerInput) (*domain.Customer, error) {
	return s.createFn(ctx, input)
}

func (s *customerServiceStub) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return s.getFn(ctx, id)
}

func (s *customerServiceStub) UpdateProfile(ctx context.Context, input usecase.UpdateProfileInput) (*domain.Customer, error) {
	return s.updateFn(ctx, input)
}

func (s *customerServiceStub) CloseCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return s.closeFn(ctx, id)
}

func (s *customerServiceStub) ListCustomers(ctx context.Context, input usecase.ListCustomersInput) ([]*domain.Customer, error) {
	return s.listFn(ctx, input)
}

func setChiURLParam(r *http.Request, key, value string) *http.Request {
	// Reuse the route context when one is already attached so that
	// setting a second param keeps the first.
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		rctx.URLParams.Add(key, value)
		return r
	}

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)

	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestSetChiURLParam_MultipleParams(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/customers/cus-1/operations/op-1", nil)
	req = setChiURLParam(req, "id", "cus-1")
	req = setChiURLParam(req, "opID", "op-1")

	if got := chi.URLParam(req, "id"); got != "cus-1" {
		t.Errorf("expected id param cus-1, got %q", got)
	}

	if got := chi.URLParam(req, "opID"); got != "op-1" {
		t.Errorf("expected opID param op-1, got %q", got)
	}
}

func testCustomer() *domain.Customer {
	return domain.NewCustomer("cus-1", "Alice", "alice@example.com", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
}

func TestCustomerHandler_Create(t *testing.T) {
	stub := &customerServiceStub{
		createFn: func(_ context.Context, input usecase.CreateCustomerInput) (*domain.Customer, error) {
			if input.Name != "Alice" || input.Email != "alice@example.com" {
				t.Fatalf("unexpected input: %+v", input)
			}

			return testCustomer(), nil
		},
	}
	h := NewCustomerHandler(stub)

	body := `{"name":"Alice","email":"alice@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(body))
	rr := httptest.NewRecorder()

	h.Create(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp dto.CustomerResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.ID != "cus-1" || !resp.Open {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestCustomerHandler_Create_InvalidBody(t *testing.T) {
	h := NewCustomerHandler(&customerServiceStub{})

	req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()

	h.Create(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestCustomerHandler_Create_ValidationError(t *testing.T) {
	stub := &customerServiceStub{
		createFn: func(_ context.Context, _ usecase.CreateCustomerInput) (*domain.Customer, error) {
			return nil, domain.ErrInvalidEmail
		},
	}
	h := NewCustomerHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(`{"name":"Alice","email":"nope"}`))
	rr := httptest.NewRecorder()

	h.Create(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestCustomerHandler_Get(t *testing.T) {
	stub := &customerServiceStub{
		getFn: func(_ context.Context, id string) (*domain.Customer, error) {
			if id != "cus-1" {
				t.Fatalf("unexpected id: %s", id)
			}

			return testCustomer(), nil
		},
	}
	h := NewCustomerHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/customers/cus-1", nil)
	req = setChiURLParam(req, "id", "cus-1")
	rr := httptest.NewRecorder()

	h.Get(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestCustomerHandler_Get_NotFound(t *testing.T) {
	stub := &customerServiceStub{
		getFn: func(_ context.Context, _ string) (*domain.Customer, error) {
			return nil, domain.ErrCustomerNotFound
		},
	}
	h := NewCustomerHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/customers/missing", nil)
	req = setChiURLParam(req, "id", "missing")
	rr := httptest.NewRecorder()

	h.Get(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestCustomerHandler_Update(t *testing.T) {
	newName := "Alicia"
	stub := &customerServiceStub{
		updateFn: func(_ context.Context, input usecase.UpdateProfileInput) (*domain.Customer, error) {
			if input.ID != "cus-1" || input.Name == nil || *input.Name != newName {
				t.Fatalf("unexpected input: %+v", input)
			}

			c := testCustomer()
			c.Name = newName

			return c, nil
		},
	}
	h := NewCustomerHandler(stub)

	req := httptest.NewRequest(http.MethodPatch, "/customers/cus-1", strings.NewReader(`{"name":"Alicia"}`))
	req = setChiURLParam(req, "id", "cus-1")
	rr := httptest.NewRecorder()

	h.Update(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp dto.CustomerResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Name != "Alicia" {
		t.Fatalf("expected updated name, got %+v", resp)
	}
}

func TestCustomerHandler_Close(t *testing.T) {
	stub := &customerServiceStub{
		closeFn: func(_ context.Context, id string) (*domain.Customer, error) {
			c := testCustomer()
			c.Close(time.Now())

			return c, nil
		},
	}
	h := NewCustomerHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/customers/cus-1/close", nil)
	req = setChiURLParam(req, "id", "cus-1")
	rr := httptest.NewRecorder()

	h.Close(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp dto.CustomerResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Open {
		t.Fatalf("expected closed customer, got %+v", resp)
	}
}

func TestCustomerHandler_Close_AlreadyClosed(t *testing.T) {
	stub := &customerServiceStub{
		closeFn: func(_ context.Context, _ string) (*domain.Customer, error) {
			return nil, domain.ErrCustomerClosed
		},
	}
	h := NewCustomerHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/customers/cus-1/close", nil)
	req = setChiURLParam(req, "id", "cus-1")
	rr := httptest.NewRecorder()

	h.Close(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}

func TestCustomerHandler_List(t *testing.T) {
	stub := &customerServiceStub{
		listFn: func(_ context.Context, input usecase.ListCustomersInput) ([]*domain.Customer, error) {
			if input.Limit != 5 || input.Offset != 10 {
				t.Fatalf("unexpected pagination: %+v", input)
			}

			return []*domain.Customer{testCustomer()}, nil
		},
	}
	h := NewCustomerHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/customers?limit=5&offset=10", nil)
	rr := httptest.NewRecorder()

	h.List(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp dto.ListCustomersResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Total != 1 || len(resp.Customers) != 1 {
		t.Fatalf("unexpected list response: %+v", resp)
	}
}

func TestCustomerHandler_List_Error(t *testing.T) {
	stub := &customerServiceStub{
		listFn: func(_ context.Context, _ usecase.ListCustomersInput) ([]*domain.Customer, error) {
			return nil, errors.New("db down")
		},
	}
	h := NewCustomerHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/customers", nil)
	rr := httptest.NewRecorder()

	h.List(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}
