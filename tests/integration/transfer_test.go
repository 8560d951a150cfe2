package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iho/passbook/internal/adapter/http/dto"
	"github.com/iho/passbook/tests/testutil"
)

func TestTransferLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	router := newTestRouter(t, testDB)

	t.Run("successful transfer writes a conjugate pair", func(t *testing.T) {
		source := testDB.CreateTestCustomerWithBalance(ctx, "Alice", "alice@example.com", 10000)
		dest := testDB.CreateTestCustomer(ctx, "Bob", "bob@example.com")

		w := doJSON(t, router, http.MethodPost, "/api/v1/transfers/", map[string]string{
			"source_id":      source.ID,
			"destination_id": dest.ID,
			"amount":         "25.00",
			"description":    "rent",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var transfer dto.TransferResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &transfer))
		require.Equal(t, "applied", transfer.Status)
		require.Equal(t, int64(2500), transfer.MinorUnits)

		// Both legs, summing to zero
		w = doJSON(t, router, http.MethodGet, "/api/v1/transfers/"+transfer.ID+"/operations", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var legs []dto.OperationResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &legs))
		require.Len(t, legs, 2)
		require.Equal(t, int64(0), legs[0].MinorUnits+legs[1].MinorUnits)

		// Balances moved in lockstep
		var balance dto.BalanceResponse
		w = doJSON(t, router, http.MethodGet, "/api/v1/customers/"+source.ID+"/balance", nil)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &balance))
		require.Equal(t, int64(7500), balance.MinorUnits)

		w = doJSON(t, router, http.MethodGet, "/api/v1/customers/"+dest.ID+"/balance", nil)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &balance))
		require.Equal(t, int64(2500), balance.MinorUnits)
	})

	t.Run("insufficient funds leaves both ledgers untouched", func(t *testing.T) {
		source := testDB.CreateTestCustomerWithBalance(ctx, "Carol", "carol@example.com", 1000)
		dest := testDB.CreateTestCustomer(ctx, "Dan", "dan@example.com")

		w := doJSON(t, router, http.MethodPost, "/api/v1/transfers/", map[string]string{
			"source_id":      source.ID,
			"destination_id": dest.ID,
			"amount":         "50.00",
		})
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

		var balance dto.BalanceResponse
		w = doJSON(t, router, http.MethodGet, "/api/v1/customers/"+source.ID+"/balance", nil)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &balance))
		require.Equal(t, int64(1000), balance.MinorUnits)

		w = doJSON(t, router, http.MethodGet, "/api/v1/customers/"+dest.ID+"/balance", nil)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &balance))
		require.Equal(t, int64(0), balance.MinorUnits)
	})

	t.Run("self transfer is rejected", func(t *testing.T) {
		customer := testDB.CreateTestCustomerWithBalance(ctx, "Erin", "erin@example.com", 1000)

		w := doJSON(t, router, http.MethodPost, "/api/v1/transfers/", map[string]string{
			"source_id":      customer.ID,
			"destination_id": customer.ID,
			"amount":         "1.00",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("transfer to missing customer is rejected", func(t *testing.T) {
		source := testDB.CreateTestCustomerWithBalance(ctx, "Frank", "frank@example.com", 1000)

		w := doJSON(t, router, http.MethodPost, "/api/v1/transfers/", map[string]string{
			"source_id":      source.ID,
			"destination_id": "01MISSING00000000000000000",
			"amount":         "1.00",
		})
		require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	})

	t.Run("ledger stays consistent after transfers", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/ledger/consistency", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var report map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
		require.Equal(t, true, report["consistent"])
	})
}
