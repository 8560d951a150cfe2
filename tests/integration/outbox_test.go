package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iho/passbook/internal/adapter/repository/postgres"
	"github.com/iho/passbook/internal/domain"
	"github.com/iho/passbook/internal/usecase"
	"github.com/iho/passbook/tests/testutil"
)

func TestOutboxEvents(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	pool := testDB.Pool
	txManager := postgres.NewTxManager(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	operationRepo := postgres.NewOperationRepository(pool)
	outboxRepo := postgres.NewOutboxRepository(pool)
	idGen := postgres.NewULIDGenerator()
	retrier := postgres.NewRetrier()

	operationUC := usecase.NewOperationUseCase(txManager, customerRepo, operationRepo, outboxRepo, idGen, retrier)

	t.Run("deposit records an unpublished event", func(t *testing.T) {
		customer := testDB.CreateTestCustomer(ctx, "Alice", "alice@example.com")

		_, err := operationUC.Deposit(ctx, usecase.DepositInput{
			CustomerID:  customer.ID,
			Amount:      500,
			Description: "paycheck",
		})
		require.NoError(t, err)

		events, err := outboxRepo.GetUnpublished(ctx, 10)
		require.NoError(t, err)
		require.Len(t, events, 1)
		require.Equal(t, domain.EventTypeOperationAppended, events[0].EventType)
		require.Equal(t, customer.ID, events[0].AggregateID)
	})

	t.Run("published events leave the queue", func(t *testing.T) {
		events, err := outboxRepo.GetUnpublished(ctx, 10)
		require.NoError(t, err)
		require.NotEmpty(t, events)

		for _, event := range events {
			require.NoError(t, outboxRepo.MarkPublished(ctx, event.ID, time.Now().UTC()))
		}

		remaining, err := outboxRepo.GetUnpublished(ctx, 10)
		require.NoError(t, err)
		require.Empty(t, remaining)

		// Retention cleanup removes published rows
		require.NoError(t, outboxRepo.DeletePublished(ctx, time.Now().UTC().Add(time.Minute)))
	})

	t.Run("failed operations write no events", func(t *testing.T) {
		testDB.TruncateAll(ctx)
		customer := testDB.CreateTestCustomer(ctx, "Bob", "bob@example.com")

		_, err := operationUC.Withdraw(ctx, usecase.DepositInput{
			CustomerID: customer.ID,
			Amount:     100,
		})
		require.ErrorIs(t, err, domain.ErrInsufficientFunds)

		events, err := outboxRepo.GetUnpublished(ctx, 10)
		require.NoError(t, err)
		require.Empty(t, events)
	})
}
