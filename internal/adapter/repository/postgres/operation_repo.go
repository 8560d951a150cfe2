package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/passbook/internal/domain"
	"github.com/iho/passbook/internal/usecase"
)

// OperationRepository implements usecase.OperationRepository. Rows are
// append-only: the only update ever issued flips is_valid and touches
// updated_at. Amounts and descriptions are immutable once written.
type OperationRepository struct {
	pool *pgxpool.Pool
}

// NewOperationRepository creates a new OperationRepository.
func NewOperationRepository(pool *pgxpool.Pool) *OperationRepository {
	return &OperationRepository{pool: pool}
}

const operationColumns = "id, customer_id, transfer_id, amount, description, is_valid, created_at, updated_at"

// Append inserts a new balance operation within a transaction. The seq
// column is assigned by the database and fixes the append order.
func (r *OperationRepository) Append(ctx context.Context, tx usecase.Transaction, op domain.BalanceOperation) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx,
		`INSERT INTO balance_operations (id, customer_id, transfer_id, amount, description, is_valid, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		op.ID,
		op.CustomerID,
		stringToPgText(op.TransferID),
		op.Amount,
		op.Description,
		op.IsValid,
		timeToPgTimestamptz(op.CreatedAt),
		timeToPgTimestamptz(op.UpdatedAt),
	)

	return err
}

// Invalidate flips is_valid off and returns the row as stored. Running
// it against an already invalid operation only advances updated_at.
func (r *OperationRepository) Invalidate(ctx context.Context, tx usecase.Transaction, customerID, operationID string, now time.Time) (domain.BalanceOperation, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx,
		`UPDATE balance_operations
		 SET is_valid = FALSE, updated_at = $3
		 WHERE id = $1 AND customer_id = $2
		 RETURNING `+operationColumns,
		operationID, customerID, timeToPgTimestamptz(now))

	op, err := scanOperation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.BalanceOperation{}, domain.ErrOperationNotFound
		}

		return domain.BalanceOperation{}, err
	}

	return op, nil
}

// ListByCustomer lists a customer's operations in append order.
func (r *OperationRepository) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]domain.BalanceOperation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+operationColumns+`
		 FROM balance_operations
		 WHERE customer_id = $1
		 ORDER BY seq
		 LIMIT $2 OFFSET $3`, customerID, limit, offset)
	if err != nil {
		return nil, err
	}

	return collectOperations(rows)
}

// GetByTransfer retrieves the legs recorded for a transfer.
func (r *OperationRepository) GetByTransfer(ctx context.Context, transferID string) ([]domain.BalanceOperation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+operationColumns+`
		 FROM balance_operations
		 WHERE transfer_id = $1
		 ORDER BY seq`, transferID)
	if err != nil {
		return nil, err
	}

	return collectOperations(rows)
}

// GetByTransferTx is GetByTransfer inside a transaction. Settlement
// calls it under the customer row locks to decide which legs are still
// missing.
func (r *OperationRepository) GetByTransferTx(ctx context.Context, tx usecase.Transaction, transferID string) ([]domain.BalanceOperation, error) {
	pgxTx := tx.(*Tx).PgxTx()

	rows, err := pgxTx.Query(ctx,
		`SELECT `+operationColumns+`
		 FROM balance_operations
		 WHERE transfer_id = $1
		 ORDER BY seq`, transferID)
	if err != nil {
		return nil, err
	}

	return collectOperations(rows)
}

// SumValid computes the derived balance over valid operations only.
func (r *OperationRepository) SumValid(ctx context.Context, customerID string) (int64, error) {
	var sum int64

	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0)
		 FROM balance_operations
		 WHERE customer_id = $1 AND is_valid`, customerID).Scan(&sum)

	return sum, err
}

// SumValidTx is SumValid inside a transaction, used for the funds check
// while the customer row is locked.
func (r *OperationRepository) SumValidTx(ctx context.Context, tx usecase.Transaction, customerID string) (int64, error) {
	pgxTx := tx.(*Tx).PgxTx()

	var sum int64

	err := pgxTx.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0)
		 FROM balance_operations
		 WHERE customer_id = $1 AND is_valid`, customerID).Scan(&sum)

	return sum, err
}

func collectOperations(rows pgx.Rows) ([]domain.BalanceOperation, error) {
	defer rows.Close()

	var ops []domain.BalanceOperation

	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, err
		}

		ops = append(ops, op)
	}

	return ops, rows.Err()
}

func scanOperation(row pgx.Row) (domain.BalanceOperation, error) {
	var (
		op         domain.BalanceOperation
		transferID pgtype.Text
		createdAt  pgtype.Timestamptz
		updatedAt  pgtype.Timestamptz
	)

	err := row.Scan(
		&op.ID,
		&op.CustomerID,
		&transferID,
		&op.Amount,
		&op.Description,
		&op.IsValid,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.BalanceOperation{}, err
	}

	op.TransferID = transferID.String
	op.CreatedAt = createdAt.Time
	op.UpdatedAt = updatedAt.Time

	return op, nil
}
