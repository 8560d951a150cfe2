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

// TransferRepository implements usecase.TransferRepository.
type TransferRepository struct {
	pool *pgxpool.Pool
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(pool *pgxpool.Pool) *TransferRepository {
	return &TransferRepository{pool: pool}
}

const transferColumns = "id, source_id, destination_id, amount, description, status, created_at, updated_at"

// Create persists the transfer anchor. It runs outside the settlement
// transaction so a crash mid-settlement leaves a pending record the
// recovery sweep can pick up.
func (r *TransferRepository) Create(ctx context.Context, transfer *domain.Transfer) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO transfers (id, source_id, destination_id, amount, description, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		transfer.ID,
		transfer.SourceID,
		transfer.DestinationID,
		transfer.Amount,
		transfer.Description,
		string(transfer.Status),
		timeToPgTimestamptz(transfer.CreatedAt),
		timeToPgTimestamptz(transfer.UpdatedAt),
	)

	return err
}

// GetByID retrieves a transfer by ID.
func (r *TransferRepository) GetByID(ctx context.Context, id string) (*domain.Transfer, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+transferColumns+` FROM transfers WHERE id = $1`, id)

	return scanTransfer(row)
}

// ListByCustomer lists transfers where the customer is either party,
// newest first.
func (r *TransferRepository) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*domain.Transfer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+transferColumns+`
		 FROM transfers
		 WHERE source_id = $1 OR destination_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3`, customerID, limit, offset)
	if err != nil {
		return nil, err
	}

	return collectTransfers(rows)
}

// UpdateStatus moves the transfer to a terminal status within the
// settlement transaction. The status guard keeps settled transfers
// immutable.
func (r *TransferRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.TransferStatus, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx,
		`UPDATE transfers
		 SET status = $2, updated_at = $3
		 WHERE id = $1 AND status = $4`,
		id, string(status), timeToPgTimestamptz(updatedAt), string(domain.TransferStatusPending))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTransferSettled
	}

	return nil
}

// ListPendingBefore returns pending transfers created before the
// cutoff, oldest first. These are the candidates for recovery.
func (r *TransferRepository) ListPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Transfer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+transferColumns+`
		 FROM transfers
		 WHERE status = $1 AND created_at < $2
		 ORDER BY created_at
		 LIMIT $3`,
		string(domain.TransferStatusPending), timeToPgTimestamptz(cutoff), limit)
	if err != nil {
		return nil, err
	}

	return collectTransfers(rows)
}

func collectTransfers(rows pgx.Rows) ([]*domain.Transfer, error) {
	defer rows.Close()

	var transfers []*domain.Transfer

	for rows.Next() {
		transfer, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}

		transfers = append(transfers, transfer)
	}

	return transfers, rows.Err()
}

func scanTransfer(row pgx.Row) (*domain.Transfer, error) {
	var (
		transfer  domain.Transfer
		status    string
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&transfer.ID,
		&transfer.SourceID,
		&transfer.DestinationID,
		&transfer.Amount,
		&transfer.Description,
		&status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransferNotFound
		}

		return nil, err
	}

	transfer.Status = domain.TransferStatus(status)
	transfer.CreatedAt = createdAt.Time
	transfer.UpdatedAt = updatedAt.Time

	return &transfer, nil
}
