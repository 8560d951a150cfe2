package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/passbook/internal/domain"
)

// LedgerRepository implements usecase.LedgerRepository with scans over
// the transfer legs. Both queries ignore invalidated operations, so an
// audit invalidation of a single leg will surface as an imbalance.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// SumAppliedTransferLegs sums every valid leg of every applied
// transfer. Conservation of value means the result is zero.
func (r *LedgerRepository) SumAppliedTransferLegs(ctx context.Context) (int64, error) {
	var sum int64

	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(o.amount), 0)
		 FROM balance_operations o
		 JOIN transfers t ON t.id = o.transfer_id
		 WHERE t.status = $1 AND o.is_valid`,
		string(domain.TransferStatusApplied)).Scan(&sum)

	return sum, err
}

// FindUnbalancedTransfers returns applied transfers whose valid legs do
// not form a conjugate pair summing to zero.
func (r *LedgerRepository) FindUnbalancedTransfers(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT t.id
		 FROM transfers t
		 JOIN balance_operations o ON o.transfer_id = t.id
		 WHERE t.status = $1 AND o.is_valid
		 GROUP BY t.id
		 HAVING SUM(o.amount) <> 0 OR COUNT(*) <> 2
		 ORDER BY t.id
		 LIMIT $2`,
		string(domain.TransferStatusApplied), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}
