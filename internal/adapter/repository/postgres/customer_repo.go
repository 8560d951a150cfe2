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

// CustomerRepository implements usecase.CustomerRepository.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository creates a new CustomerRepository.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

const customerColumns = "id, name, email, is_valid, created_at, updated_at"

// CreateTx persists a new customer within a transaction.
func (r *CustomerRepository) CreateTx(ctx context.Context, tx usecase.Transaction, customer *domain.Customer) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx,
		`INSERT INTO customers (id, name, email, is_valid, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		customer.ID,
		customer.Name,
		customer.Email,
		customer.IsValid,
		timeToPgTimestamptz(customer.CreatedAt),
		timeToPgTimestamptz(customer.UpdatedAt),
	)

	return err
}

// GetRecord retrieves the customer record without its operations.
func (r *CustomerRepository) GetRecord(ctx context.Context, id string) (*domain.Customer, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)

	return scanCustomer(row)
}

// GetByID retrieves the full aggregate: the customer record plus its
// operations in append order.
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	customer, err := r.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+operationColumns+`
		 FROM balance_operations
		 WHERE customer_id = $1
		 ORDER BY seq`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, err
		}

		customer.Operations = append(customer.Operations, op)
	}

	return customer, rows.Err()
}

// LockForUpdate locks customer rows with FOR UPDATE. The ORDER BY makes
// the row lock order match the sorted IDs callers pass in, so two
// settlements touching the same pair cannot deadlock on these rows.
func (r *CustomerRepository) LockForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Customer, error) {
	pgxTx := tx.(*Tx).PgxTx()

	rows, err := pgxTx.Query(ctx,
		`SELECT `+customerColumns+`
		 FROM customers
		 WHERE id = ANY($1)
		 ORDER BY id
		 FOR UPDATE`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make([]*domain.Customer, 0, len(ids))

	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}

		customers = append(customers, customer)
	}

	return customers, rows.Err()
}

// Replace persists the customer record's profile fields and validity.
func (r *CustomerRepository) Replace(ctx context.Context, tx usecase.Transaction, customer *domain.Customer) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx,
		`UPDATE customers
		 SET name = $2, email = $3, is_valid = $4, updated_at = $5
		 WHERE id = $1`,
		customer.ID,
		customer.Name,
		customer.Email,
		customer.IsValid,
		timeToPgTimestamptz(customer.UpdatedAt),
	)

	return err
}

// List lists customer records with pagination.
func (r *CustomerRepository) List(ctx context.Context, limit, offset int) ([]*domain.Customer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+customerColumns+`
		 FROM customers
		 ORDER BY id
		 LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []*domain.Customer

	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}

		customers = append(customers, customer)
	}

	return customers, rows.Err()
}

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var (
		customer  domain.Customer
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&customer.ID,
		&customer.Name,
		&customer.Email,
		&customer.IsValid,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}

		return nil, err
	}

	customer.CreatedAt = createdAt.Time
	customer.UpdatedAt = updatedAt.Time

	return &customer, nil
}

// Type conversion helpers shared by the repositories in this package.
func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func stringToPgText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
