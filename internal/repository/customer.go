package repository

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hivarunbhalla/Varun-Ecommerce-api/internal/domain/customer"
)

const customerColumns = `id, user_id, phone, birth_date, membership`

const (
	// Insert-or-ignore first, then read. The unique constraint on user_id
	// makes concurrent first-touch calls converge on one row; a plain
	// check-then-insert would race.
	insertCustomerSQL = `INSERT INTO customers (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING`

	getCustomerByUserIDSQL = `SELECT ` + customerColumns + ` FROM customers WHERE user_id = $1`

	getCustomerByIDSQL = `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	listCustomersSQL = `SELECT ` + customerColumns + ` FROM customers ORDER BY id`

	updateCustomerSQL = `UPDATE customers
		SET phone = $2, birth_date = $3, membership = $4 WHERE id = $1`
)

var _ customer.Repository = (*CustomerRepository)(nil)

// CustomerRepository implements customer.Repository backed by PostgreSQL.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository returns a CustomerRepository that uses the given pool.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// GetOrCreate resolves the customer for userID, creating the profile on first
// use. It is safe under concurrent calls for the same identity.
func (r *CustomerRepository) GetOrCreate(ctx context.Context, userID string) (*customer.Customer, error) {
	if _, err := r.pool.Exec(ctx, insertCustomerSQL, userID); err != nil {
		return nil, errors.Wrapf(err, "ensure customer %q", userID)
	}
	return r.GetByUserID(ctx, userID)
}

// GetByUserID returns the customer for an external identity.
func (r *CustomerRepository) GetByUserID(ctx context.Context, userID string) (*customer.Customer, error) {
	rows, err := r.pool.Query(ctx, getCustomerByUserIDSQL, userID)
	if err != nil {
		return nil, errors.Wrapf(err, "get customer by user %q", userID)
	}
	return collectCustomer(rows, userID)
}

// GetByID returns the customer by its internal id.
func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*customer.Customer, error) {
	rows, err := r.pool.Query(ctx, getCustomerByIDSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get customer %d", id)
	}
	return collectCustomer(rows, id)
}

// List returns every customer, oldest first.
func (r *CustomerRepository) List(ctx context.Context) ([]customer.Customer, error) {
	rows, err := r.pool.Query(ctx, listCustomersSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list customers")
	}
	return pgx.CollectRows(rows, scanCustomer)
}

// Update rewrites the customer's mutable profile fields.
func (r *CustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	tag, err := r.pool.Exec(ctx, updateCustomerSQL, c.ID, c.Phone, c.BirthDate, string(c.Membership))
	if err != nil {
		return errors.Wrapf(err, "update customer %d", c.ID)
	}
	if tag.RowsAffected() == 0 {
		return customer.ErrNotFound
	}
	return nil
}

func collectCustomer(rows pgx.Rows, key any) (*customer.Customer, error) {
	c, err := pgx.CollectExactlyOneRow(rows, scanCustomer)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customer.ErrNotFound
		}
		return nil, errors.Wrapf(err, "scan customer %v", key)
	}
	return &c, nil
}

func scanCustomer(row pgx.CollectableRow) (customer.Customer, error) {
	var (
		c          customer.Customer
		membership string
	)
	err := row.Scan(&c.ID, &c.UserID, &c.Phone, &c.BirthDate, &membership)
	c.Membership = customer.Membership(membership)
	return c, err
}
