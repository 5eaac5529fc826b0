package repository

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hivarunbhalla/Varun-Ecommerce-api/internal/domain/order"
)

const (
	insertOrderSQL = `INSERT INTO orders (customer_id)
		VALUES ($1) RETURNING id, placed_at, payment_status`

	// One statement copies every cart line into the order, snapshotting the
	// product's unit price as it stands inside this transaction. Later price
	// changes never reach these rows.
	copyCartItemsSQL = `INSERT INTO order_items (order_id, product_id, quantity, unit_price)
		SELECT $1, ci.product_id, ci.quantity, p.unit_price
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $2`

	getOrderSQL = `SELECT id, customer_id, placed_at, payment_status FROM orders WHERE id = $1`

	listOrdersSQL = `SELECT id, customer_id, placed_at, payment_status FROM orders ORDER BY placed_at DESC, id DESC`

	listOrdersByCustomerSQL = `SELECT id, customer_id, placed_at, payment_status
		FROM orders WHERE customer_id = $1 ORDER BY placed_at DESC, id DESC`

	getOrderItemsSQL = `SELECT oi.id, oi.product_id, p.title, oi.quantity, oi.unit_price
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id`

	updateOrderPaymentStatusSQL = `UPDATE orders SET payment_status = $2 WHERE id = $1`

	deleteOrderItemsSQL = `DELETE FROM order_items WHERE order_id = $1`
	deleteOrderSQL      = `DELETE FROM orders WHERE id = $1`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. The
// cart-to-order conversion is the one place in the system that needs a real
// transactional boundary; everything else here is single-row work.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// ConvertCart performs the all-or-nothing cart-to-order transition. On any
// failure the transaction rolls back and the cart is left exactly as it was,
// so the caller can safely retry.
func (r *OrderRepository) ConvertCart(ctx context.Context, cartID uuid.UUID, userID string) (*order.Order, error) {
	var o *order.Order
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		// Resolve or lazily create the customer. The unique user_id
		// constraint plus insert-on-conflict keeps concurrent first orders
		// for the same identity from duplicating the profile.
		if _, err := tx.Exec(ctx, insertCustomerSQL, userID); err != nil {
			return errors.Wrapf(err, "ensure customer %q", userID)
		}
		var customerID int64
		err := tx.QueryRow(ctx, `SELECT id FROM customers WHERE user_id = $1`, userID).Scan(&customerID)
		if err != nil {
			return errors.Wrapf(err, "resolve customer %q", userID)
		}

		created := order.Order{CustomerID: customerID}
		var status string
		err = tx.QueryRow(ctx, insertOrderSQL, customerID).
			Scan(&created.ID, &created.PlacedAt, &status)
		if err != nil {
			return errors.Wrap(err, "insert order")
		}
		created.PaymentStatus = order.PaymentStatus(status)

		tag, err := tx.Exec(ctx, copyCartItemsSQL, created.ID, cartID)
		if err != nil {
			return errors.Wrap(err, "copy cart items")
		}
		if tag.RowsAffected() == 0 {
			// The cart emptied between validation and here; rolling back
			// leaves no trace of the half-made order.
			return order.ErrCartEmpty
		}

		rows, err := tx.Query(ctx, getOrderItemsSQL, created.ID)
		if err != nil {
			return errors.Wrap(err, "read order items")
		}
		created.Items, err = pgx.CollectRows(rows, scanOrderItem)
		if err != nil {
			return errors.Wrap(err, "scan order items")
		}

		delTag, err := tx.Exec(ctx, deleteCartSQL, cartID)
		if err != nil {
			return errors.Wrapf(err, "delete cart %s", cartID)
		}
		if delTag.RowsAffected() == 0 {
			return order.ErrCartNotFound
		}

		o = &created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// GetByID returns a fully populated order.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	var (
		o      order.Order
		status string
	)
	err := r.pool.QueryRow(ctx, getOrderSQL, id).
		Scan(&o.ID, &o.CustomerID, &o.PlacedAt, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get order %d", id)
	}
	o.PaymentStatus = order.PaymentStatus(status)

	if o.Items, err = r.items(ctx, id); err != nil {
		return nil, err
	}
	return &o, nil
}

// List returns every order, newest first, without items.
func (r *OrderRepository) List(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return pgx.CollectRows(rows, scanOrder)
}

// ListByCustomer returns the customer's orders, newest first, without items.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID int64) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersByCustomerSQL, customerID)
	if err != nil {
		return nil, errors.Wrapf(err, "list orders for customer %d", customerID)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// UpdatePaymentStatus sets the order's payment status.
func (r *OrderRepository) UpdatePaymentStatus(ctx context.Context, id int64, status order.PaymentStatus) error {
	tag, err := r.pool.Exec(ctx, updateOrderPaymentStatusSQL, id, string(status))
	if err != nil {
		return errors.Wrapf(err, "update order %d payment status", id)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// Delete removes the order's items and then the order itself in one
// transaction. Items never outlive their order.
func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, deleteOrderItemsSQL, id); err != nil {
			return errors.Wrapf(err, "delete items of order %d", id)
		}
		tag, err := tx.Exec(ctx, deleteOrderSQL, id)
		if err != nil {
			return errors.Wrapf(err, "delete order %d", id)
		}
		if tag.RowsAffected() == 0 {
			return order.ErrNotFound
		}
		return nil
	})
}

func (r *OrderRepository) items(ctx context.Context, orderID int64) ([]order.Item, error) {
	rows, err := r.pool.Query(ctx, getOrderItemsSQL, orderID)
	if err != nil {
		return nil, errors.Wrapf(err, "get items of order %d", orderID)
	}
	return pgx.CollectRows(rows, scanOrderItem)
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o      order.Order
		status string
	)
	err := row.Scan(&o.ID, &o.CustomerID, &o.PlacedAt, &status)
	o.PaymentStatus = order.PaymentStatus(status)
	return o, err
}

func scanOrderItem(row pgx.CollectableRow) (order.Item, error) {
	var it order.Item
	err := row.Scan(&it.ID, &it.ProductID, &it.ProductTitle, &it.Quantity, &it.UnitPrice)
	return it, err
}
