package repository

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hivarunbhalla/Varun-Ecommerce-api/internal/domain/cart"
)

const (
	insertCartSQL = `INSERT INTO carts (id) VALUES ($1) RETURNING created_at`

	getCartSQL = `SELECT id, created_at FROM carts WHERE id = $1`

	getCartItemsSQL = `SELECT ci.id, ci.product_id, p.title, ci.quantity, p.unit_price
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.id`

	deleteCartSQL = `DELETE FROM carts WHERE id = $1`

	// Merge-not-duplicate: the UNIQUE (cart_id, product_id) constraint turns
	// concurrent adds into a single atomic quantity increment.
	upsertCartItemSQL = `INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING id, quantity`

	setCartItemQuantitySQL = `UPDATE cart_items SET quantity = $3
		WHERE cart_id = $1 AND product_id = $2
		RETURNING id, quantity`

	deleteCartItemSQL = `DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`

	getCartItemProductSQL = `SELECT p.title, p.unit_price FROM products p WHERE p.id = $1`
)

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository implements cart.Repository backed by PostgreSQL.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// Create inserts a new empty cart under the caller-generated uuid.
func (r *CartRepository) Create(ctx context.Context, c *cart.Cart) error {
	if err := r.pool.QueryRow(ctx, insertCartSQL, c.ID).Scan(&c.CreatedAt); err != nil {
		return errors.Wrap(err, "insert cart")
	}
	return nil
}

// Get returns the cart with its items joined against current product prices.
func (r *CartRepository) Get(ctx context.Context, id uuid.UUID) (*cart.Cart, error) {
	var c cart.Cart
	err := r.pool.QueryRow(ctx, getCartSQL, id).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cart.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get cart %s", id)
	}

	rows, err := r.pool.Query(ctx, getCartItemsSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get cart items %s", id)
	}
	c.Items, err = pgx.CollectRows(rows, scanCartItem)
	if err != nil {
		return nil, errors.Wrapf(err, "scan cart items %s", id)
	}
	return &c, nil
}

// Delete removes the cart; its items go with it via the cascade.
func (r *CartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, deleteCartSQL, id)
	if err != nil {
		return errors.Wrapf(err, "delete cart %s", id)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrNotFound
	}
	return nil
}

// UpsertItem merges delta into the (cart, product) row in one statement.
func (r *CartRepository) UpsertItem(ctx context.Context, cartID uuid.UUID, productID int64, delta int) (*cart.Item, error) {
	item := cart.Item{ProductID: productID}
	err := r.pool.QueryRow(ctx, upsertCartItemSQL, cartID, productID, delta).
		Scan(&item.ID, &item.Quantity)
	if err != nil {
		return nil, errors.Wrap(err, "upsert cart item")
	}
	if err := r.fillProduct(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// SetItemQuantity overwrites the quantity of an existing (cart, product) row.
func (r *CartRepository) SetItemQuantity(ctx context.Context, cartID uuid.UUID, productID int64, quantity int) (*cart.Item, error) {
	item := cart.Item{ProductID: productID}
	err := r.pool.QueryRow(ctx, setCartItemQuantitySQL, cartID, productID, quantity).
		Scan(&item.ID, &item.Quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cart.ErrItemNotFound
		}
		return nil, errors.Wrap(err, "set cart item quantity")
	}
	if err := r.fillProduct(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteItem removes the (cart, product) row.
func (r *CartRepository) DeleteItem(ctx context.Context, cartID uuid.UUID, productID int64) error {
	tag, err := r.pool.Exec(ctx, deleteCartItemSQL, cartID, productID)
	if err != nil {
		return errors.Wrap(err, "delete cart item")
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrItemNotFound
	}
	return nil
}

func (r *CartRepository) fillProduct(ctx context.Context, item *cart.Item) error {
	err := r.pool.QueryRow(ctx, getCartItemProductSQL, item.ProductID).
		Scan(&item.ProductTitle, &item.UnitPrice)
	if err != nil {
		return errors.Wrapf(err, "get product %d for cart item", item.ProductID)
	}
	return nil
}

func scanCartItem(row pgx.CollectableRow) (cart.Item, error) {
	var item cart.Item
	err := row.Scan(&item.ID, &item.ProductID, &item.ProductTitle, &item.Quantity, &item.UnitPrice)
	return item, err
}
