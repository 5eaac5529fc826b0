package cart

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sentinel errors for cart operations.
var (
	// ErrNotFound is returned when the cart id is unknown.
	ErrNotFound = errors.New("cart not found")
	// ErrItemNotFound is returned when the cart holds no item for the product.
	ErrItemNotFound = errors.New("cart item not found")
	// ErrInvalidQuantity is returned for quantities below one.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// Cart is an ephemeral pre-order container. It is retired the moment it
// converts into an order.
type Cart struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Items     []Item
}

// Item is one product line in a cart. UnitPrice and ProductTitle carry the
// product's current values, joined in at read time; they are not stored on
// the item itself.
type Item struct {
	ID           int64
	ProductID    int64
	ProductTitle string
	Quantity     int
	UnitPrice    decimal.Decimal
}

// Total sums quantity times the current unit price over all items. It is
// computed at read time and never cached.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// Repository defines persistence operations for carts and their items.
type Repository interface {
	Create(ctx context.Context, c *Cart) error
	// Get returns the cart with items and current product prices joined in.
	// It returns ErrNotFound for unknown ids.
	Get(ctx context.Context, id uuid.UUID) (*Cart, error)
	// Delete removes the cart and all its items. It returns ErrNotFound for
	// unknown ids.
	Delete(ctx context.Context, id uuid.UUID) error

	// UpsertItem merges quantity into the (cart, product) row: an existing
	// row has delta added to its quantity, otherwise a new row is created
	// with quantity delta. The resulting item is returned. The merge is a
	// single atomic statement; concurrent calls converge on one row.
	UpsertItem(ctx context.Context, cartID uuid.UUID, productID int64, delta int) (*Item, error)
	// SetItemQuantity overwrites the quantity of an existing item. It returns
	// ErrItemNotFound when the (cart, product) row does not exist.
	SetItemQuantity(ctx context.Context, cartID uuid.UUID, productID int64, quantity int) (*Item, error)
	// DeleteItem removes the (cart, product) row. It returns ErrItemNotFound
	// when no such row exists.
	DeleteItem(ctx context.Context, cartID uuid.UUID, productID int64) error
}
