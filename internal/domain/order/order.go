package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sentinel errors for order placement and lookups.
var (
	// ErrCartNotFound is returned when the cart id given to PlaceOrder does
	// not reference an existing cart.
	ErrCartNotFound = errors.New("cart not found")
	// ErrCartEmpty is returned when the cart has no items.
	ErrCartEmpty = errors.New("cart is empty")
	// ErrNotFound is returned when a requested order does not exist.
	ErrNotFound = errors.New("order not found")
)

// PaymentStatus tracks the only mutable attribute of a placed order.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "P"
	PaymentComplete PaymentStatus = "C"
	PaymentFailed   PaymentStatus = "F"
)

// Valid reports whether s is one of the known payment statuses.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentComplete, PaymentFailed:
		return true
	}
	return false
}

// Order is the durable record of a completed cart-to-purchase conversion.
// Once its items are attached the order is immutable except for the payment
// status.
type Order struct {
	ID            int64
	CustomerID    int64
	PlacedAt      time.Time
	PaymentStatus PaymentStatus
	Items         []Item
}

// Item is one order line. UnitPrice is a snapshot copied from the product at
// placement time; later catalog price changes never affect it.
type Item struct {
	ID           int64
	ProductID    int64
	ProductTitle string
	Quantity     int
	UnitPrice    decimal.Decimal
}

// Total sums quantity times the frozen unit price over all items.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// Repository defines persistence operations for orders.
type Repository interface {
	// ConvertCart turns the cart's contents into a new order for the customer
	// belonging to userID, in one storage transaction:
	//
	//   1. the customer row is resolved or created (unique user_id constraint
	//      plus insert-on-conflict keeps concurrent calls from duplicating it),
	//   2. the order row is created with payment status pending,
	//   3. one order item per cart item is created, copying the product's
	//      unit price as read inside the same transaction,
	//   4. the cart and its items are deleted.
	//
	// Any failure rolls the whole transaction back: no order, no items, and
	// the cart remains intact so the caller can retry. ErrCartNotFound and
	// ErrCartEmpty report carts that disappeared or emptied concurrently.
	ConvertCart(ctx context.Context, cartID uuid.UUID, userID string) (*Order, error)

	GetByID(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]Order, error)
	// UpdatePaymentStatus returns ErrNotFound for unknown orders.
	UpdatePaymentStatus(ctx context.Context, id int64, status PaymentStatus) error
	// Delete removes the order together with its items in one transaction.
	Delete(ctx context.Context, id int64) error
}
