package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/hivarunbhalla/Varun-Ecommerce-api/internal/domain/auth"
	"github.com/hivarunbhalla/Varun-Ecommerce-api/internal/domain/cart"
	"github.com/hivarunbhalla/Varun-Ecommerce-api/internal/domain/customer"
)

// Service encapsulates order placement and scoped order access. Placement is
// the one multi-entity transactional operation in the system; everything it
// writes happens inside a single storage transaction owned by the Repository.
type Service struct {
	carts     cart.Repository
	customers customer.Repository
	orders    Repository
}

// NewService creates an order Service with the required dependencies.
func NewService(carts cart.Repository, customers customer.Repository, orders Repository) *Service {
	return &Service{
		carts:     carts,
		customers: customers,
		orders:    orders,
	}
}

// PlaceOrder converts the identified cart into an order owned by the customer
// record for userID, creating that record on first use. The returned order
// carries its items with unit prices frozen at placement time.
func (s *Service) PlaceOrder(ctx context.Context, cartID uuid.UUID, userID string) (*Order, error) {
	// Validate the cart reference up front so the caller gets a clean
	// validation error rather than a transaction failure.
	c, err := s.carts.Get(ctx, cartID)
	if err != nil {
		if errors.Is(err, cart.ErrNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, errors.Wrap(err, "get cart")
	}
	if len(c.Items) == 0 {
		return nil, ErrCartEmpty
	}

	// The conversion re-checks both conditions inside the transaction; the
	// cart may have been drained or deleted between the read above and here.
	o, err := s.orders.ConvertCart(ctx, cartID, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrCartNotFound), errors.Is(err, ErrCartEmpty):
			return nil, err
		default:
			return nil, errors.Wrap(err, "convert cart")
		}
	}
	return o, nil
}

// List returns the orders visible to the identity: staff callers see every
// order, customers see only their own. An identity without a customer record
// cannot have orders, so customer.ErrNotFound propagates.
func (s *Service) List(ctx context.Context, ident auth.Identity) ([]Order, error) {
	if ident.IsStaff() {
		return s.orders.List(ctx)
	}
	cust, err := s.customers.GetByUserID(ctx, ident.UserID)
	if err != nil {
		return nil, err
	}
	return s.orders.ListByCustomer(ctx, cust.ID)
}

// Get returns one order, subject to the same visibility rule as List.
// Orders belonging to other customers surface as ErrNotFound rather than a
// permission error so that order ids are not probeable.
func (s *Service) Get(ctx context.Context, ident auth.Identity, id int64) (*Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ident.IsStaff() {
		return o, nil
	}
	cust, err := s.customers.GetByUserID(ctx, ident.UserID)
	if err != nil {
		return nil, err
	}
	if o.CustomerID != cust.ID {
		return nil, ErrNotFound
	}
	return o, nil
}

// SetPaymentStatus updates the one mutable order attribute. Callers are
// expected to have checked staff privileges already.
func (s *Service) SetPaymentStatus(ctx context.Context, id int64, status PaymentStatus) error {
	return s.orders.UpdatePaymentStatus(ctx, id, status)
}

// Delete removes the order and its items.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.orders.Delete(ctx, id)
}
