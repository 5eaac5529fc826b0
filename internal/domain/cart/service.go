package cart

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/hivarunbhalla/Varun-Ecommerce-api/internal/domain/catalog"
)

// Service mutates the contents of identified carts. All multi-request
// correctness comes from storage constraints: the (cart, product) uniqueness
// plus atomic upserts make concurrent adds converge on a single merged row.
type Service struct {
	carts    Repository
	products catalog.ProductRepository
}

// NewService creates a cart Service.
func NewService(carts Repository, products catalog.ProductRepository) *Service {
	return &Service{carts: carts, products: products}
}

// Create makes a new empty cart with a server-generated opaque id.
func (s *Service) Create(ctx context.Context) (*Cart, error) {
	c := &Cart{ID: uuid.New()}
	if err := s.carts.Create(ctx, c); err != nil {
		return nil, errors.Wrap(err, "create cart")
	}
	return c, nil
}

// Get returns the cart with its items and read-time total.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Cart, error) {
	return s.carts.Get(ctx, id)
}

// Delete discards the cart and its items.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.carts.Delete(ctx, id)
}

// AddItem puts quantity units of a product into the cart. When the cart
// already holds the product, the quantities merge; there is never more than
// one row per (cart, product) pair. The resulting item is returned.
func (s *Service) AddItem(ctx context.Context, cartID uuid.UUID, productID int64, quantity int) (*Item, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	if _, err := s.carts.Get(ctx, cartID); err != nil {
		return nil, err
	}
	item, err := s.carts.UpsertItem(ctx, cartID, productID, quantity)
	if err != nil {
		return nil, errors.Wrap(err, "upsert cart item")
	}
	return item, nil
}

// UpdateItemQuantity overwrites the stored quantity, unlike AddItem which
// merges into it.
func (s *Service) UpdateItemQuantity(ctx context.Context, cartID uuid.UUID, productID int64, quantity int) (*Item, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	item, err := s.carts.SetItemQuantity(ctx, cartID, productID, quantity)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveItem drops the product from the cart.
func (s *Service) RemoveItem(ctx context.Context, cartID uuid.UUID, productID int64) error {
	return s.carts.DeleteItem(ctx, cartID, productID)
}
