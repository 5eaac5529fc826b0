package catalog

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

// Sentinel errors for catalog lookups and deletion guards.
var (
	// ErrNotFound is returned when a requested catalog entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrProductInUse is returned when deleting a product that is still
	// referenced by order items. Historical orders keep their line items, so
	// the product must stay.
	ErrProductInUse = errors.New("product is referenced by order items")
	// ErrCollectionInUse is returned when deleting a collection that still
	// contains products.
	ErrCollectionInUse = errors.New("collection is referenced by products")
)

// Product is a catalog item available for purchase.
type Product struct {
	ID           int64
	Title        string
	Description  string
	SKU          string
	Slug         string
	UnitPrice    decimal.Decimal
	Inventory    int
	CollectionID *int64
	PromotionIDs []int64
	CreatedAt    time.Time
	LastUpdate   time.Time
}

// EnsureSlug derives the slug from the title when it has not been set.
// A slug is generated exactly once and never regenerated on later updates.
func (p *Product) EnsureSlug() {
	if p.Slug == "" {
		p.Slug = slug.Make(p.Title)
	}
}

// ProductFilter narrows and orders product listings. Zero values mean
// "no constraint".
type ProductFilter struct {
	CollectionID *int64
	PriceGTE     *decimal.Decimal
	PriceLTE     *decimal.Decimal
	// Search matches title or description, case-insensitively.
	Search string
	// OrderBy is one of "title", "unit_price", "inventory", "last_update".
	// Prefix with "-" for descending.
	OrderBy string
}

// ProductRepository defines persistence operations for the product catalog.
type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	// Delete removes a product. It returns ErrProductInUse when any order
	// item still references the product.
	Delete(ctx context.Context, id int64) error
}
