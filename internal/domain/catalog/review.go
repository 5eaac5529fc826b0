package catalog

import (
	"context"
	"time"
)

// Review is customer feedback attached to a product. Rating is within [1, 5];
// the repository layer relies on the handler having validated it.
type Review struct {
	ID          int64
	ProductID   int64
	Rating      int
	Title       string
	Description string
	Date        time.Time
}

// ReviewFilter narrows review listings by rating bounds. Nil means unbounded.
type ReviewFilter struct {
	MinRating *int
	MaxRating *int
}

// ReviewRepository defines persistence operations for product reviews.
type ReviewRepository interface {
	// ListByProduct returns reviews for one product, newest first. It returns
	// ErrNotFound when the product does not exist.
	ListByProduct(ctx context.Context, productID int64, filter ReviewFilter) ([]Review, error)
	// Create stores a review. It returns ErrNotFound when the product does
	// not exist.
	Create(ctx context.Context, r *Review) error
}
