package catalog

import "context"

// Collection groups products under a common heading. FeaturedProductID
// optionally highlights one product; there is no back-reference from the
// product side.
type Collection struct {
	ID                int64
	Title             string
	Description       string
	FeaturedProductID *int64
	// ProductCount is populated on reads for the deletion guard and listings.
	ProductCount int
}

// CollectionRepository defines persistence operations for collections.
type CollectionRepository interface {
	List(ctx context.Context) ([]Collection, error)
	GetByID(ctx context.Context, id int64) (*Collection, error)
	Create(ctx context.Context, c *Collection) error
	Update(ctx context.Context, c *Collection) error
	// Delete removes a collection. It returns ErrCollectionInUse while any
	// product still references the collection.
	Delete(ctx context.Context, id int64) error
}
