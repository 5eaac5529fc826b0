package catalog

import (
	"context"

	"github.com/go-faster/errors"
)

// MaxImageSize is the largest accepted product image, in bytes.
const MaxImageSize = 500 * 1024

// ErrImageTooLarge is returned when an uploaded image exceeds MaxImageSize.
var ErrImageTooLarge = errors.New("image exceeds maximum allowed size")

// Image records a stored image file for a product. Only the path and
// size are tracked here; file storage itself lives outside this service.
type Image struct {
	ID        int64
	ProductID int64
	Path      string
	SizeBytes int64
}

// ImageRepository defines persistence operations for product images.
type ImageRepository interface {
	// ListByProduct returns images for one product. It returns ErrNotFound
	// when the product does not exist.
	ListByProduct(ctx context.Context, productID int64) ([]Image, error)
	// Create stores an image record. It returns ErrNotFound when the product
	// does not exist.
	Create(ctx context.Context, img *Image) error
}
