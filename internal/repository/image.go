package repository

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hivarunbhalla/Varun-Ecommerce-api/internal/domain/catalog"
)

const (
	listImagesSQL = `SELECT id, product_id, path, size_bytes
		FROM product_images WHERE product_id = $1 ORDER BY id`

	insertImageSQL = `INSERT INTO product_images (product_id, path, size_bytes)
		VALUES ($1, $2, $3) RETURNING id`
)

var _ catalog.ImageRepository = (*ImageRepository)(nil)

// ImageRepository implements catalog.ImageRepository backed by PostgreSQL.
type ImageRepository struct {
	pool *pgxpool.Pool
}

// NewImageRepository returns an ImageRepository that uses the given pool.
func NewImageRepository(pool *pgxpool.Pool) *ImageRepository {
	return &ImageRepository{pool: pool}
}

// ListByProduct returns the product's image records.
func (r *ImageRepository) ListByProduct(ctx context.Context, productID int64) ([]catalog.Image, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, productExistsSQL, productID).Scan(&exists); err != nil {
		return nil, errors.Wrapf(err, "check product %d", productID)
	}
	if !exists {
		return nil, catalog.ErrNotFound
	}

	rows, err := r.pool.Query(ctx, listImagesSQL, productID)
	if err != nil {
		return nil, errors.Wrapf(err, "list images for product %d", productID)
	}
	return pgx.CollectRows(rows, scanImage)
}

// Create stores an image record for an existing product.
func (r *ImageRepository) Create(ctx context.Context, img *catalog.Image) error {
	var exists bool
	if err := r.pool.QueryRow(ctx, productExistsSQL, img.ProductID).Scan(&exists); err != nil {
		return errors.Wrapf(err, "check product %d", img.ProductID)
	}
	if !exists {
		return catalog.ErrNotFound
	}

	err := r.pool.QueryRow(ctx, insertImageSQL, img.ProductID, img.Path, img.SizeBytes).Scan(&img.ID)
	if err != nil {
		return errors.Wrap(err, "insert image")
	}
	return nil
}

func scanImage(row pgx.CollectableRow) (catalog.Image, error) {
	var img catalog.Image
	err := row.Scan(&img.ID, &img.ProductID, &img.Path, &img.SizeBytes)
	return img, err
}
