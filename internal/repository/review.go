package repository

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hivarunbhalla/Varun-Ecommerce-api/internal/domain/catalog"
)

const (
	productExistsSQL = `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`

	insertReviewSQL = `INSERT INTO reviews (product_id, rating, title, description)
		VALUES ($1, $2, $3, $4) RETURNING id, date`
)

var _ catalog.ReviewRepository = (*ReviewRepository)(nil)

// ReviewRepository implements catalog.ReviewRepository backed by PostgreSQL.
type ReviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository returns a ReviewRepository that uses the given pool.
func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// ListByProduct returns the product's reviews, newest first, optionally
// bounded by rating.
func (r *ReviewRepository) ListByProduct(ctx context.Context, productID int64, filter catalog.ReviewFilter) ([]catalog.Review, error) {
	if err := r.ensureProduct(ctx, productID); err != nil {
		return nil, err
	}

	sql := `SELECT id, product_id, rating, title, description, date FROM reviews WHERE product_id = $1`
	args := []any{productID}
	if filter.MinRating != nil {
		args = append(args, *filter.MinRating)
		sql += ` AND rating >= $2`
	}
	if filter.MaxRating != nil {
		args = append(args, *filter.MaxRating)
		if len(args) == 3 {
			sql += ` AND rating <= $3`
		} else {
			sql += ` AND rating <= $2`
		}
	}
	sql += ` ORDER BY date DESC, id DESC`

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "list reviews for product %d", productID)
	}
	return pgx.CollectRows(rows, scanReview)
}

// Create stores a review for an existing product.
func (r *ReviewRepository) Create(ctx context.Context, rv *catalog.Review) error {
	if err := r.ensureProduct(ctx, rv.ProductID); err != nil {
		return err
	}

	err := r.pool.QueryRow(ctx, insertReviewSQL,
		rv.ProductID, rv.Rating, rv.Title, rv.Description,
	).Scan(&rv.ID, &rv.Date)
	if err != nil {
		return errors.Wrap(err, "insert review")
	}
	return nil
}

func (r *ReviewRepository) ensureProduct(ctx context.Context, productID int64) error {
	var exists bool
	if err := r.pool.QueryRow(ctx, productExistsSQL, productID).Scan(&exists); err != nil {
		return errors.Wrapf(err, "check product %d", productID)
	}
	if !exists {
		return catalog.ErrNotFound
	}
	return nil
}

func scanReview(row pgx.CollectableRow) (catalog.Review, error) {
	var rv catalog.Review
	err := row.Scan(&rv.ID, &rv.ProductID, &rv.Rating, &rv.Title, &rv.Description, &rv.Date)
	return rv, err
}
