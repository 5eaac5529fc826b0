package repository

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hivarunbhalla/Varun-Ecommerce-api/internal/domain/catalog"
)

const (
	listCollectionsSQL = `SELECT c.id, c.title, c.description, c.featured_product_id,
			(SELECT count(*) FROM products p WHERE p.collection_id = c.id) AS product_count
		FROM collections c ORDER BY c.title`

	getCollectionByIDSQL = `SELECT c.id, c.title, c.description, c.featured_product_id,
			(SELECT count(*) FROM products p WHERE p.collection_id = c.id) AS product_count
		FROM collections c WHERE c.id = $1`

	insertCollectionSQL = `INSERT INTO collections (title, description, featured_product_id)
		VALUES ($1, $2, $3) RETURNING id`

	updateCollectionSQL = `UPDATE collections
		SET title = $2, description = $3, featured_product_id = $4 WHERE id = $1`

	countCollectionProductsSQL = `SELECT count(*) FROM products WHERE collection_id = $1`

	deleteCollectionSQL = `DELETE FROM collections WHERE id = $1`
)

var _ catalog.CollectionRepository = (*CollectionRepository)(nil)

// CollectionRepository implements catalog.CollectionRepository backed by
// PostgreSQL.
type CollectionRepository struct {
	pool *pgxpool.Pool
}

// NewCollectionRepository returns a CollectionRepository that uses the given pool.
func NewCollectionRepository(pool *pgxpool.Pool) *CollectionRepository {
	return &CollectionRepository{pool: pool}
}

// List returns all collections ordered by title, with product counts.
func (r *CollectionRepository) List(ctx context.Context) ([]catalog.Collection, error) {
	rows, err := r.pool.Query(ctx, listCollectionsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list collections")
	}
	return pgx.CollectRows(rows, scanCollection)
}

// GetByID returns a single collection by its identifier.
func (r *CollectionRepository) GetByID(ctx context.Context, id int64) (*catalog.Collection, error) {
	rows, err := r.pool.Query(ctx, getCollectionByIDSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get collection %d", id)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCollection)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get collection %d", id)
	}
	return &c, nil
}

// Create inserts a new collection.
func (r *CollectionRepository) Create(ctx context.Context, c *catalog.Collection) error {
	err := r.pool.QueryRow(ctx, insertCollectionSQL,
		c.Title, c.Description, c.FeaturedProductID,
	).Scan(&c.ID)
	if err != nil {
		return errors.Wrap(err, "insert collection")
	}
	return nil
}

// Update rewrites the collection's attributes.
func (r *CollectionRepository) Update(ctx context.Context, c *catalog.Collection) error {
	tag, err := r.pool.Exec(ctx, updateCollectionSQL,
		c.ID, c.Title, c.Description, c.FeaturedProductID,
	)
	if err != nil {
		return errors.Wrapf(err, "update collection %d", c.ID)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

// Delete removes the collection unless products still reference it.
func (r *CollectionRepository) Delete(ctx context.Context, id int64) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var refs int
		if err := tx.QueryRow(ctx, countCollectionProductsSQL, id).Scan(&refs); err != nil {
			return errors.Wrapf(err, "count products for collection %d", id)
		}
		if refs > 0 {
			return catalog.ErrCollectionInUse
		}

		tag, err := tx.Exec(ctx, deleteCollectionSQL, id)
		if err != nil {
			return errors.Wrapf(err, "delete collection %d", id)
		}
		if tag.RowsAffected() == 0 {
			return catalog.ErrNotFound
		}
		return nil
	})
}

func scanCollection(row pgx.CollectableRow) (catalog.Collection, error) {
	var c catalog.Collection
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.FeaturedProductID, &c.ProductCount)
	return c, err
}
