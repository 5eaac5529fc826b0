package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hivarunbhalla/Varun-Ecommerce-api/internal/domain/catalog"
)

const productColumns = `id, title, description, sku, slug, unit_price, inventory, collection_id, created_at, last_update`

const (
	getProductByIDSQL = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	insertProductSQL = `INSERT INTO products (title, description, sku, slug, unit_price, inventory, collection_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, last_update`

	updateProductSQL = `UPDATE products
		SET title = $2, description = $3, sku = $4, unit_price = $5, inventory = $6,
			collection_id = $7, last_update = now()
		WHERE id = $1
		RETURNING slug, created_at, last_update`

	countProductOrderItemsSQL = `SELECT count(*) FROM order_items WHERE product_id = $1`

	deleteProductSQL = `DELETE FROM products WHERE id = $1`

	getProductPromotionsSQL = `SELECT promotion_id FROM product_promotions WHERE product_id = $1 ORDER BY promotion_id`

	deleteProductPromotionsSQL = `DELETE FROM product_promotions WHERE product_id = $1`

	insertProductPromotionSQL = `INSERT INTO product_promotions (product_id, promotion_id)
		VALUES ($1, $2) ON CONFLICT DO NOTHING`
)

var _ catalog.ProductRepository = (*ProductRepository)(nil)

// ProductRepository implements catalog.ProductRepository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// orderColumns maps the filter's OrderBy values onto real column names so no
// caller-controlled text reaches the query.
var orderColumns = map[string]string{
	"title":       "title",
	"unit_price":  "unit_price",
	"inventory":   "inventory",
	"last_update": "last_update",
}

// List returns products matching the filter. Filtering, search, and ordering
// are composed server-side; unknown OrderBy values fall back to id order.
func (r *ProductRepository) List(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`SELECT ` + productColumns + ` FROM products`)

	var conds []string
	if filter.CollectionID != nil {
		args = append(args, *filter.CollectionID)
		conds = append(conds, fmt.Sprintf("collection_id = $%d", len(args)))
	}
	if filter.PriceGTE != nil {
		args = append(args, *filter.PriceGTE)
		conds = append(conds, fmt.Sprintf("unit_price >= $%d", len(args)))
	}
	if filter.PriceLTE != nil {
		args = append(args, *filter.PriceLTE)
		conds = append(conds, fmt.Sprintf("unit_price <= $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}
	if len(conds) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}

	orderBy, desc := strings.TrimPrefix(filter.OrderBy, "-"), strings.HasPrefix(filter.OrderBy, "-")
	if col, ok := orderColumns[orderBy]; ok {
		sb.WriteString(" ORDER BY " + col)
		if desc {
			sb.WriteString(" DESC")
		}
	} else {
		sb.WriteString(" ORDER BY id")
	}

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single product with its attached promotion ids.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*catalog.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get product %d", id)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get product %d", id)
	}

	if p.PromotionIDs, err = r.promotionIDs(ctx, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts the product and its promotion attachments. The slug must be
// set by the caller (see catalog.Product.EnsureSlug); it is written once and
// never touched by Update.
func (r *ProductRepository) Create(ctx context.Context, p *catalog.Product) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, insertProductSQL,
			p.Title, p.Description, p.SKU, p.Slug, p.UnitPrice, p.Inventory, p.CollectionID,
		).Scan(&p.ID, &p.CreatedAt, &p.LastUpdate)
		if err != nil {
			return errors.Wrap(err, "insert product")
		}
		return attachPromotions(ctx, tx, p.ID, p.PromotionIDs)
	})
}

// Update rewrites every mutable attribute. The slug is deliberately not in the
// statement: it is generated once at creation.
func (r *ProductRepository) Update(ctx context.Context, p *catalog.Product) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, updateProductSQL,
			p.ID, p.Title, p.Description, p.SKU, p.UnitPrice, p.Inventory, p.CollectionID,
		).Scan(&p.Slug, &p.CreatedAt, &p.LastUpdate)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return catalog.ErrNotFound
			}
			return errors.Wrapf(err, "update product %d", p.ID)
		}
		if _, err := tx.Exec(ctx, deleteProductPromotionsSQL, p.ID); err != nil {
			return errors.Wrap(err, "clear product promotions")
		}
		return attachPromotions(ctx, tx, p.ID, p.PromotionIDs)
	})
}

// Delete removes the product unless order items reference it. The count check
// mirrors the deletion guard; the RESTRICT constraint backs it up against
// races.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var refs int
		if err := tx.QueryRow(ctx, countProductOrderItemsSQL, id).Scan(&refs); err != nil {
			return errors.Wrapf(err, "count order items for product %d", id)
		}
		if refs > 0 {
			return catalog.ErrProductInUse
		}

		tag, err := tx.Exec(ctx, deleteProductSQL, id)
		if err != nil {
			return errors.Wrapf(err, "delete product %d", id)
		}
		if tag.RowsAffected() == 0 {
			return catalog.ErrNotFound
		}
		return nil
	})
}

func (r *ProductRepository) promotionIDs(ctx context.Context, productID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx, getProductPromotionsSQL, productID)
	if err != nil {
		return nil, errors.Wrap(err, "list product promotions")
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (int64, error) {
		var id int64
		err := row.Scan(&id)
		return id, err
	})
}

func attachPromotions(ctx context.Context, tx pgx.Tx, productID int64, promotionIDs []int64) error {
	for _, pid := range promotionIDs {
		if _, err := tx.Exec(ctx, insertProductPromotionSQL, productID, pid); err != nil {
			return errors.Wrapf(err, "attach promotion %d", pid)
		}
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (catalog.Product, error) {
	var p catalog.Product
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.SKU, &p.Slug,
		&p.UnitPrice, &p.Inventory, &p.CollectionID, &p.CreatedAt, &p.LastUpdate,
	)
	return p, err
}
