package repository

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hivarunbhalla/Varun-Ecommerce-api/internal/domain/catalog"
)

const (
	listPromotionsSQL = `SELECT id, code, description, discount_type, discount_value
		FROM promotions ORDER BY code`

	getPromotionByCodeSQL = `SELECT id, code, description, discount_type, discount_value
		FROM promotions WHERE code = $1`

	upsertPromotionSQL = `INSERT INTO promotions (code, description, discount_type, discount_value)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (code) DO UPDATE
		SET description = EXCLUDED.description,
			discount_type = EXCLUDED.discount_type,
			discount_value = EXCLUDED.discount_value
		RETURNING id`
)

var _ catalog.PromotionRepository = (*PromotionRepository)(nil)

// PromotionRepository implements catalog.PromotionRepository backed by
// PostgreSQL.
type PromotionRepository struct {
	pool *pgxpool.Pool
}

// NewPromotionRepository returns a PromotionRepository that uses the given pool.
func NewPromotionRepository(pool *pgxpool.Pool) *PromotionRepository {
	return &PromotionRepository{pool: pool}
}

// List returns all promotions ordered by code.
func (r *PromotionRepository) List(ctx context.Context) ([]catalog.Promotion, error) {
	rows, err := r.pool.Query(ctx, listPromotionsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list promotions")
	}
	return pgx.CollectRows(rows, scanPromotion)
}

// GetByCode returns a single promotion by its code.
func (r *PromotionRepository) GetByCode(ctx context.Context, code string) (*catalog.Promotion, error) {
	rows, err := r.pool.Query(ctx, getPromotionByCodeSQL, code)
	if err != nil {
		return nil, errors.Wrapf(err, "get promotion %q", code)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanPromotion)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get promotion %q", code)
	}
	return &p, nil
}

// Upsert inserts the promotion or refreshes an existing one by code.
func (r *PromotionRepository) Upsert(ctx context.Context, p *catalog.Promotion) error {
	err := r.pool.QueryRow(ctx, upsertPromotionSQL,
		p.Code, p.Description, p.DiscountType, p.DiscountValue,
	).Scan(&p.ID)
	if err != nil {
		return errors.Wrapf(err, "upsert promotion %q", p.Code)
	}
	return nil
}

func scanPromotion(row pgx.CollectableRow) (catalog.Promotion, error) {
	var p catalog.Promotion
	err := row.Scan(&p.ID, &p.Code, &p.Description, &p.DiscountType, &p.DiscountValue)
	return p, err
}
