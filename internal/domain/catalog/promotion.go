package catalog

import (
	"context"

	"github.com/shopspring/decimal"
)

// DiscountType enumerates the supported promotion discount strategies.
type DiscountType string

const (
	DiscountPercentage  DiscountType = "PERCENTAGE"
	DiscountFixedAmount DiscountType = "FIXED_AMOUNT"
	DiscountBOGO        DiscountType = "BOGO"
	DiscountFreeShip    DiscountType = "FREE_SHIPPING"
)

// Promotion is a marketing discount that can be attached to any number of
// products. DiscountValue is nil for value-less types such as BOGO.
type Promotion struct {
	ID            int64
	Code          string
	Description   string
	DiscountType  DiscountType
	DiscountValue *decimal.Decimal
}

// PromotionRepository defines persistence operations for promotions.
type PromotionRepository interface {
	List(ctx context.Context) ([]Promotion, error)
	GetByCode(ctx context.Context, code string) (*Promotion, error)
	// Upsert inserts the promotion or refreshes an existing one by code.
	Upsert(ctx context.Context, p *Promotion) error
}
