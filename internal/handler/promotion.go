package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/hivarunbhalla/Varun-Ecommerce-api/internal/domain/catalog"
)

type promotionResponse struct {
	ID            int64            `json:"id"`
	Code          string           `json:"code"`
	Description   string           `json:"description"`
	DiscountType  string           `json:"discount_type"`
	DiscountValue *decimal.Decimal `json:"discount_value,omitempty"`
}

func toPromotionResponse(p catalog.Promotion) promotionResponse {
	return promotionResponse{
		ID:            p.ID,
		Code:          p.Code,
		Description:   p.Description,
		DiscountType:  string(p.DiscountType),
		DiscountValue: p.DiscountValue,
	}
}

func (h *Handler) listPromotions(w http.ResponseWriter, r *http.Request) {
	promotions, err := h.promotions.List(r.Context())
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	out := make([]promotionResponse, len(promotions))
	for i, p := range promotions {
		out[i] = toPromotionResponse(p)
	}
	respondJSON(w, http.StatusOK, out)
}
