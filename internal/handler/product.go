package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/hivarunbhalla/Varun-Ecommerce-api/internal/domain/catalog"
)

type productRequest struct {
	Title        string          `json:"title" validate:"required"`
	Description  string          `json:"description"`
	SKU          string          `json:"sku"`
	Slug         string          `json:"slug"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Inventory    int             `json:"inventory" validate:"gte=0"`
	CollectionID *int64          `json:"collection_id"`
	PromotionIDs []int64         `json:"promotion_ids"`
}

type productResponse struct {
	ID           int64           `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	SKU          string          `json:"sku"`
	Slug         string          `json:"slug"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Inventory    int             `json:"inventory"`
	CollectionID *int64          `json:"collection_id"`
	PromotionIDs []int64         `json:"promotion_ids,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	LastUpdate   time.Time       `json:"last_update"`
}

func toProductResponse(p catalog.Product) productResponse {
	return productResponse{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		SKU:          p.SKU,
		Slug:         p.Slug,
		UnitPrice:    p.UnitPrice,
		Inventory:    p.Inventory,
		CollectionID: p.CollectionID,
		PromotionIDs: p.PromotionIDs,
		CreatedAt:    p.CreatedAt,
		LastUpdate:   p.LastUpdate,
	}
}

// minUnitPrice mirrors the storage-level CHECK on products.unit_price.
var minUnitPrice = decimal.NewFromInt(1)

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := parseProductFilter(r)
	if err != nil {
		respondFieldErrors(w, map[string]string{"query": err.Error()})
		return
	}

	products, err := h.products.List(r.Context(), filter)
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusNotFound, kindNotFound, "product not found")
		return
	}

	p, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			respondError(w, http.StatusNotFound, kindNotFound, "product not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toProductResponse(*p))
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		respondFieldErrors(w, map[string]string{"body": err.Error()})
		return
	}
	if fields, ok := h.validateProduct(req); !ok {
		respondFieldErrors(w, fields)
		return
	}

	p := catalog.Product{
		Title:        req.Title,
		Description:  req.Description,
		SKU:          req.SKU,
		Slug:         req.Slug,
		UnitPrice:    req.UnitPrice,
		Inventory:    req.Inventory,
		CollectionID: req.CollectionID,
		PromotionIDs: req.PromotionIDs,
	}
	p.EnsureSlug()

	if err := h.products.Create(r.Context(), &p); err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toProductResponse(p))
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusNotFound, kindNotFound, "product not found")
		return
	}

	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		respondFieldErrors(w, map[string]string{"body": err.Error()})
		return
	}
	if fields, ok := h.validateProduct(req); !ok {
		respondFieldErrors(w, fields)
		return
	}

	p := catalog.Product{
		ID:           id,
		Title:        req.Title,
		Description:  req.Description,
		SKU:          req.SKU,
		UnitPrice:    req.UnitPrice,
		Inventory:    req.Inventory,
		CollectionID: req.CollectionID,
		PromotionIDs: req.PromotionIDs,
	}
	// Slug deliberately not taken from the request on update: it is
	// generated once at creation and never regenerated.

	if err := h.products.Update(r.Context(), &p); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			respondError(w, http.StatusNotFound, kindNotFound, "product not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toProductResponse(p))
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusNotFound, kindNotFound, "product not found")
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			respondError(w, http.StatusNotFound, kindNotFound, "product not found")
		case errors.Is(err, catalog.ErrProductInUse):
			respondError(w, http.StatusBadRequest, kindConflict,
				"product cannot be deleted because it is associated with order items")
		default:
			respondInternal(w, r, err)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) validateProduct(req productRequest) (map[string]string, bool) {
	if err := h.validate.Struct(req); err != nil {
		return fieldErrors(err), false
	}
	if req.UnitPrice.LessThan(minUnitPrice) {
		return map[string]string{"unit_price": "must be at least 1.00"}, false
	}
	return nil, true
}

func parseProductFilter(r *http.Request) (catalog.ProductFilter, error) {
	q := r.URL.Query()
	filter := catalog.ProductFilter{
		Search:  q.Get("search"),
		OrderBy: q.Get("ordering"),
	}

	if raw := q.Get("collection_id"); raw != "" {
		id, err := parseInt64(raw)
		if err != nil {
			return filter, errors.Errorf("invalid collection_id %q", raw)
		}
		filter.CollectionID = &id
	}
	if raw := q.Get("unit_price_gte"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, errors.Errorf("invalid unit_price_gte %q", raw)
		}
		filter.PriceGTE = &d
	}
	if raw := q.Get("unit_price_lte"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, errors.Errorf("invalid unit_price_lte %q", raw)
		}
		filter.PriceLTE = &d
	}
	return filter, nil
}
