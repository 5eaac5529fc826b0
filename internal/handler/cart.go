package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/hivarunbhalla/Varun-Ecommerce-api/internal/domain/cart"
	"github.com/hivarunbhalla/Varun-Ecommerce-api/internal/domain/catalog"
)

type cartItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  int   `json:"quantity" validate:"required"`
}

type cartItemResponse struct {
	ID           int64           `json:"id"`
	ProductID    int64           `json:"product_id"`
	ProductTitle string          `json:"product_title"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
}

type cartResponse struct {
	ID        uuid.UUID          `json:"id"`
	CreatedAt time.Time          `json:"created_at"`
	Items     []cartItemResponse `json:"items"`
	Total     decimal.Decimal    `json:"total"`
}

func toCartItemResponse(it cart.Item) cartItemResponse {
	return cartItemResponse{
		ID:           it.ID,
		ProductID:    it.ProductID,
		ProductTitle: it.ProductTitle,
		Quantity:     it.Quantity,
		UnitPrice:    it.UnitPrice,
	}
}

func toCartResponse(c *cart.Cart) cartResponse {
	items := make([]cartItemResponse, len(c.Items))
	for i, it := range c.Items {
		items[i] = toCartItemResponse(it)
	}
	return cartResponse{
		ID:        c.ID,
		CreatedAt: c.CreatedAt,
		Items:     items,
		Total:     c.Total(),
	}
}

// cartID extracts the opaque cart identifier from the path. Malformed ids
// are indistinguishable from unknown ones.
func cartID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	return id, err == nil
}

func (h *Handler) createCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Create(r.Context())
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toCartResponse(c))
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	id, ok := cartID(r)
	if !ok {
		respondError(w, http.StatusNotFound, kindNotFound, "cart not found")
		return
	}

	c, err := h.carts.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, cart.ErrNotFound) {
			respondError(w, http.StatusNotFound, kindNotFound, "cart not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartResponse(c))
}

func (h *Handler) deleteCart(w http.ResponseWriter, r *http.Request) {
	id, ok := cartID(r)
	if !ok {
		respondError(w, http.StatusNotFound, kindNotFound, "cart not found")
		return
	}

	if err := h.carts.Delete(r.Context(), id); err != nil {
		if errors.Is(err, cart.ErrNotFound) {
			respondError(w, http.StatusNotFound, kindNotFound, "cart not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listCartItems(w http.ResponseWriter, r *http.Request) {
	id, ok := cartID(r)
	if !ok {
		respondError(w, http.StatusNotFound, kindNotFound, "cart not found")
		return
	}

	c, err := h.carts.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, cart.ErrNotFound) {
			respondError(w, http.StatusNotFound, kindNotFound, "cart not found")
			return
		}
		respondInternal(w, r, err)
		return
	}

	out := make([]cartItemResponse, len(c.Items))
	for i, it := range c.Items {
		out[i] = toCartItemResponse(it)
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	id, ok := cartID(r)
	if !ok {
		respondError(w, http.StatusNotFound, kindNotFound, "cart not found")
		return
	}

	var req cartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondFieldErrors(w, map[string]string{"body": err.Error()})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondFieldErrors(w, fieldErrors(err))
		return
	}

	item, err := h.carts.AddItem(r.Context(), id, req.ProductID, req.Quantity)
	if err != nil {
		h.respondCartItemError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toCartItemResponse(*item))
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	id, ok := cartID(r)
	if !ok {
		respondError(w, http.StatusNotFound, kindNotFound, "cart not found")
		return
	}

	var req cartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondFieldErrors(w, map[string]string{"body": err.Error()})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondFieldErrors(w, fieldErrors(err))
		return
	}

	item, err := h.carts.UpdateItemQuantity(r.Context(), id, req.ProductID, req.Quantity)
	if err != nil {
		h.respondCartItemError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartItemResponse(*item))
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	id, ok := cartID(r)
	if !ok {
		respondError(w, http.StatusNotFound, kindNotFound, "cart not found")
		return
	}

	productID, err := parseInt64(r.URL.Query().Get("product_id"))
	if err != nil {
		respondFieldErrors(w, map[string]string{"product_id": "required integer query parameter"})
		return
	}

	if err := h.carts.RemoveItem(r.Context(), id, productID); err != nil {
		h.respondCartItemError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondCartItemError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity):
		respondFieldErrors(w, map[string]string{"quantity": "must be at least 1"})
	case errors.Is(err, catalog.ErrNotFound):
		respondError(w, http.StatusNotFound, kindNotFound, "product not found")
	case errors.Is(err, cart.ErrNotFound):
		respondError(w, http.StatusNotFound, kindNotFound, "cart not found")
	case errors.Is(err, cart.ErrItemNotFound):
		respondError(w, http.StatusNotFound, kindNotFound, "cart item not found")
	default:
		respondInternal(w, r, err)
	}
}
