package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hivarunbhalla/Varun-Ecommerce-api/internal/domain/customer"
	"github.com/hivarunbhalla/Varun-Ecommerce-api/internal/domain/order"
)

type placeOrderRequest struct {
	CartID string `json:"cart_id" validate:"required"`
}

type orderUpdateRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required"`
}

type orderItemResponse struct {
	ID           int64           `json:"id"`
	ProductID    int64           `json:"product_id"`
	ProductTitle string          `json:"product_title"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
}

type orderResponse struct {
	ID            int64               `json:"id"`
	CustomerID    int64               `json:"customer_id"`
	PlacedAt      time.Time           `json:"placed_at"`
	PaymentStatus string              `json:"payment_status"`
	Items         []orderItemResponse `json:"items"`
	Total         decimal.Decimal     `json:"total"`
}

func toOrderItemResponse(it order.Item) orderItemResponse {
	return orderItemResponse{
		ID:           it.ID,
		ProductID:    it.ProductID,
		ProductTitle: it.ProductTitle,
		Quantity:     it.Quantity,
		UnitPrice:    it.UnitPrice,
	}
}

func toOrderResponse(o *order.Order) orderResponse {
	items := make([]orderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = toOrderItemResponse(it)
	}
	return orderResponse{
		ID:            o.ID,
		CustomerID:    o.CustomerID,
		PlacedAt:      o.PlacedAt,
		PaymentStatus: string(o.PaymentStatus),
		Items:         items,
		Total:         o.Total(),
	}
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req placeOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondFieldErrors(w, map[string]string{"body": err.Error()})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondFieldErrors(w, fieldErrors(err))
		return
	}

	cartID, err := uuid.Parse(req.CartID)
	if err != nil {
		respondFieldErrors(w, map[string]string{"cart_id": "no cart with the given id exists"})
		return
	}

	o, err := h.orders.PlaceOrder(r.Context(), cartID, ident.UserID)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrCartNotFound):
			respondFieldErrors(w, map[string]string{"cart_id": "no cart with the given id exists"})
		case errors.Is(err, order.ErrCartEmpty):
			respondFieldErrors(w, map[string]string{"cart_id": "the cart is empty"})
		default:
			respondInternal(w, r, err)
		}
		return
	}
	respondJSON(w, http.StatusCreated, toOrderResponse(o))
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	orders, err := h.orders.List(r.Context(), ident)
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			respondError(w, http.StatusNotFound, kindNotFound, "no customer profile for the authenticated user")
			return
		}
		respondInternal(w, r, err)
		return
	}

	out := make([]orderResponse, len(orders))
	for i := range orders {
		out[i] = toOrderResponse(&orders[i])
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusNotFound, kindNotFound, "order not found")
		return
	}

	o, err := h.orders.Get(r.Context(), ident, id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) || errors.Is(err, customer.ErrNotFound) {
			respondError(w, http.StatusNotFound, kindNotFound, "order not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderResponse(o))
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireStaff(w, r)
	if !ok {
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusNotFound, kindNotFound, "order not found")
		return
	}

	var req orderUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondFieldErrors(w, map[string]string{"body": err.Error()})
		return
	}
	status := order.PaymentStatus(req.PaymentStatus)
	if !status.Valid() {
		respondFieldErrors(w, map[string]string{"payment_status": "must be one of P, C, F"})
		return
	}

	if err := h.orders.SetPaymentStatus(r.Context(), id, status); err != nil {
		if errors.Is(err, order.ErrNotFound) {
			respondError(w, http.StatusNotFound, kindNotFound, "order not found")
			return
		}
		respondInternal(w, r, err)
		return
	}

	o, err := h.orders.Get(r.Context(), ident, id)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderResponse(o))
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusNotFound, kindNotFound, "order not found")
		return
	}

	if err := h.orders.Delete(r.Context(), id); err != nil {
		if errors.Is(err, order.ErrNotFound) {
			respondError(w, http.StatusNotFound, kindNotFound, "order not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listOrderItems(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusNotFound, kindNotFound, "order not found")
		return
	}

	o, err := h.orders.Get(r.Context(), ident, id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) || errors.Is(err, customer.ErrNotFound) {
			respondError(w, http.StatusNotFound, kindNotFound, "order not found")
			return
		}
		respondInternal(w, r, err)
		return
	}

	out := make([]orderItemResponse, len(o.Items))
	for i, it := range o.Items {
		out[i] = toOrderItemResponse(it)
	}
	respondJSON(w, http.StatusOK, out)
}
