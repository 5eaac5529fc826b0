package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"

	"github.com/hivarunbhalla/Varun-Ecommerce-api/internal/domain/customer"
)

type customerUpdateRequest struct {
	Phone      string     `json:"phone"`
	BirthDate  *time.Time `json:"birth_date"`
	Membership string     `json:"membership"`
}

type customerResponse struct {
	ID         int64      `json:"id"`
	UserID     string     `json:"user_id"`
	Phone      string     `json:"phone"`
	BirthDate  *time.Time `json:"birth_date"`
	Membership string     `json:"membership"`
}

func toCustomerResponse(c customer.Customer) customerResponse {
	return customerResponse{
		ID:         c.ID,
		UserID:     c.UserID,
		Phone:      c.Phone,
		BirthDate:  c.BirthDate,
		Membership: string(c.Membership),
	}
}

func (h *Handler) getMe(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	c, err := h.customers.GetOrCreate(r.Context(), ident.UserID)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCustomerResponse(*c))
}

func (h *Handler) updateMe(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req customerUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondFieldErrors(w, map[string]string{"body": err.Error()})
		return
	}

	c, err := h.customers.GetOrCreate(r.Context(), ident.UserID)
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	c.Phone = req.Phone
	c.BirthDate = req.BirthDate
	if req.Membership != "" {
		// Membership changes are a staff concern; customers keep their tier.
		if !ident.IsStaff() {
			respondError(w, http.StatusForbidden, kindPermissionDenied,
				"membership can only be changed by staff")
			return
		}
		m := customer.Membership(req.Membership)
		if !m.Valid() {
			respondFieldErrors(w, map[string]string{"membership": "must be one of B, S, G"})
			return
		}
		c.Membership = m
	}

	if err := h.customers.Update(r.Context(), c); err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCustomerResponse(*c))
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	customers, err := h.customers.List(r.Context())
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	out := make([]customerResponse, len(customers))
	for i, c := range customers {
		out[i] = toCustomerResponse(c)
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusNotFound, kindNotFound, "customer not found")
		return
	}

	c, err := h.customers.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			respondError(w, http.StatusNotFound, kindNotFound, "customer not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCustomerResponse(*c))
}
