package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-faster/errors"

	"github.com/hivarunbhalla/Varun-Ecommerce-api/internal/domain/catalog"
)

type reviewRequest struct {
	Rating      int    `json:"rating" validate:"required,min=1,max=5"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

type reviewResponse struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"product_id"`
	Rating      int       `json:"rating"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}

func toReviewResponse(rv catalog.Review) reviewResponse {
	return reviewResponse{
		ID:          rv.ID,
		ProductID:   rv.ProductID,
		Rating:      rv.Rating,
		Title:       rv.Title,
		Description: rv.Description,
		Date:        rv.Date,
	}
}

func (h *Handler) listReviews(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusNotFound, kindNotFound, "product not found")
		return
	}

	filter, err := parseReviewFilter(r)
	if err != nil {
		respondFieldErrors(w, map[string]string{"query": err.Error()})
		return
	}

	reviews, err := h.reviews.ListByProduct(r.Context(), productID, filter)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			respondError(w, http.StatusNotFound, kindNotFound, "product not found")
			return
		}
		respondInternal(w, r, err)
		return
	}

	out := make([]reviewResponse, len(reviews))
	for i, rv := range reviews {
		out[i] = toReviewResponse(rv)
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) createReview(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusNotFound, kindNotFound, "product not found")
		return
	}

	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		respondFieldErrors(w, map[string]string{"body": err.Error()})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondFieldErrors(w, fieldErrors(err))
		return
	}

	rv := catalog.Review{
		ProductID:   productID,
		Rating:      req.Rating,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := h.reviews.Create(r.Context(), &rv); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			respondError(w, http.StatusNotFound, kindNotFound, "product not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toReviewResponse(rv))
}

func parseReviewFilter(r *http.Request) (catalog.ReviewFilter, error) {
	q := r.URL.Query()
	var filter catalog.ReviewFilter

	if raw := q.Get("rating_gte"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return filter, errors.Errorf("invalid rating_gte %q", raw)
		}
		filter.MinRating = &n
	}
	if raw := q.Get("rating_lte"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return filter, errors.Errorf("invalid rating_lte %q", raw)
		}
		filter.MaxRating = &n
	}
	return filter, nil
}
