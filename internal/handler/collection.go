package handler

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/hivarunbhalla/Varun-Ecommerce-api/internal/domain/catalog"
)

type collectionRequest struct {
	Title             string `json:"title" validate:"required"`
	Description       string `json:"description"`
	FeaturedProductID *int64 `json:"featured_product_id"`
}

type collectionResponse struct {
	ID                int64  `json:"id"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	FeaturedProductID *int64 `json:"featured_product_id"`
	ProductCount      int    `json:"product_count"`
}

func toCollectionResponse(c catalog.Collection) collectionResponse {
	return collectionResponse{
		ID:                c.ID,
		Title:             c.Title,
		Description:       c.Description,
		FeaturedProductID: c.FeaturedProductID,
		ProductCount:      c.ProductCount,
	}
}

func (h *Handler) listCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := h.collections.List(r.Context())
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	out := make([]collectionResponse, len(collections))
	for i, c := range collections {
		out[i] = toCollectionResponse(c)
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) getCollection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusNotFound, kindNotFound, "collection not found")
		return
	}

	c, err := h.collections.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			respondError(w, http.StatusNotFound, kindNotFound, "collection not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCollectionResponse(*c))
}

func (h *Handler) createCollection(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	var req collectionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondFieldErrors(w, map[string]string{"body": err.Error()})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondFieldErrors(w, fieldErrors(err))
		return
	}

	c := catalog.Collection{
		Title:             req.Title,
		Description:       req.Description,
		FeaturedProductID: req.FeaturedProductID,
	}
	if err := h.collections.Create(r.Context(), &c); err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toCollectionResponse(c))
}

func (h *Handler) updateCollection(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusNotFound, kindNotFound, "collection not found")
		return
	}

	var req collectionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondFieldErrors(w, map[string]string{"body": err.Error()})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondFieldErrors(w, fieldErrors(err))
		return
	}

	c := catalog.Collection{
		ID:                id,
		Title:             req.Title,
		Description:       req.Description,
		FeaturedProductID: req.FeaturedProductID,
	}
	if err := h.collections.Update(r.Context(), &c); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			respondError(w, http.StatusNotFound, kindNotFound, "collection not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCollectionResponse(c))
}

func (h *Handler) deleteCollection(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusNotFound, kindNotFound, "collection not found")
		return
	}

	if err := h.collections.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			respondError(w, http.StatusNotFound, kindNotFound, "collection not found")
		case errors.Is(err, catalog.ErrCollectionInUse):
			respondError(w, http.StatusBadRequest, kindConflict,
				"collection cannot be deleted because it contains products")
		default:
			respondInternal(w, r, err)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
