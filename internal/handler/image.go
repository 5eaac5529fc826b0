package handler

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/hivarunbhalla/Varun-Ecommerce-api/internal/domain/catalog"
)

type imageRequest struct {
	Path      string `json:"path" validate:"required"`
	SizeBytes int64  `json:"size_bytes" validate:"required,min=1"`
}

type imageResponse struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
}

func toImageResponse(img catalog.Image) imageResponse {
	return imageResponse{
		ID:        img.ID,
		ProductID: img.ProductID,
		Path:      img.Path,
		SizeBytes: img.SizeBytes,
	}
}

func (h *Handler) listImages(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusNotFound, kindNotFound, "product not found")
		return
	}

	images, err := h.images.ListByProduct(r.Context(), productID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			respondError(w, http.StatusNotFound, kindNotFound, "product not found")
			return
		}
		respondInternal(w, r, err)
		return
	}

	out := make([]imageResponse, len(images))
	for i, img := range images {
		out[i] = toImageResponse(img)
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) createImage(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	productID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusNotFound, kindNotFound, "product not found")
		return
	}

	var req imageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondFieldErrors(w, map[string]string{"body": err.Error()})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondFieldErrors(w, fieldErrors(err))
		return
	}
	if req.SizeBytes > catalog.MaxImageSize {
		respondFieldErrors(w, map[string]string{"size_bytes": "image exceeds the 500 KiB limit"})
		return
	}

	img := catalog.Image{
		ProductID: productID,
		Path:      req.Path,
		SizeBytes: req.SizeBytes,
	}
	if err := h.images.Create(r.Context(), &img); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			respondError(w, http.StatusNotFound, kindNotFound, "product not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toImageResponse(img))
}
