package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Error kinds surfaced to clients. Every error response carries one of these
// plus a human-readable message; validation failures add field-level detail.
const (
	kindValidation       = "validation"
	kindNotFound         = "not_found"
	kindConflict         = "conflict"
	kindUnauthenticated  = "unauthenticated"
	kindPermissionDenied = "permission_denied"
	kindInternal         = "internal"
)

// maxBodyBytes bounds request bodies; catalog payloads are small.
const maxBodyBytes = 1 << 20

type errorBody struct {
	Kind    string            `json:"kind"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func respondError(w http.ResponseWriter, status int, kind, message string) {
	respondJSON(w, status, errorResponse{Error: errorBody{Kind: kind, Message: message}})
}

func respondFieldErrors(w http.ResponseWriter, fields map[string]string) {
	respondJSON(w, http.StatusBadRequest, errorResponse{Error: errorBody{
		Kind:    kindValidation,
		Message: "invalid request",
		Fields:  fields,
	}})
}

// respondInternal logs the unexpected error with the request-scoped logger and
// hides the detail from the client. Storage failures land here; the order
// placement transaction has already rolled back by the time one surfaces, so
// the client may retry.
func respondInternal(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("request failed", zap.Error(err))
	respondError(w, http.StatusInternalServerError, kindInternal, "internal error")
}

// decodeJSON reads the request body into v and reports malformed payloads as
// a client error the caller can pass straight to respondFieldErrors.
func decodeJSON(r *http.Request, v any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return errors.Wrap(err, "decode request body")
	}
	return nil
}

// fieldErrors flattens validator.ValidationErrors into a field -> message map.
func fieldErrors(err error) map[string]string {
	fields := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields["body"] = err.Error()
		return fields
	}
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			fields[fe.Field()] = "this field is required"
		case "gte":
			fields[fe.Field()] = "must be greater than or equal to " + fe.Param()
		case "lte":
			fields[fe.Field()] = "must be less than or equal to " + fe.Param()
		case "min":
			fields[fe.Field()] = "must be at least " + fe.Param()
		case "max":
			fields[fe.Field()] = "must be at most " + fe.Param()
		default:
			fields[fe.Field()] = "failed validation: " + fe.Tag()
		}
	}
	return fields
}

// pathID extracts an integer path variable.
func pathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

func parseInt64(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}
