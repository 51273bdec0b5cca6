package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/acquisitions/acquisitions-api/internal/apperr"
	"github.com/acquisitions/acquisitions-api/internal/middleware"
	"github.com/acquisitions/acquisitions-api/internal/model"
	"github.com/acquisitions/acquisitions-api/internal/validate"
)

const maxBodyBytes = 1 << 20 // 1MB

type validationErrorResponse struct {
	Error   string                `json:"error"`
	Details []validate.FieldError `json:"details"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// writeError maps err to its status code. Messages of internal errors are
// logged and replaced with a generic one.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if details := validate.Details(err); details != nil {
		writeJSON(w, http.StatusBadRequest, validationErrorResponse{
			Error:   validate.ErrValidation.Error(),
			Details: details,
		})
		return
	}

	kind := apperr.KindOf(err)
	if !apperr.Public(kind) {
		slog.Error("request failed",
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, apperr.Status(kind), errorResponse(err.Error()))
}

// decodeJSON reads a JSON body of at most maxBodyBytes into dst. On failure
// it writes the response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return false
	}
	return true
}

// userIDParam parses the {id} route parameter as a positive integer.
func userIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, validate.Field("id", "must be a positive integer")
	}
	return id, nil
}

// requester returns the identity attached by the authentication middleware.
func requester(r *http.Request) *model.Identity {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		return nil
	}
	return &id
}
