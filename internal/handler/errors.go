package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pkordes/car-rental/backend/internal/domain"
)

// ErrorResponse is the JSON error envelope for every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine-readable code and a human message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Pagination echoes the effective page parameters alongside list responses.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// writeJSON serializes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// writeError maps a service error onto the HTTP status and error code the
// API contract promises, and writes the JSON error envelope.
func writeError(w http.ResponseWriter, err error) {
	status, code := mapError(err)
	if status == http.StatusInternalServerError {
		// Unclassified errors are logged server-side and reported opaquely.
		slog.Error("internal error", "error", err)
		writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: "internal error"}})
		return
	}
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: unwrapMessage(err)}})
}

// writeRequestError reports a request rejected before reaching the service
// layer (e.g. missing or malformed body) as a 422 validation error.
func writeRequestError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
		Error: ErrorDetail{Code: "validation_error", Message: message},
	})
}

// mapError translates domain sentinels into (HTTP status, error code).
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrCarNotFound):
		return http.StatusNotFound, "car_not_found"
	case errors.Is(err, domain.ErrBookingNotFound):
		return http.StatusNotFound, "booking_not_found"
	case errors.Is(err, domain.ErrCarUnavailable):
		return http.StatusConflict, "car_unavailable"
	case errors.Is(err, domain.ErrAlreadyReturned):
		return http.StatusConflict, "already_returned"
	case errors.Is(err, domain.ErrInvalidDateRange):
		return http.StatusUnprocessableEntity, "invalid_date_range"
	case errors.Is(err, domain.ErrInvalidRating):
		return http.StatusUnprocessableEntity, "invalid_rating"
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, "validation_error"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "store_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// unwrapMessage strips the "service.X.Y: " call-site prefixes services add,
// leaving the human-readable part of a wrapped sentinel error.
// e.g. "service.CatalogService.AddCar: validation error: name is required"
// → "validation error: name is required".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for {
		rest, found := strings.CutPrefix(msg, "service.")
		if !found {
			rest, found = strings.CutPrefix(msg, "repo.")
		}
		if !found {
			break
		}
		i := strings.Index(rest, ": ")
		if i < 0 {
			break
		}
		msg = rest[i+2:]
	}
	if rest, found := strings.CutPrefix(msg, "validation error: "); found {
		return rest
	}
	return msg
}
