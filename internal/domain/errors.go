package domain

import "errors"

// ErrCarNotFound is returned when the requested car does not exist.
// Handlers should map this to HTTP 404.
var ErrCarNotFound = errors.New("car not found")

// ErrBookingNotFound is returned when the requested booking does not exist.
// Handlers should map this to HTTP 404.
var ErrBookingNotFound = errors.New("booking not found")

// ErrCarUnavailable is returned when a booking attempt loses the race for a
// car that already has an active booking. A car carries at most one active
// booking at any time. Handlers should map this to HTTP 409.
var ErrCarUnavailable = errors.New("car unavailable")

// ErrInvalidDateRange is returned when a booking's date range spans less than
// one whole day. Handlers should map this to HTTP 422.
var ErrInvalidDateRange = errors.New("invalid date range")

// ErrAlreadyReturned is returned when a return is attempted on a booking that
// has already been returned. Re-returning is rejected rather than treated as
// a no-op so callers learn about double submissions. HTTP 409.
var ErrAlreadyReturned = errors.New("booking already returned")

// ErrInvalidRating is returned when a rating value falls outside the closed
// range [1,5]. Handlers should map this to HTTP 422.
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, non-positive price).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrStoreUnavailable wraps persistence-layer failures (connection loss,
// constraint violation). The service never retries; retry policy belongs to
// the caller. Handlers should map this to HTTP 503.
var ErrStoreUnavailable = errors.New("store unavailable")
