package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/car-rental/backend/internal/domain"
	"github.com/pkordes/car-rental/backend/internal/middleware"
)

// dateLayout is the wire format for booking dates. Bookings are date-granular;
// no time-of-day crosses the API boundary.
const dateLayout = "2006-01-02"

// CreateBookingRequest is the body of POST /bookings.
// The booking user is the authenticated caller, not a request field.
type CreateBookingRequest struct {
	CarID     uuid.UUID `json:"car_id"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
}

// BookingResponse is the JSON representation of a booking.
type BookingResponse struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	CarID       uuid.UUID `json:"car_id"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	TotalAmount float64   `json:"total_amount"`
	Returned    bool      `json:"returned"`
	CreatedAt   time.Time `json:"created_at"`
}

// BookingListResponse is the body of the booking list endpoints.
type BookingListResponse struct {
	Data       []BookingResponse `json:"data"`
	Pagination *Pagination       `json:"pagination,omitempty"`
}

// CreateBooking handles POST /bookings.
// The caller's identity supplies the user ID; price and availability are
// decided by the booking engine.
func (s *Server) CreateBooking(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: ErrorDetail{Code: "unauthenticated", Message: "authentication required"},
		})
		return
	}

	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRequestError(w, "invalid request body")
		return
	}
	if req.CarID == uuid.Nil {
		writeRequestError(w, "car_id is required")
		return
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		writeRequestError(w, "start_date must be formatted as YYYY-MM-DD")
		return
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		writeRequestError(w, "end_date must be formatted as YYYY-MM-DD")
		return
	}

	booking, err := s.bookings.Book(r.Context(), ident.UserID, req.CarID, start, end)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, bookingToResponse(booking))
}

// ReturnBooking handles POST /bookings/{bookingID}/return.
func (s *Server) ReturnBooking(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "bookingID"))
	if err != nil {
		writeRequestError(w, "invalid booking id")
		return
	}

	booking, err := s.bookings.Return(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bookingToResponse(booking))
}

// GetBooking handles GET /bookings/{bookingID}.
func (s *Server) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "bookingID"))
	if err != nil {
		writeRequestError(w, "invalid booking id")
		return
	}

	booking, err := s.bookings.GetBooking(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bookingToResponse(booking))
}

// ListBookings handles GET /bookings (admin only).
// Supports ?page= and ?limit= query parameters.
func (s *Server) ListBookings(w http.ResponseWriter, r *http.Request) {
	params := paginationFromQuery(r)
	bookings, total, err := s.bookings.ListAllPaged(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, BookingListResponse{
		Data:       bookingsToResponse(bookings),
		Pagination: &Pagination{Page: params.Page, Limit: params.Limit, Total: int(total)},
	})
}

// ListMyBookings handles GET /me/bookings, listing the caller's bookings.
func (s *Server) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: ErrorDetail{Code: "unauthenticated", Message: "authentication required"},
		})
		return
	}

	bookings, err := s.bookings.ListForUser(r.Context(), ident.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, BookingListResponse{Data: bookingsToResponse(bookings)})
}

// --- mapping helpers --------------------------------------------------------

func bookingToResponse(b domain.Booking) BookingResponse {
	return BookingResponse{
		ID:          b.ID,
		UserID:      b.UserID,
		CarID:       b.CarID,
		StartDate:   b.StartDate.Format(dateLayout),
		EndDate:     b.EndDate.Format(dateLayout),
		TotalAmount: b.TotalAmount,
		Returned:    b.Returned,
		CreatedAt:   b.CreatedAt,
	}
}

func bookingsToResponse(bookings []domain.Booking) []BookingResponse {
	out := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		out[i] = bookingToResponse(b)
	}
	return out
}
