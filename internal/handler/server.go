// Package handler implements the HTTP surface of the car rental service.
// All handlers are methods on Server. Methods are split into resource files
// (car.go, booking.go) but all share the same Server struct so they can
// access its dependencies.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/car-rental/backend/internal/domain"
	"github.com/pkordes/car-rental/backend/internal/middleware"
)

// CatalogServicer defines the catalog operations the handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type CatalogServicer interface {
	AddCar(ctx context.Context, car domain.Car) (domain.Car, error)
	GetCar(ctx context.Context, id uuid.UUID) (domain.Car, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Car, int64, error)
	Search(ctx context.Context, substring string) ([]domain.Car, error)
}

// BookingServicer defines the booking engine and ledger operations the
// handlers depend on.
type BookingServicer interface {
	Book(ctx context.Context, userID, carID uuid.UUID, start, end time.Time) (domain.Booking, error)
	Return(ctx context.Context, bookingID uuid.UUID) (domain.Booking, error)
	GetBooking(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error)
	ListAllPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Booking, int64, error)
}

// RatingServicer defines the rating operation the handlers depend on.
type RatingServicer interface {
	Rate(ctx context.Context, carID uuid.UUID, value int) (domain.Car, error)
}

// Server holds the service dependencies for all API endpoints.
type Server struct {
	catalog  CatalogServicer
	bookings BookingServicer
	ratings  RatingServicer
	openapi  []byte
}

// NewServer constructs the Server with all its dependencies.
// openapi may be nil; the /openapi.yaml route then returns 404.
func NewServer(catalog CatalogServicer, bookings BookingServicer, ratings RatingServicer, openapi []byte) *Server {
	return &Server{catalog: catalog, bookings: bookings, ratings: ratings, openapi: openapi}
}

// NewRouter wires all routes. authn is the identity-extracting middleware;
// production passes the JWT authenticator, tests pass a stub that injects a
// fixed identity. Role gating happens only here, at the router edge — the
// services themselves perform no authorization.
func NewRouter(s *Server, authn func(http.Handler) http.Handler) chi.Router {
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/cars", func(r chi.Router) {
		r.Get("/", s.ListCars)
		r.Get("/search", s.SearchCars)
		r.Get("/{carID}", s.GetCar)

		r.Group(func(r chi.Router) {
			r.Use(authn)
			r.With(adminOnly).Post("/", s.CreateCar)
			r.Post("/{carID}/ratings", s.RateCar)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(authn)
		r.Post("/bookings", s.CreateBooking)
		r.With(adminOnly).Get("/bookings", s.ListBookings)
		r.Get("/bookings/{bookingID}", s.GetBooking)
		r.Post("/bookings/{bookingID}/return", s.ReturnBooking)
		r.Get("/me/bookings", s.ListMyBookings)
	})

	return r
}

// GetHealth handles GET /healthz.
// It returns HTTP 200 with {"status":"ok"} when the server is running.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// GetOpenAPI handles GET /openapi.yaml, serving the embedded API spec.
func (s *Server) GetOpenAPI(w http.ResponseWriter, r *http.Request) {
	if len(s.openapi) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(s.openapi)
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}
