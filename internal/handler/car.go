package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/car-rental/backend/internal/domain"
)

// CreateCarRequest is the body of POST /cars.
type CreateCarRequest struct {
	Name        string  `json:"name"`
	Model       string  `json:"model"`
	Type        string  `json:"type"`
	PricePerDay float64 `json:"price_per_day"`
	ImagePath   string  `json:"image_path,omitempty"`
}

// RateCarRequest is the body of POST /cars/{carID}/ratings.
type RateCarRequest struct {
	Value int `json:"value"`
}

// CarResponse is the JSON representation of a car.
type CarResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Model        string    `json:"model"`
	Type         string    `json:"type"`
	PricePerDay  float64   `json:"price_per_day"`
	Available    bool      `json:"available"`
	ImagePath    string    `json:"image_path,omitempty"`
	Rating       float64   `json:"rating"`
	TotalRatings int       `json:"total_ratings"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CarListResponse is the body of the car list endpoints.
type CarListResponse struct {
	Data       []CarResponse `json:"data"`
	Pagination *Pagination   `json:"pagination,omitempty"`
}

// CreateCar handles POST /cars (admin only).
func (s *Server) CreateCar(w http.ResponseWriter, r *http.Request) {
	var req CreateCarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRequestError(w, "invalid request body")
		return
	}

	created, err := s.catalog.AddCar(r.Context(), domain.Car{
		Name:        req.Name,
		Model:       req.Model,
		Type:        req.Type,
		PricePerDay: req.PricePerDay,
		ImagePath:   req.ImagePath,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, carToResponse(created))
}

// ListCars handles GET /cars.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListCars(w http.ResponseWriter, r *http.Request) {
	params := paginationFromQuery(r)
	cars, total, err := s.catalog.ListPaged(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CarListResponse{
		Data:       carsToResponse(cars),
		Pagination: &Pagination{Page: params.Page, Limit: params.Limit, Total: int(total)},
	})
}

// SearchCars handles GET /cars/search?q=.
// Matching is a case-insensitive substring test across name, model, and type.
func (s *Server) SearchCars(w http.ResponseWriter, r *http.Request) {
	cars, err := s.catalog.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CarListResponse{Data: carsToResponse(cars)})
}

// GetCar handles GET /cars/{carID}.
func (s *Server) GetCar(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "carID"))
	if err != nil {
		writeRequestError(w, "invalid car id")
		return
	}

	car, err := s.catalog.GetCar(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, carToResponse(car))
}

// RateCar handles POST /cars/{carID}/ratings.
func (s *Server) RateCar(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "carID"))
	if err != nil {
		writeRequestError(w, "invalid car id")
		return
	}

	var req RateCarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRequestError(w, "invalid request body")
		return
	}

	car, err := s.ratings.Rate(r.Context(), id, req.Value)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, carToResponse(car))
}

// --- mapping helpers --------------------------------------------------------

func carToResponse(c domain.Car) CarResponse {
	return CarResponse{
		ID:           c.ID,
		Name:         c.Name,
		Model:        c.Model,
		Type:         c.Type,
		PricePerDay:  c.PricePerDay,
		Available:    c.Available,
		ImagePath:    c.ImagePath,
		Rating:       c.Rating,
		TotalRatings: c.TotalRatings,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func carsToResponse(cars []domain.Car) []CarResponse {
	out := make([]CarResponse, len(cars))
	for i, c := range cars {
		out[i] = carToResponse(c)
	}
	return out
}

// paginationFromQuery reads ?page= and ?limit= into PaginationParams,
// ignoring values that do not parse as integers.
func paginationFromQuery(r *http.Request) domain.PaginationParams {
	var page, limit *int
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		page = &v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		limit = &v
	}
	return domain.NewPaginationParams(page, limit)
}
