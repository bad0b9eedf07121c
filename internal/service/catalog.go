// Package service contains the business logic for the car rental service.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/car-rental/backend/internal/domain"
	"github.com/pkordes/car-rental/backend/internal/repo"
)

// CatalogService implements business logic for the car catalog.
type CatalogService struct {
	cars repo.CarRepo
}

// NewCatalogService constructs a CatalogService backed by the provided CarRepo.
func NewCatalogService(cars repo.CarRepo) *CatalogService {
	return &CatalogService{cars: cars}
}

// AddCar validates and persists a new car. New cars start available with a
// zeroed rating aggregate. Duplicate name/model combinations are permitted.
// Returns domain.ErrValidation if required fields are missing or the daily
// price is not positive.
func (s *CatalogService) AddCar(ctx context.Context, car domain.Car) (domain.Car, error) {
	if err := validateCar(car); err != nil {
		return domain.Car{}, err
	}
	result, err := s.cars.Create(ctx, car)
	if err != nil {
		return domain.Car{}, fmt.Errorf("service.CatalogService.AddCar: %w", err)
	}
	return result, nil
}

// GetCar returns a single car by ID.
func (s *CatalogService) GetCar(ctx context.Context, id uuid.UUID) (domain.Car, error) {
	result, err := s.cars.GetByID(ctx, id)
	if err != nil {
		return domain.Car{}, fmt.Errorf("service.CatalogService.GetCar: %w", err)
	}
	return result, nil
}

// List returns all cars.
// Always returns a non-nil slice so callers can safely range over it.
func (s *CatalogService) List(ctx context.Context) ([]domain.Car, error) {
	cars, err := s.cars.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.CatalogService.List: %w", err)
	}
	if cars == nil {
		return []domain.Car{}, nil
	}
	return cars, nil
}

// ListPaged returns one page of cars and the total count.
func (s *CatalogService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Car, int64, error) {
	cars, total, err := s.cars.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.CatalogService.ListPaged: %w", err)
	}
	if cars == nil {
		cars = []domain.Car{}
	}
	return cars, total, nil
}

// Search returns cars whose name, model, or type contains the substring,
// case-insensitively. An empty or blank query returns the full list, matching
// what a search box with no input should show.
func (s *CatalogService) Search(ctx context.Context, substring string) ([]domain.Car, error) {
	substring = strings.TrimSpace(substring)
	if substring == "" {
		return s.List(ctx)
	}
	cars, err := s.cars.Search(ctx, substring)
	if err != nil {
		return nil, fmt.Errorf("service.CatalogService.Search: %w", err)
	}
	if cars == nil {
		return []domain.Car{}, nil
	}
	return cars, nil
}

// validateCar enforces catalog business rules on a new car.
func validateCar(car domain.Car) error {
	if strings.TrimSpace(car.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if strings.TrimSpace(car.Model) == "" {
		return fmt.Errorf("%w: model is required", domain.ErrValidation)
	}
	if strings.TrimSpace(car.Type) == "" {
		return fmt.Errorf("%w: type is required", domain.ErrValidation)
	}
	if car.PricePerDay <= 0 {
		return fmt.Errorf("%w: price_per_day must be positive", domain.ErrValidation)
	}
	return nil
}
