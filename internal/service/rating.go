package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/car-rental/backend/internal/domain"
	"github.com/pkordes/car-rental/backend/internal/repo"
)

// RatingService folds discrete rating submissions into each car's running
// mean. Individual submissions are not retained; only the aggregate survives.
type RatingService struct {
	cars repo.CarRepo
}

// NewRatingService constructs a RatingService backed by the provided CarRepo.
func NewRatingService(cars repo.CarRepo) *RatingService {
	return &RatingService{cars: cars}
}

// Rate applies one rating to a car and returns the updated record.
//
// The value must lie in the closed range [1,5]; anything else fails with
// domain.ErrInvalidRating. Rating an unknown car fails with
// domain.ErrCarNotFound. The (read-aggregate, write-aggregate) pair is a
// single SQL statement in the repo, so concurrent ratings never lose updates.
func (s *RatingService) Rate(ctx context.Context, carID uuid.UUID, value int) (domain.Car, error) {
	if value < 1 || value > 5 {
		return domain.Car{}, fmt.Errorf("service.RatingService.Rate: %w", domain.ErrInvalidRating)
	}
	result, err := s.cars.ApplyRating(ctx, carID, value)
	if err != nil {
		return domain.Car{}, fmt.Errorf("service.RatingService.Rate: %w", err)
	}
	return result, nil
}
