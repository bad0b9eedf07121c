package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/car-rental/backend/internal/domain"
	"github.com/pkordes/car-rental/backend/internal/service"
)

func TestRatingService_Rate_OK(t *testing.T) {
	carID := uuid.New()
	svc := service.NewRatingService(&mockCarRepo{
		applyRating: func(_ context.Context, id uuid.UUID, value int) (domain.Car, error) {
			require.Equal(t, carID, id)
			require.Equal(t, 4, value)
			return domain.Car{ID: id, Rating: 4, TotalRatings: 1}, nil
		},
	})

	got, err := svc.Rate(context.Background(), carID, 4)

	require.NoError(t, err)
	assert.Equal(t, 4.0, got.Rating)
	assert.Equal(t, 1, got.TotalRatings)
}

func TestRatingService_Rate_BoundsAccepted(t *testing.T) {
	svc := service.NewRatingService(&mockCarRepo{
		applyRating: func(_ context.Context, id uuid.UUID, value int) (domain.Car, error) {
			return domain.Car{ID: id}, nil
		},
	})

	for _, value := range []int{1, 5} {
		_, err := svc.Rate(context.Background(), uuid.New(), value)
		require.NoError(t, err, "value %d is inside the closed range", value)
	}
}

func TestRatingService_Rate_OutOfRange(t *testing.T) {
	svc := service.NewRatingService(&mockCarRepo{
		applyRating: func(_ context.Context, _ uuid.UUID, _ int) (domain.Car, error) {
			t.Fatal("repo must not be called for an out-of-range value")
			return domain.Car{}, nil
		},
	})

	for _, value := range []int{0, -1, 6, 100} {
		_, err := svc.Rate(context.Background(), uuid.New(), value)
		require.ErrorIs(t, err, domain.ErrInvalidRating, "value %d", value)
	}
}

func TestRatingService_Rate_CarNotFound(t *testing.T) {
	svc := service.NewRatingService(&mockCarRepo{
		applyRating: func(_ context.Context, _ uuid.UUID, _ int) (domain.Car, error) {
			return domain.Car{}, fmt.Errorf("repo.CarRepo.ApplyRating: %w", domain.ErrCarNotFound)
		},
	})

	_, err := svc.Rate(context.Background(), uuid.New(), 3)

	require.ErrorIs(t, err, domain.ErrCarNotFound)
}
