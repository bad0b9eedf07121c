package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/car-rental/backend/internal/domain"
	"github.com/pkordes/car-rental/backend/internal/service"
)

func validCar() domain.Car {
	return domain.Car{
		Name:        "Corolla",
		Model:       "Toyota Corolla 2022",
		Type:        "Sedan",
		PricePerDay: 450,
		ImagePath:   "car_images/corolla.jpg",
	}
}

// ---- AddCar ----------------------------------------------------------------

func TestCatalogService_AddCar_OK(t *testing.T) {
	input := validCar()
	stored := input
	stored.ID = uuid.New()
	stored.Available = true

	svc := service.NewCatalogService(&mockCarRepo{
		create: func(_ context.Context, c domain.Car) (domain.Car, error) {
			assert.Equal(t, input.Name, c.Name)
			return stored, nil
		},
	})

	got, err := svc.AddCar(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, stored.ID, got.ID)
	assert.True(t, got.Available, "new cars start available")
	assert.Zero(t, got.Rating)
	assert.Zero(t, got.TotalRatings)
}

func TestCatalogService_AddCar_Validation(t *testing.T) {
	svc := service.NewCatalogService(&mockCarRepo{
		create: func(_ context.Context, c domain.Car) (domain.Car, error) {
			t.Fatal("repo must not be called for invalid input")
			return domain.Car{}, nil
		},
	})

	cases := map[string]func(*domain.Car){
		"missing name":   func(c *domain.Car) { c.Name = " " },
		"missing model":  func(c *domain.Car) { c.Model = "" },
		"missing type":   func(c *domain.Car) { c.Type = "" },
		"zero price":     func(c *domain.Car) { c.PricePerDay = 0 },
		"negative price": func(c *domain.Car) { c.PricePerDay = -10 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			car := validCar()
			mutate(&car)

			_, err := svc.AddCar(context.Background(), car)

			require.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

// Duplicates are permitted: the catalog has no uniqueness constraint on
// name/model, so a second identical AddCar simply creates a second car.
func TestCatalogService_AddCar_DuplicatesAllowed(t *testing.T) {
	calls := 0
	svc := service.NewCatalogService(&mockCarRepo{
		create: func(_ context.Context, c domain.Car) (domain.Car, error) {
			calls++
			c.ID = uuid.New()
			return c, nil
		},
	})

	first, err := svc.AddCar(context.Background(), validCar())
	require.NoError(t, err)
	second, err := svc.AddCar(context.Background(), validCar())
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	assert.NotEqual(t, first.ID, second.ID)
}

// ---- Search ----------------------------------------------------------------

func TestCatalogService_Search_BlankQueryListsAll(t *testing.T) {
	all := []domain.Car{{ID: uuid.New()}, {ID: uuid.New()}}
	svc := service.NewCatalogService(&mockCarRepo{
		list: func(_ context.Context) ([]domain.Car, error) { return all, nil },
		search: func(_ context.Context, _ string) ([]domain.Car, error) {
			t.Fatal("search repo must not be called for a blank query")
			return nil, nil
		},
	})

	got, err := svc.Search(context.Background(), "   ")

	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestCatalogService_Search_TrimsQuery(t *testing.T) {
	svc := service.NewCatalogService(&mockCarRepo{
		search: func(_ context.Context, substring string) ([]domain.Car, error) {
			assert.Equal(t, "SUV", substring)
			return nil, nil
		},
	})

	got, err := svc.Search(context.Background(), "  SUV  ")

	require.NoError(t, err)
	assert.NotNil(t, got, "nil repo result becomes an empty slice")
}

// ---- List ------------------------------------------------------------------

func TestCatalogService_List_NilBecomesEmpty(t *testing.T) {
	svc := service.NewCatalogService(&mockCarRepo{
		list: func(_ context.Context) ([]domain.Car, error) { return nil, nil },
	})

	got, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCatalogService_GetCar_NotFound(t *testing.T) {
	svc := service.NewCatalogService(&mockCarRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Car, error) {
			return domain.Car{}, domain.ErrCarNotFound
		},
	})

	_, err := svc.GetCar(context.Background(), uuid.New())

	require.ErrorIs(t, err, domain.ErrCarNotFound)
}
