package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/car-rental/backend/internal/domain"
	"github.com/pkordes/car-rental/backend/internal/repo"
)

// BookingService implements the availability and pricing engine plus the
// read side of the booking ledger.
//
// Pricing and date validation happen here; the paired state changes
// (booking row + availability flag) happen atomically inside the repo's
// transactional Book and Return operations.
type BookingService struct {
	cars     repo.CarRepo
	bookings repo.BookingRepo
}

// NewBookingService constructs a BookingService backed by the provided repos.
func NewBookingService(cars repo.CarRepo, bookings repo.BookingRepo) *BookingService {
	return &BookingService{cars: cars, bookings: bookings}
}

// Book reserves a car for the user over [start, end) and returns the created
// booking with its computed total.
//
// The rental length is the whole-day difference end − start; sub-day
// remainders truncate toward zero to match the date-only model. A length
// below one day fails with domain.ErrInvalidDateRange before any state
// changes. The total is price_per_day × days, fixed at creation.
//
// Concurrent calls for the same car cannot both succeed: the repo claims the
// availability flag with a compare-and-set, and the loser receives
// domain.ErrCarUnavailable.
func (s *BookingService) Book(ctx context.Context, userID, carID uuid.UUID, start, end time.Time) (domain.Booking, error) {
	days := domain.Days(start, end)
	if days < 1 {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Book: %w: end date must be at least one day after start date", domain.ErrInvalidDateRange)
	}

	car, err := s.cars.GetByID(ctx, carID)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Book: %w", err)
	}

	booking := domain.Booking{
		UserID:      userID,
		CarID:       carID,
		StartDate:   start,
		EndDate:     end,
		TotalAmount: car.PricePerDay * float64(days),
	}

	result, err := s.bookings.Book(ctx, booking)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Book: %w", err)
	}
	return result, nil
}

// Return marks the booking returned and makes its car bookable again.
// A second return of the same booking fails with domain.ErrAlreadyReturned.
func (s *BookingService) Return(ctx context.Context, bookingID uuid.UUID) (domain.Booking, error) {
	result, err := s.bookings.Return(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Return: %w", err)
	}
	return result, nil
}

// GetBooking returns a single booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	result, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.GetBooking: %w", err)
	}
	return result, nil
}

// ListForUser returns all bookings made by one user.
// Always returns a non-nil slice so callers can safely range over it.
func (s *BookingService) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	bookings, err := s.bookings.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.BookingService.ListForUser: %w", err)
	}
	if bookings == nil {
		return []domain.Booking{}, nil
	}
	return bookings, nil
}

// ListAll returns every booking in the ledger.
func (s *BookingService) ListAll(ctx context.Context) ([]domain.Booking, error) {
	bookings, err := s.bookings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.BookingService.ListAll: %w", err)
	}
	if bookings == nil {
		return []domain.Booking{}, nil
	}
	return bookings, nil
}

// ListAllPaged returns one page of the full ledger and the total count.
func (s *BookingService) ListAllPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Booking, int64, error) {
	bookings, total, err := s.bookings.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.BookingService.ListAllPaged: %w", err)
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	return bookings, total, nil
}
