package domain

import (
	"time"

	"github.com/google/uuid"
)

// Booking represents one reservation of one car for a date range.
// Bookings are never deleted; a return sets Returned exactly once.
//
// UserID is a weak reference — the identity provider owns users, the
// booking only records who made it. CarID references the cars table.
type Booking struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
	CarID  uuid.UUID `json:"car_id"`

	// StartDate and EndDate are date-granular; time-of-day is ignored.
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	// TotalAmount is price_per_day × whole rental days, fixed at creation.
	TotalAmount float64 `json:"total_amount"`

	Returned  bool      `json:"returned"`
	CreatedAt time.Time `json:"created_at"`
}

// Days returns the whole-day length of the booking's date range.
// Sub-day remainders truncate toward zero to match the date-only model.
func Days(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}
