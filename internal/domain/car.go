// Package domain contains the core data types for the car rental service.
// This package has zero external dependencies and is imported by every other
// internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Car represents a single rentable vehicle in the fleet.
//
// Available is true iff no active (unreturned) booking references the car.
// The flag is only ever flipped inside the book and return transactions,
// never independently.
type Car struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Model       string    `json:"model"`
	Type        string    `json:"type"`
	PricePerDay float64   `json:"price_per_day"`
	Available   bool      `json:"available"`

	// ImagePath is an opaque reference into an external asset store.
	// The service never interprets or validates it.
	ImagePath string `json:"image_path,omitempty"`

	// Rating is the running mean of all submitted ratings; individual
	// submissions are not retained. Zero until the first rating arrives.
	Rating       float64 `json:"rating"`
	TotalRatings int     `json:"total_ratings"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
