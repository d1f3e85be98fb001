package repository

import (
	"context"
	"time"

	"tripshare/internal/domain"
)

// BookingRepository defines the persistence operations for bookings.
type BookingRepository interface {
	// Create persists a new booking.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by ID.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// GetActiveByRiderAndJourney retrieves the rider's non-cancelled booking
	// for a journey. Returns nil if no such booking exists.
	GetActiveByRiderAndJourney(ctx context.Context, riderID, journeyID string) (*domain.Booking, error)

	// GetActiveByRiderAndDeparture retrieves the rider's PENDING or
	// CONFIRMED booking whose journey departs at the given time.
	// Returns nil if no such booking exists.
	GetActiveByRiderAndDeparture(ctx context.Context, riderID string, departure time.Time) (*domain.Booking, error)

	// SumPendingSeats returns the total seat count over PENDING bookings
	// for a journey.
	SumPendingSeats(ctx context.Context, journeyID string) (int, error)

	// GetPendingByRider retrieves all PENDING bookings of a rider.
	GetPendingByRider(ctx context.Context, riderID string) ([]*domain.Booking, error)

	// GetPendingByJourney retrieves all PENDING bookings against a journey.
	GetPendingByJourney(ctx context.Context, journeyID string) ([]*domain.Booking, error)

	// ListByRiderAndJourneyStatus retrieves a rider's bookings whose journey
	// currently has the given status, ordered by departure time ascending.
	ListByRiderAndJourneyStatus(ctx context.Context, riderID string, status domain.JourneyStatus) ([]*domain.Booking, error)

	// ExistsByRiderAndJourney reports whether the rider holds any
	// non-cancelled booking for the journey.
	ExistsByRiderAndJourney(ctx context.Context, riderID, journeyID string) (bool, error)

	// UpdateStatus updates the status of a booking.
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error
}
