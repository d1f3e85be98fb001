package repository

import (
	"context"

	"tripshare/internal/domain"
)

// JourneyRepository defines the persistence operations for journeys.
type JourneyRepository interface {
	// Create persists a new journey.
	Create(ctx context.Context, journey *domain.Journey) error

	// GetByID retrieves a journey by ID.
	GetByID(ctx context.Context, id string) (*domain.Journey, error)

	// GetByIDForUpdate retrieves a journey by ID, locking its row for the
	// remainder of the enclosing transaction. Outside a transaction it
	// behaves like GetByID.
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Journey, error)

	// GetAll retrieves recent journeys.
	GetAll(ctx context.Context) ([]*domain.Journey, error)

	// UpdateStatus updates the status of a journey.
	UpdateStatus(ctx context.Context, id string, status domain.JourneyStatus) error
}
