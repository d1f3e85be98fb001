package repository

import (
	"context"

	"tripshare/internal/domain"
)

// RequestRepository defines the persistence operations for journey requests.
type RequestRepository interface {
	// Create persists a new journey request.
	Create(ctx context.Context, request *domain.JourneyRequest) error

	// GetByID retrieves a journey request by ID.
	GetByID(ctx context.Context, id string) (*domain.JourneyRequest, error)

	// GetByIDForUpdate retrieves a journey request by ID, locking its row
	// for the remainder of the enclosing transaction. Outside a transaction
	// it behaves like GetByID.
	GetByIDForUpdate(ctx context.Context, id string) (*domain.JourneyRequest, error)

	// UpdateStatus updates the status of a journey request.
	UpdateStatus(ctx context.Context, id string, status domain.RequestStatus) error
}
