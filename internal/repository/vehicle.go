package repository

import (
	"context"

	"tripshare/internal/domain"
)

// VehicleRepository defines the persistence operations for vehicles.
type VehicleRepository interface {
	// Create adds a new vehicle.
	Create(ctx context.Context, vehicle *domain.Vehicle) error

	// GetByID retrieves a vehicle by ID.
	GetByID(ctx context.Context, id string) (*domain.Vehicle, error)

	// GetByDriver retrieves all vehicles registered by a driver.
	GetByDriver(ctx context.Context, driverID string) ([]*domain.Vehicle, error)
}
