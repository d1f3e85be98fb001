package repository

import "context"

// Repos bundles the repositories that participate in a storage transaction.
type Repos struct {
	Users     UserRepository
	Vehicles  VehicleRepository
	Journeys  JourneyRepository
	Bookings  BookingRepository
	Requests  RequestRepository
	Proposals ProposalRepository
}

// TxManager runs a function within a single storage transaction. Every
// repository call made through the supplied Repos either commits as one
// unit or rolls back entirely.
type TxManager interface {
	InTx(ctx context.Context, fn func(r *Repos) error) error
}
