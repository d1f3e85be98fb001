package repository

import (
	"context"

	"tripshare/internal/domain"
)

// ProposalRepository defines the persistence operations for proposals.
type ProposalRepository interface {
	// Create persists a new proposal.
	Create(ctx context.Context, proposal *domain.Proposal) error

	// GetByID retrieves a proposal by ID.
	GetByID(ctx context.Context, id string) (*domain.Proposal, error)

	// ListByRequest retrieves all proposals against a journey request,
	// newest first.
	ListByRequest(ctx context.Context, requestID string) ([]*domain.Proposal, error)

	// HasSentByDriver reports whether the driver already has a SENT
	// proposal for the journey request.
	HasSentByDriver(ctx context.Context, requestID, driverID string) (bool, error)

	// UpdateStatus updates the status of a proposal.
	UpdateStatus(ctx context.Context, id string, status domain.ProposalStatus) error
}
