package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tripshare/internal/domain"
	"tripshare/internal/events"
	"tripshare/internal/observability"
	"tripshare/internal/repository"
)

// ProposalService runs the driver-responds-to-request workflow. Proposal
// creation is the one genuinely transactional write path in the engine:
// the request status check, the duplicate check and the insert/update are
// indivisible.
type ProposalService struct {
	tx           repository.TxManager
	requestRepo  repository.RequestRepository
	proposalRepo repository.ProposalRepository
	notifier     events.Notifier
}

// NewProposalService creates a new ProposalService.
func NewProposalService(
	tx repository.TxManager,
	requestRepo repository.RequestRepository,
	proposalRepo repository.ProposalRepository,
	notifier events.Notifier,
) *ProposalService {
	return &ProposalService{
		tx:           tx,
		requestRepo:  requestRepo,
		proposalRepo: proposalRepo,
		notifier:     notifier,
	}
}

// CreateProposal records a driver's priced offer against an open journey
// request and advances the request to OFFERED, as one atomic transaction.
// The request row is locked for the duration, so two concurrent drivers
// cannot both observe the same request state; the transaction either fully
// commits or fully rolls back.
func (s *ProposalService) CreateProposal(ctx context.Context, driverID, requestID, vehicleID string) (*domain.Proposal, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}
	if requestID == "" {
		return nil, ErrInvalidRequestID
	}
	if vehicleID == "" {
		return nil, ErrInvalidVehicleID
	}

	var proposal *domain.Proposal
	var request *domain.JourneyRequest

	err := s.tx.InTx(ctx, func(r *repository.Repos) error {
		var err error
		request, err = r.Requests.GetByIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}

		if !request.Status.AcceptsProposals() {
			return ErrRequestClosed
		}

		if time.Now().After(request.RequestedTime) {
			return ErrRequestElapsed
		}

		vehicle, err := r.Vehicles.GetByID(ctx, vehicleID)
		if err != nil {
			return err
		}
		if vehicle.DriverID != driverID {
			return ErrNotVehicleOwner
		}
		if vehicle.Capacity < request.RequestedSeats {
			return ErrInsufficientCapacity
		}

		alreadySent, err := r.Proposals.HasSentByDriver(ctx, requestID, driverID)
		if err != nil {
			return err
		}
		if alreadySent {
			return ErrDuplicateProposal
		}

		proposal = &domain.Proposal{
			ID:           uuid.New().String(),
			RequestID:    request.ID,
			DriverID:     driverID,
			VehicleID:    vehicleID,
			Status:       domain.ProposalStatusSent,
			PriceOffered: request.ProposedPrice,
			CreatedAt:    time.Now(),
		}

		if err := r.Proposals.Create(ctx, proposal); err != nil {
			return err
		}

		return r.Requests.UpdateStatus(ctx, request.ID, domain.RequestStatusOffered)
	})
	if err != nil {
		return nil, surfaceError("create proposal", err,
			"driver="+driverID, "request="+requestID, "vehicle="+vehicleID)
	}

	observability.ProposalsCreated.Inc()

	_ = s.notifier.Emit(ctx, events.Event{
		UserIDs: []string{request.RequesterID},
		Type:    events.TypeProposalReceived,
		Reason: fmt.Sprintf("A driver offered %.2f for your trip from %s to %s",
			proposal.PriceOffered, request.Origin.Name, request.Destination.Name),
		CreatedAt: time.Now(),
	})

	return proposal, nil
}

// ListProposals retrieves all proposals against a journey request.
func (s *ProposalService) ListProposals(ctx context.Context, requestID string) ([]*domain.Proposal, error) {
	if requestID == "" {
		return nil, ErrInvalidRequestID
	}

	if _, err := s.requestRepo.GetByID(ctx, requestID); err != nil {
		return nil, surfaceError("list proposals", err, "request="+requestID)
	}

	proposals, err := s.proposalRepo.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, surfaceError("list proposals", err, "request="+requestID)
	}
	return proposals, nil
}
