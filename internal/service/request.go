package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tripshare/internal/domain"
	"tripshare/internal/repository"
)

// RequestService handles journey requests: a rider's open call for a trip
// or shipment that drivers answer with proposals.
type RequestService struct {
	requestRepo repository.RequestRepository
	userRepo    repository.UserRepository
}

// NewRequestService creates a new RequestService.
func NewRequestService(requestRepo repository.RequestRepository, userRepo repository.UserRepository) *RequestService {
	return &RequestService{requestRepo: requestRepo, userRepo: userRepo}
}

// CreateRequestParams contains the parameters for opening a journey request.
type CreateRequestParams struct {
	RequesterID    string
	Type           domain.JourneyType
	Origin         domain.Location
	Destination    domain.Location
	RequestedTime  time.Time
	RequestedSeats *int
	Package        *domain.PackageSpec
	ProposedPrice  float64
}

// CreateRequest opens a journey request in PENDING state.
func (s *RequestService) CreateRequest(ctx context.Context, params CreateRequestParams) (*domain.JourneyRequest, error) {
	if params.RequesterID == "" {
		return nil, ErrInvalidRiderID
	}

	if _, err := s.userRepo.GetByID(ctx, params.RequesterID); err != nil {
		return nil, surfaceError("create request", err, "requester="+params.RequesterID)
	}

	if !params.RequestedTime.After(time.Now()) {
		return nil, ErrRequestedTimePast
	}
	if params.ProposedPrice <= 0 {
		return nil, ErrInvalidPrice
	}

	request := &domain.JourneyRequest{
		ID:            uuid.New().String(),
		RequesterID:   params.RequesterID,
		Type:          params.Type,
		Origin:        params.Origin,
		Destination:   params.Destination,
		RequestedTime: params.RequestedTime,
		ProposedPrice: params.ProposedPrice,
		Status:        domain.RequestStatusPending,
		CreatedAt:     time.Now(),
	}

	switch params.Type {
	case domain.JourneyTypeCarpool:
		if params.RequestedSeats == nil {
			return nil, ErrSeatCountRequired
		}
		if *params.RequestedSeats < minSeatCount || *params.RequestedSeats > maxSeatCount {
			return nil, ErrInvalidSeatCount
		}
		request.RequestedSeats = *params.RequestedSeats
	case domain.JourneyTypePackage:
		if params.Package == nil {
			return nil, ErrPackageSpecRequired
		}
		spec := *params.Package
		request.Package = &spec
	default:
		return nil, ErrInvalidJourneyType
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, surfaceError("create request", err, "requester="+params.RequesterID)
	}

	return request, nil
}

// GetRequest retrieves a journey request.
func (s *RequestService) GetRequest(ctx context.Context, requestID string) (*domain.JourneyRequest, error) {
	if requestID == "" {
		return nil, ErrInvalidRequestID
	}

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, surfaceError("get request", err, "request="+requestID)
	}
	return request, nil
}

// CancelRequest cancels a PENDING or OFFERED request. Matched and closed
// requests stay as they are.
func (s *RequestService) CancelRequest(ctx context.Context, requesterID, requestID string) error {
	if requesterID == "" {
		return ErrInvalidRiderID
	}
	if requestID == "" {
		return ErrInvalidRequestID
	}

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return surfaceError("cancel request", err, "request="+requestID)
	}

	if request.RequesterID != requesterID {
		return ErrNotRequestOwner
	}
	if !request.Status.AcceptsProposals() {
		return ErrRequestNotCancellable
	}

	if err := s.requestRepo.UpdateStatus(ctx, request.ID, domain.RequestStatusCancelled); err != nil {
		return surfaceError("cancel request", err, "request="+requestID)
	}

	return nil
}
