package tests

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tripshare/internal/domain"
	"tripshare/internal/events"
	"tripshare/internal/repository"
	"tripshare/internal/service"
)

// ──────────────────────────────────────────────
// PROPOSAL MATCHING
// ──────────────────────────────────────────────

type proposalFixture struct {
	vehicles  *MockVehicleRepository
	requests  *MockRequestRepository
	proposals *MockProposalRepository
	notifier  *MockNotifier
	svc       *service.ProposalService
}

func newProposalFixture() *proposalFixture {
	vehicles := NewMockVehicleRepository()
	requests := NewMockRequestRepository()
	proposals := NewMockProposalRepository()
	tx := NewMockTxManager(&repository.Repos{
		Users:     NewMockUserRepository(),
		Vehicles:  vehicles,
		Journeys:  NewMockJourneyRepository(),
		Bookings:  NewMockBookingRepository(),
		Requests:  requests,
		Proposals: proposals,
	})
	notifier := NewMockNotifier()

	return &proposalFixture{
		vehicles:  vehicles,
		requests:  requests,
		proposals: proposals,
		notifier:  notifier,
		svc:       service.NewProposalService(tx, requests, proposals, notifier),
	}
}

// seedRequest adds a PENDING carpool request for 2 seats, wanted 24 hours
// from now, and a vehicle owned by driver-1 that can serve it.
func (f *proposalFixture) seedRequest() *domain.JourneyRequest {
	f.vehicles.AddVehicle(&domain.Vehicle{
		ID:       "vehicle-1",
		DriverID: "driver-1",
		Plate:    "EF-456-GH",
		Model:    "Zoe",
		Capacity: 4,
	})
	request := &domain.JourneyRequest{
		ID:             "request-1",
		RequesterID:    "rider-1",
		Type:           domain.JourneyTypeCarpool,
		Origin:         domain.Location{Name: "Nantes"},
		Destination:    domain.Location{Name: "Rennes"},
		RequestedTime:  time.Now().Add(24 * time.Hour),
		RequestedSeats: 2,
		ProposedPrice:  18.0,
		Status:         domain.RequestStatusPending,
		CreatedAt:      time.Now(),
	}
	f.requests.AddRequest(request)
	return request
}

func TestProposalCreation_Succeeds(t *testing.T) {
	t.Parallel()

	f := newProposalFixture()
	request := f.seedRequest()

	proposal, err := f.svc.CreateProposal(context.Background(), "driver-1", request.ID, "vehicle-1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if proposal.Status != domain.ProposalStatusSent {
		t.Errorf("expected status SENT, got %s", proposal.Status)
	}
	if proposal.PriceOffered != request.ProposedPrice {
		t.Errorf("expected price %v carried from the request, got %v", request.ProposedPrice, proposal.PriceOffered)
	}

	// The request moved to OFFERED in the same transaction.
	if got := f.requests.GetRequest(request.ID).Status; got != domain.RequestStatusOffered {
		t.Errorf("expected request status OFFERED, got %s", got)
	}

	// The requester is notified.
	received := f.notifier.EventsOfType(events.TypeProposalReceived)
	if len(received) != 1 {
		t.Fatalf("expected 1 proposal_received event, got %d", len(received))
	}
	if len(received[0].UserIDs) != 1 || received[0].UserIDs[0] != "rider-1" {
		t.Errorf("expected event addressed to rider-1, got %v", received[0].UserIDs)
	}
}

// OFFERED is not exclusive: a second driver can still answer the request,
// which then simply stays OFFERED with both proposals on the table.
func TestProposalCreation_SecondDriver_AlsoSucceeds(t *testing.T) {
	t.Parallel()

	f := newProposalFixture()
	request := f.seedRequest()
	f.vehicles.AddVehicle(&domain.Vehicle{
		ID: "vehicle-2", DriverID: "driver-2", Capacity: 4,
	})

	ctx := context.Background()
	if _, err := f.svc.CreateProposal(ctx, "driver-1", request.ID, "vehicle-1"); err != nil {
		t.Fatalf("first proposal failed: %v", err)
	}
	if _, err := f.svc.CreateProposal(ctx, "driver-2", request.ID, "vehicle-2"); err != nil {
		t.Fatalf("second proposal failed: %v", err)
	}

	if got := f.requests.GetRequest(request.ID).Status; got != domain.RequestStatusOffered {
		t.Errorf("expected request status OFFERED, got %s", got)
	}
	if got := f.proposals.CountByRequest(request.ID); got != 2 {
		t.Errorf("expected 2 proposals, got %d", got)
	}
}

func TestProposalCreation_ClosedRequest_Fails(t *testing.T) {
	t.Parallel()

	for _, status := range []domain.RequestStatus{
		domain.RequestStatusMatched,
		domain.RequestStatusCancelled,
		domain.RequestStatusClosed,
	} {
		f := newProposalFixture()
		request := f.seedRequest()
		request.Status = status
		f.requests.AddRequest(request)

		_, err := f.svc.CreateProposal(context.Background(), "driver-1", request.ID, "vehicle-1")
		if !errors.Is(err, service.ErrRequestClosed) {
			t.Errorf("status %s: expected ErrRequestClosed, got: %v", status, err)
		}
	}
}

func TestProposalCreation_ElapsedRequest_Fails(t *testing.T) {
	t.Parallel()

	f := newProposalFixture()
	request := f.seedRequest()
	request.RequestedTime = time.Now().Add(-time.Minute)
	f.requests.AddRequest(request)

	_, err := f.svc.CreateProposal(context.Background(), "driver-1", request.ID, "vehicle-1")
	if !errors.Is(err, service.ErrRequestElapsed) {
		t.Errorf("expected ErrRequestElapsed, got: %v", err)
	}
}

func TestProposalCreation_VehicleChecks(t *testing.T) {
	t.Parallel()

	f := newProposalFixture()
	request := f.seedRequest()
	f.vehicles.AddVehicle(&domain.Vehicle{
		ID: "vehicle-small", DriverID: "driver-1", Capacity: 1,
	})

	ctx := context.Background()

	_, err := f.svc.CreateProposal(ctx, "driver-1", request.ID, "missing")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown vehicle, got: %v", err)
	}

	_, err = f.svc.CreateProposal(ctx, "driver-2", request.ID, "vehicle-1")
	if !errors.Is(err, service.ErrNotVehicleOwner) {
		t.Errorf("expected ErrNotVehicleOwner, got: %v", err)
	}

	// A 1-seat vehicle cannot serve a 2-seat request.
	_, err = f.svc.CreateProposal(ctx, "driver-1", request.ID, "vehicle-small")
	if !errors.Is(err, service.ErrInsufficientCapacity) {
		t.Errorf("expected ErrInsufficientCapacity, got: %v", err)
	}

	// Failed attempts leave the request untouched.
	if got := f.requests.GetRequest(request.ID).Status; got != domain.RequestStatusPending {
		t.Errorf("expected request to stay PENDING, got %s", got)
	}
	if got := f.proposals.CountByRequest(request.ID); got != 0 {
		t.Errorf("expected no proposals, got %d", got)
	}
}

func TestProposalCreation_DuplicateDriver_Fails(t *testing.T) {
	t.Parallel()

	f := newProposalFixture()
	request := f.seedRequest()

	ctx := context.Background()
	if _, err := f.svc.CreateProposal(ctx, "driver-1", request.ID, "vehicle-1"); err != nil {
		t.Fatalf("first proposal failed: %v", err)
	}

	_, err := f.svc.CreateProposal(ctx, "driver-1", request.ID, "vehicle-1")
	if !errors.Is(err, service.ErrDuplicateProposal) {
		t.Errorf("expected ErrDuplicateProposal, got: %v", err)
	}
	if got := f.proposals.CountByRequest(request.ID); got != 1 {
		t.Errorf("expected exactly 1 proposal, got %d", got)
	}
}

// The same driver double-submits concurrently. The transaction serializes
// the duplicate check against the insert: exactly one attempt wins.
func TestProposalCreation_ConcurrentDuplicates_OneWins(t *testing.T) {
	t.Parallel()

	const attempts = 8

	f := newProposalFixture()
	request := f.seedRequest()

	ctx := context.Background()
	results := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.CreateProposal(ctx, "driver-1", request.ID, "vehicle-1")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded, duplicates := 0, 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, service.ErrDuplicateProposal):
			duplicates++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if succeeded != 1 {
		t.Errorf("expected exactly 1 successful proposal, got %d", succeeded)
	}
	if duplicates != attempts-1 {
		t.Errorf("expected %d duplicate rejections, got %d", attempts-1, duplicates)
	}
	if got := f.proposals.CountByRequest(request.ID); got != 1 {
		t.Errorf("expected exactly 1 stored proposal, got %d", got)
	}
}

// Two different drivers race on the same request. Neither blocks the other:
// both proposals land and the request simply stays OFFERED.
func TestProposalCreation_ConcurrentDistinctDrivers_BothSucceed(t *testing.T) {
	t.Parallel()

	f := newProposalFixture()
	request := f.seedRequest()
	f.vehicles.AddVehicle(&domain.Vehicle{
		ID: "vehicle-2", DriverID: "driver-2", Capacity: 4,
	})

	ctx := context.Background()
	results := make(chan error, 2)

	var wg sync.WaitGroup
	for _, p := range []struct{ driverID, vehicleID string }{
		{"driver-1", "vehicle-1"},
		{"driver-2", "vehicle-2"},
	} {
		wg.Add(1)
		go func(driverID, vehicleID string) {
			defer wg.Done()
			_, err := f.svc.CreateProposal(ctx, driverID, request.ID, vehicleID)
			results <- err
		}(p.driverID, p.vehicleID)
	}
	wg.Wait()
	close(results)

	for err := range results {
		if err != nil {
			t.Errorf("expected both drivers to succeed, got: %v", err)
		}
	}

	if got := f.requests.GetRequest(request.ID).Status; got != domain.RequestStatusOffered {
		t.Errorf("expected request status OFFERED, got %s", got)
	}
	if got := f.proposals.CountByRequest(request.ID); got != 2 {
		t.Errorf("expected 2 stored proposals, got %d", got)
	}
	for _, p := range mustListProposals(t, f, request.ID) {
		if p.Status != domain.ProposalStatusSent {
			t.Errorf("proposal %s: expected status SENT, got %s", p.ID, p.Status)
		}
	}
}

func mustListProposals(t *testing.T, f *proposalFixture, requestID string) []*domain.Proposal {
	t.Helper()
	proposals, err := f.proposals.ListByRequest(context.Background(), requestID)
	if err != nil {
		t.Fatalf("list proposals failed: %v", err)
	}
	return proposals
}

func TestListProposals(t *testing.T) {
	t.Parallel()

	f := newProposalFixture()
	request := f.seedRequest()
	f.vehicles.AddVehicle(&domain.Vehicle{
		ID: "vehicle-2", DriverID: "driver-2", Capacity: 4,
	})

	ctx := context.Background()

	_, err := f.svc.ListProposals(ctx, "missing")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown request, got: %v", err)
	}

	if _, err := f.svc.CreateProposal(ctx, "driver-1", request.ID, "vehicle-1"); err != nil {
		t.Fatalf("first proposal failed: %v", err)
	}
	if _, err := f.svc.CreateProposal(ctx, "driver-2", request.ID, "vehicle-2"); err != nil {
		t.Fatalf("second proposal failed: %v", err)
	}

	proposals, err := f.svc.ListProposals(ctx, request.ID)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(proposals) != 2 {
		t.Errorf("expected 2 proposals, got %d", len(proposals))
	}
}
