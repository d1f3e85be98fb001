package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"tripshare/internal/domain"
	"tripshare/internal/events"
	"tripshare/internal/repository"
	"tripshare/internal/service"
)

// ──────────────────────────────────────────────
// JOURNEY LIFECYCLE
// ──────────────────────────────────────────────

type journeyFixture struct {
	users    *MockUserRepository
	vehicles *MockVehicleRepository
	journeys *MockJourneyRepository
	bookings *MockBookingRepository
	cache    *MockCacheStore
	notifier *MockNotifier
	svc      *service.JourneyService
}

func newJourneyFixture() *journeyFixture {
	users := NewMockUserRepository()
	vehicles := NewMockVehicleRepository()
	journeys := NewMockJourneyRepository()
	bookings := NewMockBookingRepository()
	bookings.Journeys = journeys
	cache := NewMockCacheStore()
	notifier := NewMockNotifier()

	tx := NewMockTxManager(&repository.Repos{
		Users:     users,
		Vehicles:  vehicles,
		Journeys:  journeys,
		Bookings:  bookings,
		Requests:  NewMockRequestRepository(),
		Proposals: NewMockProposalRepository(),
	})
	bookingService := service.NewBookingService(tx, users, journeys, bookings, NewMockLockStore(), notifier)

	return &journeyFixture{
		users:    users,
		vehicles: vehicles,
		journeys: journeys,
		bookings: bookings,
		cache:    cache,
		notifier: notifier,
		svc:      service.NewJourneyService(journeys, bookings, vehicles, users, bookingService, cache, notifier),
	}
}

func (f *journeyFixture) seedDriver() {
	f.users.AddUser(&domain.User{ID: "driver-1", Name: "Dara", Phone: "+33600000001"})
	f.vehicles.AddVehicle(&domain.Vehicle{
		ID:       "vehicle-1",
		DriverID: "driver-1",
		Plate:    "AB-123-CD",
		Model:    "Kangoo",
		Capacity: 4,
	})
}

func floatPtr(v float64) *float64 { return &v }

func carpoolPublish() service.PublishJourneyRequest {
	return service.PublishJourneyRequest{
		DriverID:       "driver-1",
		VehicleID:      "vehicle-1",
		Type:           domain.JourneyTypeCarpool,
		Origin:         domain.Location{Name: "Lyon", Lat: 45.7640, Lng: 4.8357},
		Destination:    domain.Location{Name: "Grenoble", Lat: 45.1885, Lng: 5.7245},
		DepartureTime:  time.Now().Add(24 * time.Hour),
		AvailableSeats: intPtr(3),
		PricePerSeat:   floatPtr(12.50),
	}
}

func TestJourneyPublication_Carpool_Succeeds(t *testing.T) {
	t.Parallel()

	f := newJourneyFixture()
	f.seedDriver()

	journey, err := f.svc.PublishJourney(context.Background(), carpoolPublish())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if journey.ID == "" {
		t.Error("expected journey ID to be set")
	}
	if journey.Status != domain.JourneyStatusPending {
		t.Errorf("expected status PENDING, got %s", journey.Status)
	}
	if journey.AvailableSeats != 3 || journey.PricePerSeat != 12.50 {
		t.Errorf("unexpected carpool fields: seats=%d price=%v", journey.AvailableSeats, journey.PricePerSeat)
	}
	if f.journeys.GetJourney(journey.ID) == nil {
		t.Error("journey was not persisted")
	}
}

func TestJourneyPublication_Package_Succeeds(t *testing.T) {
	t.Parallel()

	f := newJourneyFixture()
	f.seedDriver()

	req := carpoolPublish()
	req.Type = domain.JourneyTypePackage
	req.AvailableSeats = nil
	req.PricePerSeat = nil

	journey, err := f.svc.PublishJourney(context.Background(), req)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if journey.AvailableSeats != 0 || journey.PricePerSeat != 0 {
		t.Error("package journeys must not carry seats or price per seat")
	}
}

func TestJourneyPublication_Validation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		mutate  func(*service.PublishJourneyRequest)
		wantErr error
	}{
		{"vehicle owned by someone else", func(r *service.PublishJourneyRequest) {
			r.DriverID = "driver-2"
		}, service.ErrNotVehicleOwner},
		{"departure in the past", func(r *service.PublishJourneyRequest) {
			r.DepartureTime = time.Now().Add(-time.Hour)
		}, service.ErrDeparturePast},
		{"carpool without seats", func(r *service.PublishJourneyRequest) {
			r.AvailableSeats = nil
		}, service.ErrCarpoolFieldsRequired},
		{"carpool without price", func(r *service.PublishJourneyRequest) {
			r.PricePerSeat = nil
		}, service.ErrCarpoolFieldsRequired},
		{"seats above vehicle capacity", func(r *service.PublishJourneyRequest) {
			r.AvailableSeats = intPtr(5)
		}, service.ErrInvalidSeatCount},
		{"zero price", func(r *service.PublishJourneyRequest) {
			r.PricePerSeat = floatPtr(0)
		}, service.ErrInvalidPrice},
		{"package with seats", func(r *service.PublishJourneyRequest) {
			r.Type = domain.JourneyTypePackage
			r.PricePerSeat = nil
		}, service.ErrPackageFieldsNotAllowed},
		{"unknown journey type", func(r *service.PublishJourneyRequest) {
			r.Type = domain.JourneyType("BOAT")
		}, service.ErrInvalidJourneyType},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newJourneyFixture()
			f.seedDriver()
			f.users.AddUser(&domain.User{ID: "driver-2", Name: "Other"})

			req := carpoolPublish()
			tc.mutate(&req)

			_, err := f.svc.PublishJourney(context.Background(), req)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got: %v", tc.wantErr, err)
			}
		})
	}
}

func TestGetJourney_UsesCache(t *testing.T) {
	t.Parallel()

	f := newJourneyFixture()
	f.seedDriver()

	journey, err := f.svc.PublishJourney(context.Background(), carpoolPublish())
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	ctx := context.Background()

	// First read misses the cache and fills it.
	first, err := f.svc.GetJourney(ctx, journey.ID)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if f.cache.SetCallCount != 1 {
		t.Errorf("expected 1 cache fill, got %d", f.cache.SetCallCount)
	}

	// Second read is served from the cache.
	second, err := f.svc.GetJourney(ctx, journey.ID)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if f.cache.SetCallCount != 1 {
		t.Errorf("cached read should not refill the cache, got %d fills", f.cache.SetCallCount)
	}

	// A cache hit must reproduce the stored journey exactly, coordinates
	// and timestamps included.
	if first.ID != second.ID || first.DriverID != second.DriverID ||
		!first.DepartureTime.Equal(second.DepartureTime) {
		t.Error("cached journey does not match the stored journey")
	}
	if second.Origin != first.Origin {
		t.Errorf("cache hit changed origin: miss=%+v hit=%+v", first.Origin, second.Origin)
	}
	if second.Destination != first.Destination {
		t.Errorf("cache hit changed destination: miss=%+v hit=%+v", first.Destination, second.Destination)
	}
	if second.Origin.Lat == 0 || second.Origin.Lng == 0 {
		t.Error("cache hit lost the origin coordinates")
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("cache hit changed created-at: miss=%v hit=%v", first.CreatedAt, second.CreatedAt)
	}
}

func TestJourneyCancellation_CascadesToBookings(t *testing.T) {
	t.Parallel()

	f := newJourneyFixture()
	f.seedDriver()

	journey, err := f.svc.PublishJourney(context.Background(), carpoolPublish())
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	f.bookings.AddBooking(&domain.Booking{
		ID: "b-1", RiderID: "rider-1", JourneyID: journey.ID, SeatCount: 1,
		Status: domain.BookingStatusPending,
	})
	f.bookings.AddBooking(&domain.Booking{
		ID: "b-2", RiderID: "rider-2", JourneyID: journey.ID, SeatCount: 2,
		Status: domain.BookingStatusPending,
	})

	ctx := context.Background()
	if err := f.svc.CancelJourney(ctx, "driver-1", journey.ID); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if got := f.journeys.GetJourney(journey.ID).Status; got != domain.JourneyStatusCancelled {
		t.Errorf("expected journey CANCELLED, got %s", got)
	}
	for _, id := range []string{"b-1", "b-2"} {
		if got := f.bookings.GetBooking(id).Status; got != domain.BookingStatusCancelled {
			t.Errorf("booking %s: expected CANCELLED, got %s", id, got)
		}
	}

	// One event fans out to all affected riders.
	cancelled := f.notifier.EventsOfType(events.TypeJourneyCancelled)
	if len(cancelled) != 1 {
		t.Fatalf("expected 1 journey_cancelled event, got %d", len(cancelled))
	}
	if len(cancelled[0].UserIDs) != 2 {
		t.Errorf("expected 2 recipients, got %v", cancelled[0].UserIDs)
	}

	// The cache entry is gone.
	if f.cache.Cached(journey.ID) != nil {
		t.Error("expected cache entry to be invalidated")
	}
}

func TestJourneyCancellation_Guards(t *testing.T) {
	t.Parallel()

	f := newJourneyFixture()
	f.seedDriver()

	journey, err := f.svc.PublishJourney(context.Background(), carpoolPublish())
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	ctx := context.Background()

	if err := f.svc.CancelJourney(ctx, "driver-2", journey.ID); !errors.Is(err, service.ErrNotJourneyOwner) {
		t.Errorf("expected ErrNotJourneyOwner, got: %v", err)
	}

	if err := f.svc.CancelJourney(ctx, "driver-1", journey.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	// Terminal journeys cannot transition again.
	if err := f.svc.CancelJourney(ctx, "driver-1", journey.ID); !errors.Is(err, service.ErrJourneyTerminal) {
		t.Errorf("expected ErrJourneyTerminal, got: %v", err)
	}
}

func TestJourneyCompletion_RequiresElapsedDeparture(t *testing.T) {
	t.Parallel()

	f := newJourneyFixture()
	f.seedDriver()

	journey, err := f.svc.PublishJourney(context.Background(), carpoolPublish())
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	err = f.svc.CompleteJourney(context.Background(), "driver-1", journey.ID)
	if !errors.Is(err, service.ErrJourneyNotElapsed) {
		t.Errorf("expected ErrJourneyNotElapsed, got: %v", err)
	}
	if got := f.journeys.GetJourney(journey.ID).Status; got != domain.JourneyStatusPending {
		t.Errorf("expected journey to stay PENDING, got %s", got)
	}
}

func TestJourneyCompletion_CascadesToBookings(t *testing.T) {
	t.Parallel()

	f := newJourneyFixture()
	f.seedDriver()

	// Seed directly so the departure can sit in the past.
	journey := &domain.Journey{
		ID:            "journey-1",
		DriverID:      "driver-1",
		VehicleID:     "vehicle-1",
		Type:          domain.JourneyTypeCarpool,
		Status:        domain.JourneyStatusPending,
		Origin:        domain.Location{Name: "Lyon"},
		Destination:   domain.Location{Name: "Grenoble"},
		DepartureTime: time.Now().Add(-2 * time.Hour),
	}
	f.journeys.AddJourney(journey)
	f.bookings.AddBooking(&domain.Booking{
		ID: "b-1", RiderID: "rider-1", JourneyID: journey.ID, SeatCount: 1,
		Status: domain.BookingStatusPending,
	})

	if err := f.svc.CompleteJourney(context.Background(), "driver-1", journey.ID); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if got := f.journeys.GetJourney(journey.ID).Status; got != domain.JourneyStatusCompleted {
		t.Errorf("expected journey COMPLETED, got %s", got)
	}
	if got := f.bookings.GetBooking("b-1").Status; got != domain.BookingStatusCompleted {
		t.Errorf("expected booking COMPLETED, got %s", got)
	}

	completed := f.notifier.EventsOfType(events.TypeJourneyCompleted)
	if len(completed) != 1 {
		t.Fatalf("expected 1 journey_completed event, got %d", len(completed))
	}
	if len(completed[0].UserIDs) != 1 || completed[0].UserIDs[0] != "rider-1" {
		t.Errorf("expected event addressed to rider-1, got %v", completed[0].UserIDs)
	}
}

// The completion cascade runs through the booking ledger, so a booking
// write failure surfaces instead of being silently skipped.
func TestJourneyCompletion_SurfacesBookingFailure(t *testing.T) {
	t.Parallel()

	f := newJourneyFixture()
	f.seedDriver()

	journey := &domain.Journey{
		ID:            "journey-1",
		DriverID:      "driver-1",
		VehicleID:     "vehicle-1",
		Type:          domain.JourneyTypeCarpool,
		Status:        domain.JourneyStatusPending,
		Origin:        domain.Location{Name: "Lyon"},
		Destination:   domain.Location{Name: "Grenoble"},
		DepartureTime: time.Now().Add(-2 * time.Hour),
	}
	f.journeys.AddJourney(journey)
	f.bookings.AddBooking(&domain.Booking{
		ID: "b-1", RiderID: "rider-1", JourneyID: journey.ID, SeatCount: 1,
		Status: domain.BookingStatusPending,
	})
	f.bookings.UpdateStatusError = errors.New("write timeout")

	err := f.svc.CompleteJourney(context.Background(), "driver-1", journey.ID)
	if !errors.Is(err, service.ErrInternal) {
		t.Fatalf("expected ErrInternal, got: %v", err)
	}

	if len(f.notifier.EventsOfType(events.TypeJourneyCompleted)) != 0 {
		t.Error("no completion event should be emitted when the cascade fails")
	}
}
