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
// BOOKING CANCELLATION AND LIFECYCLE
// ──────────────────────────────────────────────

func TestBookingCancellation_Succeeds(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	journey := f.seedJourney(domain.JourneyTypeCarpool, 4)
	f.addRider("rider-1")

	ctx := context.Background()
	booking, err := f.svc.CreateBooking(ctx, service.CreateBookingRequest{
		RiderID: "rider-1", JourneyID: journey.ID, SeatCount: intPtr(2),
	})
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	if err := f.svc.CancelBooking(ctx, "rider-1", booking.ID); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	stored := f.bookings.GetBooking(booking.ID)
	if stored.Status != domain.BookingStatusCancelled {
		t.Errorf("expected status CANCELLED, got %s", stored.Status)
	}

	// Seats were released.
	reserved, err := f.bookings.SumPendingSeats(ctx, journey.ID)
	if err != nil {
		t.Fatalf("sum failed: %v", err)
	}
	if reserved != 0 {
		t.Errorf("expected 0 pending seats after cancellation, got %d", reserved)
	}

	// The driver is notified.
	cancelled := f.notifier.EventsOfType(events.TypeBookingCancelled)
	if len(cancelled) != 1 {
		t.Fatalf("expected 1 booking_cancelled event, got %d", len(cancelled))
	}
	if len(cancelled[0].UserIDs) != 1 || cancelled[0].UserIDs[0] != "driver-1" {
		t.Errorf("expected event addressed to driver-1, got %v", cancelled[0].UserIDs)
	}
}

func TestBookingCancellation_AlreadyCancelled_Fails(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	journey := f.seedJourney(domain.JourneyTypeCarpool, 4)
	f.addRider("rider-1")

	ctx := context.Background()
	booking, err := f.svc.CreateBooking(ctx, service.CreateBookingRequest{
		RiderID: "rider-1", JourneyID: journey.ID, SeatCount: intPtr(1),
	})
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}
	if err := f.svc.CancelBooking(ctx, "rider-1", booking.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	err = f.svc.CancelBooking(ctx, "rider-1", booking.ID)
	if !errors.Is(err, service.ErrBookingAlreadyCancelled) {
		t.Errorf("expected ErrBookingAlreadyCancelled, got: %v", err)
	}

	// The already-cancelled check precedes the ownership check: a stranger
	// probing a cancelled booking learns nothing about its owner.
	err = f.svc.CancelBooking(ctx, "rider-2", booking.ID)
	if !errors.Is(err, service.ErrBookingAlreadyCancelled) {
		t.Errorf("expected ErrBookingAlreadyCancelled for non-owner too, got: %v", err)
	}
}

func TestBookingCancellation_NotOwner_Fails(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	journey := f.seedJourney(domain.JourneyTypeCarpool, 4)
	f.addRider("rider-1")

	ctx := context.Background()
	booking, err := f.svc.CreateBooking(ctx, service.CreateBookingRequest{
		RiderID: "rider-1", JourneyID: journey.ID, SeatCount: intPtr(1),
	})
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	err = f.svc.CancelBooking(ctx, "rider-2", booking.ID)
	if !errors.Is(err, service.ErrNotBookingOwner) {
		t.Errorf("expected ErrNotBookingOwner, got: %v", err)
	}

	if f.bookings.GetBooking(booking.ID).Status != domain.BookingStatusPending {
		t.Error("booking must stay PENDING after a rejected cancellation")
	}
}

func TestBookingCancellation_UnknownBooking_Fails(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	err := f.svc.CancelBooking(context.Background(), "rider-1", "missing")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestBulkCancellation_CancelsOnlyRidersPendingBookings(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	journey := f.seedJourney(domain.JourneyTypeCarpool, 8)
	f.addRider("rider-1")
	f.addRider("rider-2")

	departure := journey.DepartureTime
	seed := []*domain.Booking{
		{ID: "b-1", RiderID: "rider-1", JourneyID: journey.ID, SeatCount: 1,
			Status: domain.BookingStatusPending, Journey: domain.JourneySnapshot{DepartureTime: departure}},
		{ID: "b-2", RiderID: "rider-1", JourneyID: journey.ID, SeatCount: 1,
			Status: domain.BookingStatusConfirmed, Journey: domain.JourneySnapshot{DepartureTime: departure.Add(time.Hour)}},
		{ID: "b-3", RiderID: "rider-2", JourneyID: journey.ID, SeatCount: 1,
			Status: domain.BookingStatusPending, Journey: domain.JourneySnapshot{DepartureTime: departure}},
	}
	for _, b := range seed {
		f.bookings.AddBooking(b)
	}

	if err := f.svc.CancelAllBookingsForRider(context.Background(), "rider-1"); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if f.bookings.GetBooking("b-1").Status != domain.BookingStatusCancelled {
		t.Error("rider-1's pending booking should be cancelled")
	}
	if f.bookings.GetBooking("b-2").Status != domain.BookingStatusConfirmed {
		t.Error("confirmed bookings are out of scope for bulk cancellation")
	}
	if f.bookings.GetBooking("b-3").Status != domain.BookingStatusPending {
		t.Error("other riders' bookings must not be touched")
	}
}

func TestBulkCancellation_NoBookings_IsNoOp(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.addRider("rider-1")

	if err := f.svc.CancelAllBookingsForRider(context.Background(), "rider-1"); err != nil {
		t.Errorf("expected no error for rider without bookings, got: %v", err)
	}
	if len(f.notifier.Events()) != 0 {
		t.Error("no events expected for a no-op cancellation")
	}
}

func TestBulkCancellation_SkipsFailedBooking(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	journey := f.seedJourney(domain.JourneyTypeCarpool, 8)
	f.addRider("rider-1")

	f.bookings.AddBooking(&domain.Booking{
		ID: "b-1", RiderID: "rider-1", JourneyID: journey.ID, SeatCount: 1,
		Status: domain.BookingStatusPending,
	})
	f.bookings.UpdateStatusError = errors.New("write timeout")

	// Individual failures are logged and skipped, not surfaced.
	if err := f.svc.CancelAllBookingsForRider(context.Background(), "rider-1"); err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
}

func TestMarkBookingsCompleted_TransitionsAll(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	journey := f.seedJourney(domain.JourneyTypeCarpool, 8)

	seed := []*domain.Booking{
		{ID: "b-1", RiderID: "rider-1", JourneyID: journey.ID, Status: domain.BookingStatusPending},
		{ID: "b-2", RiderID: "rider-2", JourneyID: journey.ID, Status: domain.BookingStatusConfirmed},
	}
	for _, b := range seed {
		f.bookings.AddBooking(b)
	}

	completed, err := f.svc.MarkBookingsCompleted(context.Background(), seed)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	for _, b := range completed {
		if b.Status != domain.BookingStatusCompleted {
			t.Errorf("booking %s: expected COMPLETED, got %s", b.ID, b.Status)
		}
		if f.bookings.GetBooking(b.ID).Status != domain.BookingStatusCompleted {
			t.Errorf("booking %s: completion not persisted", b.ID)
		}
	}
}

func TestUserHasBookedJourney(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	journey := f.seedJourney(domain.JourneyTypeCarpool, 4)
	f.addRider("rider-1")

	ctx := context.Background()

	booked, err := f.svc.UserHasBookedJourney(ctx, "rider-1", journey.ID)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if booked {
		t.Error("rider without bookings should not count as a participant")
	}

	booking, err := f.svc.CreateBooking(ctx, service.CreateBookingRequest{
		RiderID: "rider-1", JourneyID: journey.ID, SeatCount: intPtr(1),
	})
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	booked, err = f.svc.UserHasBookedJourney(ctx, "rider-1", journey.ID)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !booked {
		t.Error("rider with an active booking should count as a participant")
	}

	// A cancelled booking no longer counts.
	if err := f.svc.CancelBooking(ctx, "rider-1", booking.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	booked, err = f.svc.UserHasBookedJourney(ctx, "rider-1", journey.ID)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if booked {
		t.Error("cancelled bookings must not count as participation")
	}
}

func TestGetBookingsByRider_FiltersAndOrders(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()

	now := time.Now()
	f.journeys.AddJourney(&domain.Journey{
		ID: "j-late", Status: domain.JourneyStatusPending, DepartureTime: now.Add(48 * time.Hour),
	})
	f.journeys.AddJourney(&domain.Journey{
		ID: "j-early", Status: domain.JourneyStatusPending, DepartureTime: now.Add(2 * time.Hour),
	})
	f.journeys.AddJourney(&domain.Journey{
		ID: "j-done", Status: domain.JourneyStatusCompleted, DepartureTime: now.Add(-time.Hour),
	})

	f.bookings.AddBooking(&domain.Booking{
		ID: "b-late", RiderID: "rider-1", JourneyID: "j-late",
		Status: domain.BookingStatusPending,
		Journey: domain.JourneySnapshot{DepartureTime: now.Add(48 * time.Hour)},
	})
	f.bookings.AddBooking(&domain.Booking{
		ID: "b-early", RiderID: "rider-1", JourneyID: "j-early",
		Status: domain.BookingStatusPending,
		Journey: domain.JourneySnapshot{DepartureTime: now.Add(2 * time.Hour)},
	})
	f.bookings.AddBooking(&domain.Booking{
		ID: "b-done", RiderID: "rider-1", JourneyID: "j-done",
		Status: domain.BookingStatusCompleted,
		Journey: domain.JourneySnapshot{DepartureTime: now.Add(-time.Hour)},
	})

	upcoming, err := f.svc.GetBookingsByRider(context.Background(), "rider-1", domain.JourneyStatusPending)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(upcoming) != 2 {
		t.Fatalf("expected 2 upcoming bookings, got %d", len(upcoming))
	}
	if upcoming[0].ID != "b-early" || upcoming[1].ID != "b-late" {
		t.Errorf("expected bookings ordered by departure, got %s then %s", upcoming[0].ID, upcoming[1].ID)
	}
}

// The status filter is a closed enum: anything else is rejected instead of
// quietly matching nothing.
func TestGetBookingsByRider_UnknownStatus_Fails(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()

	for _, status := range []domain.JourneyStatus{"", "DEPARTED", "pending"} {
		_, err := f.svc.GetBookingsByRider(context.Background(), "rider-1", status)
		if !errors.Is(err, service.ErrInvalidJourneyStatus) {
			t.Errorf("status %q: expected ErrInvalidJourneyStatus, got: %v", status, err)
		}
	}
}
