package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tripshare/internal/domain"
	"tripshare/internal/events"
	"tripshare/internal/observability"
	"tripshare/internal/redis"
	"tripshare/internal/repository"
)

const (
	journeyLockTTL    = 10 * time.Second
	lockRetryInterval = 5 * time.Millisecond
	lockMaxAttempts   = 400

	minSeatCount = 1
	maxSeatCount = 10
)

// BookingService handles reservation operations against journeys. All
// booking state lives in storage; the per-journey Redis lock plus the row
// lock taken inside the transaction keep the capacity check and the insert
// atomic relative to concurrent bookers.
type BookingService struct {
	tx          repository.TxManager
	userRepo    repository.UserRepository
	journeyRepo repository.JourneyRepository
	bookingRepo repository.BookingRepository
	lockStore   redis.LockStoreInterface
	notifier    events.Notifier
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	tx repository.TxManager,
	userRepo repository.UserRepository,
	journeyRepo repository.JourneyRepository,
	bookingRepo repository.BookingRepository,
	lockStore redis.LockStoreInterface,
	notifier events.Notifier,
) *BookingService {
	return &BookingService{
		tx:          tx,
		userRepo:    userRepo,
		journeyRepo: journeyRepo,
		bookingRepo: bookingRepo,
		lockStore:   lockStore,
		notifier:    notifier,
	}
}

// CreateBookingRequest contains the parameters for creating a booking.
// SeatCount must be set for carpool journeys and absent for package journeys.
type CreateBookingRequest struct {
	RiderID   string
	JourneyID string
	SeatCount *int
}

// CreateBooking reserves seats or the cargo slot on a journey.
//
// Preconditions are evaluated in a fixed order, first failure wins: rider and
// journey must exist; no duplicate active booking for (rider, journey); no
// other PENDING/CONFIRMED booking at the same departure time; the rider must
// not own the journey; departure must be in the future; the journey must be
// PENDING; seat count presence must match the journey type; and for carpools
// the pending seat total plus the new seats must fit the vehicle capacity.
//
// The duplicate, overlap and capacity checks run in the same transaction as
// the insert, under the journey's reservation lock, so two concurrent
// bookers cannot both pass the capacity check against the same free seats.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	if req.RiderID == "" {
		return nil, ErrInvalidRiderID
	}
	if req.JourneyID == "" {
		return nil, ErrInvalidJourneyID
	}

	if _, err := s.userRepo.GetByID(ctx, req.RiderID); err != nil {
		return nil, surfaceError("create booking", err, "rider="+req.RiderID)
	}
	if _, err := s.journeyRepo.GetByID(ctx, req.JourneyID); err != nil {
		return nil, surfaceError("create booking", err, "journey="+req.JourneyID)
	}

	if err := s.acquireJourneyLock(ctx, req.JourneyID); err != nil {
		return nil, err
	}
	defer func() {
		_ = s.lockStore.ReleaseJourneyLock(ctx, req.JourneyID)
	}()

	var booking *domain.Booking
	var journey *domain.Journey

	err := s.tx.InTx(ctx, func(r *repository.Repos) error {
		var err error
		journey, err = r.Journeys.GetByIDForUpdate(ctx, req.JourneyID)
		if err != nil {
			return err
		}

		existing, err := r.Bookings.GetActiveByRiderAndJourney(ctx, req.RiderID, journey.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrDuplicateBooking
		}

		overlapping, err := r.Bookings.GetActiveByRiderAndDeparture(ctx, req.RiderID, journey.DepartureTime)
		if err != nil {
			return err
		}
		if overlapping != nil {
			return ErrBookingTimeOverlap
		}

		if req.RiderID == journey.DriverID {
			return ErrOwnJourneyBooking
		}

		if !journey.DepartureTime.After(time.Now()) {
			return ErrJourneyDeparted
		}

		if journey.Status != domain.JourneyStatusPending {
			return ErrJourneyNotPending
		}

		seatCount := 0
		switch journey.Type {
		case domain.JourneyTypePackage:
			if req.SeatCount != nil {
				return ErrSeatCountNotAllowed
			}
		case domain.JourneyTypeCarpool:
			if req.SeatCount == nil {
				return ErrSeatCountRequired
			}
			seatCount = *req.SeatCount
			if seatCount < minSeatCount || seatCount > maxSeatCount {
				return ErrInvalidSeatCount
			}

			vehicle, err := r.Vehicles.GetByID(ctx, journey.VehicleID)
			if err != nil {
				return err
			}

			reserved, err := r.Bookings.SumPendingSeats(ctx, journey.ID)
			if err != nil {
				return err
			}
			if reserved+seatCount > vehicle.Capacity {
				return ErrNoSeatsAvailable
			}
		default:
			return ErrInvalidJourneyType
		}

		booking = &domain.Booking{
			ID:         uuid.New().String(),
			RiderID:    req.RiderID,
			JourneyID:  journey.ID,
			SeatCount:  seatCount,
			IsShipping: journey.Type == domain.JourneyTypePackage,
			Status:     domain.BookingStatusPending,
			Journey: domain.JourneySnapshot{
				DepartureTime: journey.DepartureTime,
				Type:          journey.Type,
				Origin:        journey.Origin.Name,
				Destination:   journey.Destination.Name,
			},
			CreatedAt: time.Now(),
		}

		return r.Bookings.Create(ctx, booking)
	})
	if err != nil {
		switch err {
		case ErrDuplicateBooking, ErrBookingTimeOverlap, ErrNoSeatsAvailable:
			observability.BookingConflicts.Inc()
		}
		return nil, surfaceError("create booking", err,
			"rider="+req.RiderID, "journey="+req.JourneyID)
	}

	observability.BookingsCreated.Inc()

	_ = s.notifier.Emit(ctx, events.Event{
		UserIDs:   []string{journey.DriverID},
		JourneyID: journey.ID,
		Type:      events.TypeBookingCreated,
		Reason: fmt.Sprintf("New booking for your journey from %s to %s departing %s",
			journey.Origin.Name, journey.Destination.Name,
			journey.DepartureTime.Format("Jan 2 at 15:04")),
		CreatedAt: time.Now(),
	})

	return booking, nil
}

// CancelBooking cancels a rider's booking. Cancelling an already cancelled
// booking is an error, not a silent no-op.
func (s *BookingService) CancelBooking(ctx context.Context, riderID, bookingID string) error {
	if riderID == "" {
		return ErrInvalidRiderID
	}
	if bookingID == "" {
		return ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return surfaceError("cancel booking", err, "booking="+bookingID)
	}

	if booking.Status == domain.BookingStatusCancelled {
		return ErrBookingAlreadyCancelled
	}

	if booking.RiderID != riderID {
		return ErrNotBookingOwner
	}

	if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, domain.BookingStatusCancelled); err != nil {
		return surfaceError("cancel booking", err, "booking="+bookingID)
	}

	observability.BookingsCancelled.Inc()
	s.emitCancelled(ctx, booking, "The rider cancelled their booking")

	return nil
}

// CancelAllBookingsForRider cancels every PENDING booking of a rider. Used
// when the rider's account is removed. Failures on individual bookings are
// logged and skipped; each booking's own invariants stay satisfied. No-op
// when the rider has no pending bookings.
func (s *BookingService) CancelAllBookingsForRider(ctx context.Context, riderID string) error {
	if riderID == "" {
		return ErrInvalidRiderID
	}

	bookings, err := s.bookingRepo.GetPendingByRider(ctx, riderID)
	if err != nil {
		return surfaceError("cancel all bookings", err, "rider="+riderID)
	}

	for _, booking := range bookings {
		if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, domain.BookingStatusCancelled); err != nil {
			_ = surfaceError("cancel all bookings", err, "rider="+riderID, "booking="+booking.ID)
			continue
		}
		observability.BookingsCancelled.Inc()
		s.emitCancelled(ctx, booking, "A booking was cancelled because the rider's account was removed")
	}

	return nil
}

// MarkBookingsCompleted transitions every booking in the input to COMPLETED
// and persists the change. Used by journey completion once the departure has
// fully elapsed. Empty input is a no-op.
func (s *BookingService) MarkBookingsCompleted(ctx context.Context, bookings []*domain.Booking) ([]*domain.Booking, error) {
	for _, booking := range bookings {
		if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, domain.BookingStatusCompleted); err != nil {
			return nil, surfaceError("complete bookings", err, "booking="+booking.ID)
		}
		booking.Status = domain.BookingStatusCompleted
	}
	return bookings, nil
}

// UserHasBookedJourney reports whether the rider holds a non-cancelled
// booking for the journey. Used by the rating collaborator to confirm trip
// participation.
func (s *BookingService) UserHasBookedJourney(ctx context.Context, riderID, journeyID string) (bool, error) {
	if riderID == "" {
		return false, ErrInvalidRiderID
	}
	if journeyID == "" {
		return false, ErrInvalidJourneyID
	}

	booked, err := s.bookingRepo.ExistsByRiderAndJourney(ctx, riderID, journeyID)
	if err != nil {
		return false, surfaceError("has booked journey", err, "rider="+riderID, "journey="+journeyID)
	}
	return booked, nil
}

// GetBookingsByRider retrieves a rider's bookings whose journey currently
// has the given status, ordered by departure time ascending.
func (s *BookingService) GetBookingsByRider(ctx context.Context, riderID string, journeyStatus domain.JourneyStatus) ([]*domain.Booking, error) {
	if riderID == "" {
		return nil, ErrInvalidRiderID
	}
	switch journeyStatus {
	case domain.JourneyStatusPending, domain.JourneyStatusCancelled, domain.JourneyStatusCompleted:
	default:
		return nil, ErrInvalidJourneyStatus
	}

	bookings, err := s.bookingRepo.ListByRiderAndJourneyStatus(ctx, riderID, journeyStatus)
	if err != nil {
		return nil, surfaceError("list bookings", err, "rider="+riderID)
	}
	return bookings, nil
}

// acquireJourneyLock retries the journey's reservation lock until acquired
// or the retry window runs out. Contention on a journey is short-lived: the
// holder only needs one transaction.
func (s *BookingService) acquireJourneyLock(ctx context.Context, journeyID string) error {
	for attempt := 0; attempt < lockMaxAttempts; attempt++ {
		locked, err := s.lockStore.AcquireJourneyLock(ctx, journeyID, journeyLockTTL)
		if err != nil {
			return surfaceError("create booking", err, "journey="+journeyID)
		}
		if locked {
			return nil
		}

		select {
		case <-ctx.Done():
			return surfaceError("create booking", ctx.Err(), "journey="+journeyID)
		case <-time.After(lockRetryInterval):
		}
	}
	return ErrJourneyBusy
}

func (s *BookingService) emitCancelled(ctx context.Context, booking *domain.Booking, reason string) {
	journey, err := s.journeyRepo.GetByID(ctx, booking.JourneyID)
	if err != nil {
		return
	}
	_ = s.notifier.Emit(ctx, events.Event{
		UserIDs:   []string{journey.DriverID},
		JourneyID: journey.ID,
		Type:      events.TypeBookingCancelled,
		Reason:    reason,
		CreatedAt: time.Now(),
	})
}
