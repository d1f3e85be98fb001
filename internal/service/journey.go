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

// JourneyService handles journey publication and the status lifecycle.
// Journeys move PENDING to CANCELLED or COMPLETED and never back; terminal
// transitions cascade onto the journey's pending bookings.
type JourneyService struct {
	journeyRepo    repository.JourneyRepository
	bookingRepo    repository.BookingRepository
	vehicleRepo    repository.VehicleRepository
	userRepo       repository.UserRepository
	bookingService *BookingService
	cacheStore     redis.CacheStoreInterface
	notifier       events.Notifier
}

// NewJourneyService creates a new JourneyService. Booking transitions that
// cascade from journey transitions go through the booking service, which
// owns the booking lifecycle.
func NewJourneyService(
	journeyRepo repository.JourneyRepository,
	bookingRepo repository.BookingRepository,
	vehicleRepo repository.VehicleRepository,
	userRepo repository.UserRepository,
	bookingService *BookingService,
	cacheStore redis.CacheStoreInterface,
	notifier events.Notifier,
) *JourneyService {
	return &JourneyService{
		journeyRepo:    journeyRepo,
		bookingRepo:    bookingRepo,
		vehicleRepo:    vehicleRepo,
		userRepo:       userRepo,
		bookingService: bookingService,
		cacheStore:     cacheStore,
		notifier:       notifier,
	}
}

// PublishJourneyRequest contains the parameters for publishing a journey.
// AvailableSeats and PricePerSeat must be set for carpool journeys and
// absent for package journeys.
type PublishJourneyRequest struct {
	DriverID       string
	VehicleID      string
	Type           domain.JourneyType
	Origin         domain.Location
	Destination    domain.Location
	DepartureTime  time.Time
	AvailableSeats *int
	PricePerSeat   *float64
}

// PublishJourney creates a journey in PENDING state. The vehicle must
// belong to the publishing driver and the departure must be in the future.
func (s *JourneyService) PublishJourney(ctx context.Context, req PublishJourneyRequest) (*domain.Journey, error) {
	if req.DriverID == "" {
		return nil, ErrInvalidDriverID
	}
	if req.VehicleID == "" {
		return nil, ErrInvalidVehicleID
	}

	if _, err := s.userRepo.GetByID(ctx, req.DriverID); err != nil {
		return nil, surfaceError("publish journey", err, "driver="+req.DriverID)
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, req.VehicleID)
	if err != nil {
		return nil, surfaceError("publish journey", err, "vehicle="+req.VehicleID)
	}
	if vehicle.DriverID != req.DriverID {
		return nil, ErrNotVehicleOwner
	}

	if !req.DepartureTime.After(time.Now()) {
		return nil, ErrDeparturePast
	}

	journey := &domain.Journey{
		ID:            uuid.New().String(),
		DriverID:      req.DriverID,
		VehicleID:     req.VehicleID,
		Type:          req.Type,
		Status:        domain.JourneyStatusPending,
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureTime: req.DepartureTime,
		CreatedAt:     time.Now(),
	}

	switch req.Type {
	case domain.JourneyTypeCarpool:
		if req.AvailableSeats == nil || req.PricePerSeat == nil {
			return nil, ErrCarpoolFieldsRequired
		}
		if *req.AvailableSeats < minSeatCount || *req.AvailableSeats > vehicle.Capacity {
			return nil, ErrInvalidSeatCount
		}
		if *req.PricePerSeat <= 0 {
			return nil, ErrInvalidPrice
		}
		journey.AvailableSeats = *req.AvailableSeats
		journey.PricePerSeat = *req.PricePerSeat
	case domain.JourneyTypePackage:
		if req.AvailableSeats != nil || req.PricePerSeat != nil {
			return nil, ErrPackageFieldsNotAllowed
		}
	default:
		return nil, ErrInvalidJourneyType
	}

	if err := s.journeyRepo.Create(ctx, journey); err != nil {
		return nil, surfaceError("publish journey", err, "driver="+req.DriverID)
	}

	return journey, nil
}

// GetJourney retrieves a journey, trying the cache before storage.
func (s *JourneyService) GetJourney(ctx context.Context, journeyID string) (*domain.Journey, error) {
	if journeyID == "" {
		return nil, ErrInvalidJourneyID
	}

	if s.cacheStore != nil {
		if cached, err := s.cacheStore.GetJourney(ctx, journeyID); err == nil && cached != nil {
			if journey := cachedToJourney(cached); journey != nil {
				return journey, nil
			}
		}
	}

	journey, err := s.journeyRepo.GetByID(ctx, journeyID)
	if err != nil {
		return nil, surfaceError("get journey", err, "journey="+journeyID)
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetJourney(ctx, journeyToCached(journey))
	}

	return journey, nil
}

// CancelJourney moves a PENDING journey to CANCELLED and cancels every
// pending booking against it, notifying the affected riders.
func (s *JourneyService) CancelJourney(ctx context.Context, driverID, journeyID string) error {
	journey, err := s.ownedPendingJourney(ctx, "cancel journey", driverID, journeyID)
	if err != nil {
		return err
	}

	if err := s.journeyRepo.UpdateStatus(ctx, journey.ID, domain.JourneyStatusCancelled); err != nil {
		return surfaceError("cancel journey", err, "journey="+journeyID)
	}
	s.invalidate(ctx, journey.ID)

	bookings, err := s.bookingRepo.GetPendingByJourney(ctx, journey.ID)
	if err != nil {
		return surfaceError("cancel journey", err, "journey="+journeyID)
	}

	riderIDs := make([]string, 0, len(bookings))
	for _, booking := range bookings {
		if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, domain.BookingStatusCancelled); err != nil {
			_ = surfaceError("cancel journey", err, "journey="+journeyID, "booking="+booking.ID)
			continue
		}
		observability.BookingsCancelled.Inc()
		riderIDs = append(riderIDs, booking.RiderID)
	}

	if len(riderIDs) > 0 {
		_ = s.notifier.Emit(ctx, events.Event{
			UserIDs:   riderIDs,
			JourneyID: journey.ID,
			Type:      events.TypeJourneyCancelled,
			Reason: fmt.Sprintf("The journey from %s to %s was cancelled by the driver",
				journey.Origin.Name, journey.Destination.Name),
			CreatedAt: time.Now(),
		})
	}

	return nil
}

// CompleteJourney moves a PENDING journey whose departure has elapsed to
// COMPLETED and completes its pending bookings.
func (s *JourneyService) CompleteJourney(ctx context.Context, driverID, journeyID string) error {
	journey, err := s.ownedPendingJourney(ctx, "complete journey", driverID, journeyID)
	if err != nil {
		return err
	}

	if time.Now().Before(journey.DepartureTime) {
		return ErrJourneyNotElapsed
	}

	if err := s.journeyRepo.UpdateStatus(ctx, journey.ID, domain.JourneyStatusCompleted); err != nil {
		return surfaceError("complete journey", err, "journey="+journeyID)
	}
	s.invalidate(ctx, journey.ID)

	bookings, err := s.bookingRepo.GetPendingByJourney(ctx, journey.ID)
	if err != nil {
		return surfaceError("complete journey", err, "journey="+journeyID)
	}

	completed, err := s.bookingService.MarkBookingsCompleted(ctx, bookings)
	if err != nil {
		return err
	}

	riderIDs := make([]string, 0, len(completed))
	for _, booking := range completed {
		riderIDs = append(riderIDs, booking.RiderID)
	}

	if len(riderIDs) > 0 {
		_ = s.notifier.Emit(ctx, events.Event{
			UserIDs:   riderIDs,
			JourneyID: journey.ID,
			Type:      events.TypeJourneyCompleted,
			Reason: fmt.Sprintf("Your journey from %s to %s is complete",
				journey.Origin.Name, journey.Destination.Name),
			CreatedAt: time.Now(),
		})
	}

	return nil
}

func (s *JourneyService) ownedPendingJourney(ctx context.Context, op, driverID, journeyID string) (*domain.Journey, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}
	if journeyID == "" {
		return nil, ErrInvalidJourneyID
	}

	journey, err := s.journeyRepo.GetByID(ctx, journeyID)
	if err != nil {
		return nil, surfaceError(op, err, "journey="+journeyID)
	}

	if journey.DriverID != driverID {
		return nil, ErrNotJourneyOwner
	}
	if journey.Status.IsTerminal() {
		return nil, ErrJourneyTerminal
	}

	return journey, nil
}

func (s *JourneyService) invalidate(ctx context.Context, journeyID string) {
	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateJourney(ctx, journeyID)
	}
}

func journeyToCached(journey *domain.Journey) *redis.CachedJourney {
	return &redis.CachedJourney{
		ID:             journey.ID,
		DriverID:       journey.DriverID,
		VehicleID:      journey.VehicleID,
		Type:           string(journey.Type),
		Status:         string(journey.Status),
		Origin:         journey.Origin.Name,
		OriginLat:      journey.Origin.Lat,
		OriginLng:      journey.Origin.Lng,
		Destination:    journey.Destination.Name,
		DestinationLat: journey.Destination.Lat,
		DestinationLng: journey.Destination.Lng,
		DepartureTime:  journey.DepartureTime.Format(time.RFC3339Nano),
		AvailableSeats: journey.AvailableSeats,
		PricePerSeat:   journey.PricePerSeat,
		CreatedAt:      journey.CreatedAt.Format(time.RFC3339Nano),
	}
}

func cachedToJourney(cached *redis.CachedJourney) *domain.Journey {
	departure, err := time.Parse(time.RFC3339Nano, cached.DepartureTime)
	if err != nil {
		return nil
	}
	createdAt, err := time.Parse(time.RFC3339Nano, cached.CreatedAt)
	if err != nil {
		return nil
	}
	return &domain.Journey{
		ID:             cached.ID,
		DriverID:       cached.DriverID,
		VehicleID:      cached.VehicleID,
		Type:           domain.JourneyType(cached.Type),
		Status:         domain.JourneyStatus(cached.Status),
		Origin:         domain.Location{Name: cached.Origin, Lat: cached.OriginLat, Lng: cached.OriginLng},
		Destination:    domain.Location{Name: cached.Destination, Lat: cached.DestinationLat, Lng: cached.DestinationLng},
		DepartureTime:  departure,
		AvailableSeats: cached.AvailableSeats,
		PricePerSeat:   cached.PricePerSeat,
		CreatedAt:      createdAt,
	}
}
