package service

import (
	"errors"
	"log"

	"tripshare/internal/repository"
)

var (
	// ErrInvalidRiderID is returned when the rider ID is empty.
	ErrInvalidRiderID = errors.New("invalid rider id")

	// ErrInvalidDriverID is returned when the driver ID is empty.
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrInvalidJourneyID is returned when the journey ID is empty.
	ErrInvalidJourneyID = errors.New("invalid journey id")

	// ErrInvalidBookingID is returned when the booking ID is empty.
	ErrInvalidBookingID = errors.New("invalid booking id")

	// ErrInvalidVehicleID is returned when the vehicle ID is empty.
	ErrInvalidVehicleID = errors.New("invalid vehicle id")

	// ErrInvalidRequestID is returned when the request ID is empty.
	ErrInvalidRequestID = errors.New("invalid request id")

	// ErrOwnJourneyBooking is returned when a rider tries to book their own journey.
	ErrOwnJourneyBooking = errors.New("cannot book your own journey")

	// ErrJourneyDeparted is returned when the journey's departure time has passed.
	ErrJourneyDeparted = errors.New("journey departure time has passed")

	// ErrJourneyNotPending is returned when booking against a cancelled or completed journey.
	ErrJourneyNotPending = errors.New("journey is not open for booking")

	// ErrSeatCountNotAllowed is returned when a package booking carries a seat count.
	ErrSeatCountNotAllowed = errors.New("seat count not allowed for package journeys")

	// ErrSeatCountRequired is returned when a carpool booking omits the seat count.
	ErrSeatCountRequired = errors.New("seat count is required for carpool journeys")

	// ErrInvalidSeatCount is returned when the seat count is outside 1-10.
	ErrInvalidSeatCount = errors.New("seat count must be between 1 and 10")

	// ErrDuplicateBooking is returned when the rider already holds an active
	// booking for the journey.
	ErrDuplicateBooking = errors.New("duplicate booking")

	// ErrBookingTimeOverlap is returned when the rider already holds a
	// booking departing at the same time.
	ErrBookingTimeOverlap = errors.New("time overlap with another booking")

	// ErrNoSeatsAvailable is returned when the requested seats exceed the
	// journey vehicle's remaining capacity.
	ErrNoSeatsAvailable = errors.New("no seats available")

	// ErrJourneyBusy is returned when the journey's reservation lock could
	// not be acquired within the retry window.
	ErrJourneyBusy = errors.New("journey is being booked, try again")

	// ErrBookingAlreadyCancelled is returned when cancelling a cancelled booking.
	ErrBookingAlreadyCancelled = errors.New("booking already cancelled")

	// ErrNotBookingOwner is returned when a rider cancels another rider's booking.
	ErrNotBookingOwner = errors.New("booking belongs to another rider")

	// ErrRequestClosed is returned when the request is matched, closed or cancelled.
	ErrRequestClosed = errors.New("request no longer accepts proposals")

	// ErrRequestElapsed is returned when proposing after the requested time.
	ErrRequestElapsed = errors.New("request time has already passed")

	// ErrNotVehicleOwner is returned when the proposing driver does not own the vehicle.
	ErrNotVehicleOwner = errors.New("vehicle belongs to another driver")

	// ErrInsufficientCapacity is returned when the vehicle cannot seat the request.
	ErrInsufficientCapacity = errors.New("vehicle capacity below requested seats")

	// ErrDuplicateProposal is returned when the driver already has a SENT
	// proposal for the request.
	ErrDuplicateProposal = errors.New("proposal already sent for this request")

	// ErrNotJourneyOwner is returned when a driver mutates another driver's journey.
	ErrNotJourneyOwner = errors.New("journey belongs to another driver")

	// ErrJourneyTerminal is returned when transitioning a completed or
	// cancelled journey.
	ErrJourneyTerminal = errors.New("journey already completed or cancelled")

	// ErrJourneyNotElapsed is returned when completing a journey before departure.
	ErrJourneyNotElapsed = errors.New("journey departure has not elapsed yet")

	// ErrInvalidJourneyType is returned for unknown journey types.
	ErrInvalidJourneyType = errors.New("invalid journey type")

	// ErrInvalidJourneyStatus is returned for unknown journey status filters.
	ErrInvalidJourneyStatus = errors.New("invalid journey status")

	// ErrCarpoolFieldsRequired is returned when a carpool journey or request
	// omits seats or price.
	ErrCarpoolFieldsRequired = errors.New("carpool journeys require seats and price per seat")

	// ErrPackageFieldsNotAllowed is returned when a package journey carries
	// seats or price per seat.
	ErrPackageFieldsNotAllowed = errors.New("package journeys cannot carry seats or price per seat")

	// ErrDeparturePast is returned when publishing a journey departing in the past.
	ErrDeparturePast = errors.New("departure time must be in the future")

	// ErrRequestedTimePast is returned when a request's time is in the past.
	ErrRequestedTimePast = errors.New("requested time must be in the future")

	// ErrPackageSpecRequired is returned when a package request omits dimensions.
	ErrPackageSpecRequired = errors.New("package requests require package dimensions")

	// ErrInvalidPrice is returned when a price is zero or negative.
	ErrInvalidPrice = errors.New("price must be positive")

	// ErrNotRequestOwner is returned when mutating another user's request.
	ErrNotRequestOwner = errors.New("request belongs to another user")

	// ErrRequestNotCancellable is returned when cancelling a matched or
	// closed request.
	ErrRequestNotCancellable = errors.New("request can no longer be cancelled")

	// ErrInternal masks unexpected storage failures. Callers never see the
	// underlying error.
	ErrInternal = errors.New("unexpected error")
)

// expectedErrors are surfaced to callers unchanged.
var expectedErrors = []error{
	repository.ErrNotFound,
	ErrInvalidRiderID, ErrInvalidDriverID, ErrInvalidJourneyID,
	ErrInvalidBookingID, ErrInvalidVehicleID, ErrInvalidRequestID,
	ErrOwnJourneyBooking, ErrJourneyDeparted, ErrJourneyNotPending,
	ErrSeatCountNotAllowed, ErrSeatCountRequired, ErrInvalidSeatCount,
	ErrDuplicateBooking, ErrBookingTimeOverlap, ErrNoSeatsAvailable,
	ErrJourneyBusy, ErrBookingAlreadyCancelled, ErrNotBookingOwner,
	ErrRequestClosed, ErrRequestElapsed, ErrNotVehicleOwner,
	ErrInsufficientCapacity, ErrDuplicateProposal,
	ErrNotJourneyOwner, ErrJourneyTerminal, ErrJourneyNotElapsed,
	ErrInvalidJourneyType, ErrInvalidJourneyStatus,
	ErrCarpoolFieldsRequired, ErrPackageFieldsNotAllowed,
	ErrDeparturePast, ErrRequestedTimePast, ErrPackageSpecRequired,
	ErrInvalidPrice, ErrNotRequestOwner, ErrRequestNotCancellable,
}

// surfaceError passes expected validation errors through unchanged. Anything
// else is a storage-layer failure: it is logged with correlation identifiers
// and masked as ErrInternal so callers never see raw storage errors.
func surfaceError(op string, err error, ids ...string) error {
	if err == nil {
		return nil
	}
	for _, expected := range expectedErrors {
		if errors.Is(err, expected) {
			return err
		}
	}
	log.Printf("%s: storage failure %v: %v", op, ids, err)
	return ErrInternal
}
