package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tripshare/internal/repository"
	"tripshare/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Referenced entity absent
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Semantic precondition violated
	case errors.Is(err, service.ErrInvalidRiderID),
		errors.Is(err, service.ErrInvalidDriverID),
		errors.Is(err, service.ErrInvalidJourneyID),
		errors.Is(err, service.ErrInvalidBookingID),
		errors.Is(err, service.ErrInvalidVehicleID),
		errors.Is(err, service.ErrInvalidRequestID),
		errors.Is(err, service.ErrOwnJourneyBooking),
		errors.Is(err, service.ErrJourneyDeparted),
		errors.Is(err, service.ErrJourneyNotPending),
		errors.Is(err, service.ErrSeatCountNotAllowed),
		errors.Is(err, service.ErrSeatCountRequired),
		errors.Is(err, service.ErrInvalidSeatCount),
		errors.Is(err, service.ErrBookingAlreadyCancelled),
		errors.Is(err, service.ErrInsufficientCapacity),
		errors.Is(err, service.ErrInvalidJourneyType),
		errors.Is(err, service.ErrInvalidJourneyStatus),
		errors.Is(err, service.ErrCarpoolFieldsRequired),
		errors.Is(err, service.ErrPackageFieldsNotAllowed),
		errors.Is(err, service.ErrDeparturePast),
		errors.Is(err, service.ErrRequestedTimePast),
		errors.Is(err, service.ErrPackageSpecRequired),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrJourneyTerminal),
		errors.Is(err, service.ErrJourneyNotElapsed),
		errors.Is(err, service.ErrRequestNotCancellable):
		return http.StatusBadRequest

	// Ownership or authorization violated
	case errors.Is(err, service.ErrNotBookingOwner),
		errors.Is(err, service.ErrNotVehicleOwner),
		errors.Is(err, service.ErrNotJourneyOwner),
		errors.Is(err, service.ErrNotRequestOwner):
		return http.StatusForbidden

	// Concurrency or uniqueness violated
	case errors.Is(err, service.ErrDuplicateBooking),
		errors.Is(err, service.ErrBookingTimeOverlap),
		errors.Is(err, service.ErrNoSeatsAvailable),
		errors.Is(err, service.ErrJourneyBusy),
		errors.Is(err, service.ErrRequestClosed),
		errors.Is(err, service.ErrRequestElapsed),
		errors.Is(err, service.ErrDuplicateProposal):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}
