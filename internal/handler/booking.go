package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tripshare/internal/domain"
	"tripshare/internal/service"
)

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// CreateBookingRequest is the HTTP request body for creating a booking.
// SeatCount must be present for carpool journeys and omitted for package
// journeys.
type CreateBookingRequest struct {
	RiderID   string `json:"rider_id"`
	JourneyID string `json:"journey_id"`
	SeatCount *int   `json:"seat_count,omitempty"`
}

// CancelBookingRequest is the HTTP request body for cancelling a booking.
type CancelBookingRequest struct {
	RiderID string `json:"rider_id"`
}

// BookingResponse is the HTTP response for booking data.
type BookingResponse struct {
	ID            string `json:"id"`
	RiderID       string `json:"rider_id"`
	JourneyID     string `json:"journey_id"`
	SeatCount     int    `json:"seat_count,omitempty"`
	IsShipping    bool   `json:"is_shipping"`
	Status        string `json:"status"`
	DepartureTime string `json:"departure_time"`
	JourneyType   string `json:"journey_type"`
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	CreatedAt     string `json:"created_at"`
}

func toBookingResponse(b *domain.Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID,
		RiderID:       b.RiderID,
		JourneyID:     b.JourneyID,
		SeatCount:     b.SeatCount,
		IsShipping:    b.IsShipping,
		Status:        string(b.Status),
		DepartureTime: b.Journey.DepartureTime.Format(time.RFC3339),
		JourneyType:   string(b.Journey.Type),
		Origin:        b.Journey.Origin,
		Destination:   b.Journey.Destination,
		CreatedAt:     b.CreatedAt.Format(time.RFC3339),
	}
}

// Create handles POST /v1/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), service.CreateBookingRequest{
		RiderID:   req.RiderID,
		JourneyID: req.JourneyID,
		SeatCount: req.SeatCount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toBookingResponse(booking))
}

// Cancel handles POST /v1/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	bookingID := c.Param("id")

	var req CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.bookingService.CancelBooking(c.Request.Context(), req.RiderID, bookingID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListByRider handles GET /v1/bookings?rider_id=...&journey_status=...
func (h *BookingHandler) ListByRider(c *gin.Context) {
	riderID := c.Query("rider_id")
	journeyStatus := domain.JourneyStatus(c.Query("journey_status"))

	bookings, err := h.bookingService.GetBookingsByRider(c.Request.Context(), riderID, journeyStatus)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		response = append(response, toBookingResponse(b))
	}
	respondJSON(c, http.StatusOK, response)
}

// HasBooked handles GET /v1/journeys/:id/participation?rider_id=...
// Used by the rating collaborator to confirm trip participation.
func (h *BookingHandler) HasBooked(c *gin.Context) {
	journeyID := c.Param("id")
	riderID := c.Query("rider_id")

	booked, err := h.bookingService.UserHasBookedJourney(c.Request.Context(), riderID, journeyID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"booked": booked})
}
