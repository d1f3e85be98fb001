package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tripshare/internal/domain"
	"tripshare/internal/service"
)

// JourneyHandler handles HTTP requests for journeys.
type JourneyHandler struct {
	journeyService *service.JourneyService
}

// NewJourneyHandler creates a new JourneyHandler.
func NewJourneyHandler(journeyService *service.JourneyService) *JourneyHandler {
	return &JourneyHandler{journeyService: journeyService}
}

// LocationPayload is a named geographic point in request/response bodies.
type LocationPayload struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// PublishJourneyRequest is the HTTP request body for publishing a journey.
type PublishJourneyRequest struct {
	DriverID       string          `json:"driver_id"`
	VehicleID      string          `json:"vehicle_id"`
	Type           string          `json:"type"`
	Origin         LocationPayload `json:"origin"`
	Destination    LocationPayload `json:"destination"`
	DepartureTime  time.Time       `json:"departure_time"`
	AvailableSeats *int            `json:"available_seats,omitempty"`
	PricePerSeat   *float64        `json:"price_per_seat,omitempty"`
}

// JourneyActionRequest is the HTTP request body for cancel/complete actions.
type JourneyActionRequest struct {
	DriverID string `json:"driver_id"`
}

// JourneyResponse is the HTTP response for journey data.
type JourneyResponse struct {
	ID             string          `json:"id"`
	DriverID       string          `json:"driver_id"`
	VehicleID      string          `json:"vehicle_id"`
	Type           string          `json:"type"`
	Status         string          `json:"status"`
	Origin         LocationPayload `json:"origin"`
	Destination    LocationPayload `json:"destination"`
	DepartureTime  string          `json:"departure_time"`
	AvailableSeats int             `json:"available_seats,omitempty"`
	PricePerSeat   float64         `json:"price_per_seat,omitempty"`
}

func toJourneyResponse(j *domain.Journey) JourneyResponse {
	return JourneyResponse{
		ID:             j.ID,
		DriverID:       j.DriverID,
		VehicleID:      j.VehicleID,
		Type:           string(j.Type),
		Status:         string(j.Status),
		Origin:         LocationPayload{Name: j.Origin.Name, Lat: j.Origin.Lat, Lng: j.Origin.Lng},
		Destination:    LocationPayload{Name: j.Destination.Name, Lat: j.Destination.Lat, Lng: j.Destination.Lng},
		DepartureTime:  j.DepartureTime.Format(time.RFC3339),
		AvailableSeats: j.AvailableSeats,
		PricePerSeat:   j.PricePerSeat,
	}
}

// Publish handles POST /v1/journeys
func (h *JourneyHandler) Publish(c *gin.Context) {
	var req PublishJourneyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	journey, err := h.journeyService.PublishJourney(c.Request.Context(), service.PublishJourneyRequest{
		DriverID:       req.DriverID,
		VehicleID:      req.VehicleID,
		Type:           domain.JourneyType(req.Type),
		Origin:         domain.Location{Name: req.Origin.Name, Lat: req.Origin.Lat, Lng: req.Origin.Lng},
		Destination:    domain.Location{Name: req.Destination.Name, Lat: req.Destination.Lat, Lng: req.Destination.Lng},
		DepartureTime:  req.DepartureTime,
		AvailableSeats: req.AvailableSeats,
		PricePerSeat:   req.PricePerSeat,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toJourneyResponse(journey))
}

// Get handles GET /v1/journeys/:id
func (h *JourneyHandler) Get(c *gin.Context) {
	journey, err := h.journeyService.GetJourney(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toJourneyResponse(journey))
}

// Cancel handles POST /v1/journeys/:id/cancel
func (h *JourneyHandler) Cancel(c *gin.Context) {
	var req JourneyActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.journeyService.CancelJourney(c.Request.Context(), req.DriverID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Complete handles POST /v1/journeys/:id/complete
func (h *JourneyHandler) Complete(c *gin.Context) {
	var req JourneyActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.journeyService.CompleteJourney(c.Request.Context(), req.DriverID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
