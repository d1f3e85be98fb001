package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tripshare/internal/domain"
	"tripshare/internal/service"
)

// RequestHandler handles HTTP requests for journey requests and proposals.
type RequestHandler struct {
	requestService  *service.RequestService
	proposalService *service.ProposalService
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(requestService *service.RequestService, proposalService *service.ProposalService) *RequestHandler {
	return &RequestHandler{requestService: requestService, proposalService: proposalService}
}

// PackagePayload describes the cargo of a package request body.
type PackagePayload struct {
	WeightKg float64 `json:"weight_kg"`
	LengthCm float64 `json:"length_cm"`
	WidthCm  float64 `json:"width_cm"`
	HeightCm float64 `json:"height_cm"`
}

// CreateRequestBody is the HTTP request body for opening a journey request.
type CreateRequestBody struct {
	RequesterID    string          `json:"requester_id"`
	Type           string          `json:"type"`
	Origin         LocationPayload `json:"origin"`
	Destination    LocationPayload `json:"destination"`
	RequestedTime  time.Time       `json:"requested_time"`
	RequestedSeats *int            `json:"requested_seats,omitempty"`
	Package        *PackagePayload `json:"package,omitempty"`
	ProposedPrice  float64         `json:"proposed_price"`
}

// CancelRequestBody is the HTTP request body for cancelling a request.
type CancelRequestBody struct {
	RequesterID string `json:"requester_id"`
}

// CreateProposalBody is the HTTP request body for proposing against a request.
type CreateProposalBody struct {
	DriverID  string `json:"driver_id"`
	VehicleID string `json:"vehicle_id"`
}

// RequestResponse is the HTTP response for journey request data.
type RequestResponse struct {
	ID             string          `json:"id"`
	RequesterID    string          `json:"requester_id"`
	Type           string          `json:"type"`
	Status         string          `json:"status"`
	Origin         LocationPayload `json:"origin"`
	Destination    LocationPayload `json:"destination"`
	RequestedTime  string          `json:"requested_time"`
	RequestedSeats int             `json:"requested_seats,omitempty"`
	Package        *PackagePayload `json:"package,omitempty"`
	ProposedPrice  float64         `json:"proposed_price"`
}

// ProposalResponse is the HTTP response for proposal data.
type ProposalResponse struct {
	ID           string  `json:"id"`
	RequestID    string  `json:"request_id"`
	DriverID     string  `json:"driver_id"`
	VehicleID    string  `json:"vehicle_id"`
	Status       string  `json:"status"`
	PriceOffered float64 `json:"price_offered"`
	CreatedAt    string  `json:"created_at"`
}

func toRequestResponse(r *domain.JourneyRequest) RequestResponse {
	resp := RequestResponse{
		ID:             r.ID,
		RequesterID:    r.RequesterID,
		Type:           string(r.Type),
		Status:         string(r.Status),
		Origin:         LocationPayload{Name: r.Origin.Name, Lat: r.Origin.Lat, Lng: r.Origin.Lng},
		Destination:    LocationPayload{Name: r.Destination.Name, Lat: r.Destination.Lat, Lng: r.Destination.Lng},
		RequestedTime:  r.RequestedTime.Format(time.RFC3339),
		RequestedSeats: r.RequestedSeats,
		ProposedPrice:  r.ProposedPrice,
	}
	if r.Package != nil {
		resp.Package = &PackagePayload{
			WeightKg: r.Package.WeightKg,
			LengthCm: r.Package.LengthCm,
			WidthCm:  r.Package.WidthCm,
			HeightCm: r.Package.HeightCm,
		}
	}
	return resp
}

func toProposalResponse(p *domain.Proposal) ProposalResponse {
	return ProposalResponse{
		ID:           p.ID,
		RequestID:    p.RequestID,
		DriverID:     p.DriverID,
		VehicleID:    p.VehicleID,
		Status:       string(p.Status),
		PriceOffered: p.PriceOffered,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
	}
}

// Create handles POST /v1/requests
func (h *RequestHandler) Create(c *gin.Context) {
	var req CreateRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	params := service.CreateRequestParams{
		RequesterID:    req.RequesterID,
		Type:           domain.JourneyType(req.Type),
		Origin:         domain.Location{Name: req.Origin.Name, Lat: req.Origin.Lat, Lng: req.Origin.Lng},
		Destination:    domain.Location{Name: req.Destination.Name, Lat: req.Destination.Lat, Lng: req.Destination.Lng},
		RequestedTime:  req.RequestedTime,
		RequestedSeats: req.RequestedSeats,
		ProposedPrice:  req.ProposedPrice,
	}
	if req.Package != nil {
		params.Package = &domain.PackageSpec{
			WeightKg: req.Package.WeightKg,
			LengthCm: req.Package.LengthCm,
			WidthCm:  req.Package.WidthCm,
			HeightCm: req.Package.HeightCm,
		}
	}

	request, err := h.requestService.CreateRequest(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toRequestResponse(request))
}

// Get handles GET /v1/requests/:id
func (h *RequestHandler) Get(c *gin.Context) {
	request, err := h.requestService.GetRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRequestResponse(request))
}

// Cancel handles POST /v1/requests/:id/cancel
func (h *RequestHandler) Cancel(c *gin.Context) {
	var req CancelRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.requestService.CancelRequest(c.Request.Context(), req.RequesterID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateProposal handles POST /v1/requests/:id/proposals
func (h *RequestHandler) CreateProposal(c *gin.Context) {
	var req CreateProposalBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	proposal, err := h.proposalService.CreateProposal(c.Request.Context(), req.DriverID, c.Param("id"), req.VehicleID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toProposalResponse(proposal))
}

// ListProposals handles GET /v1/requests/:id/proposals
func (h *RequestHandler) ListProposals(c *gin.Context) {
	proposals, err := h.proposalService.ListProposals(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]ProposalResponse, 0, len(proposals))
	for _, p := range proposals {
		response = append(response, toProposalResponse(p))
	}
	respondJSON(c, http.StatusOK, response)
}
