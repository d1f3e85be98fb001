package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tripshare/internal/domain"
	"tripshare/internal/repository"
)

// VehicleHandler handles HTTP requests for vehicles.
type VehicleHandler struct {
	vehicleRepo repository.VehicleRepository
	userRepo    repository.UserRepository
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(vehicleRepo repository.VehicleRepository, userRepo repository.UserRepository) *VehicleHandler {
	return &VehicleHandler{vehicleRepo: vehicleRepo, userRepo: userRepo}
}

// RegisterVehicleRequest is the HTTP request body for registering a vehicle.
type RegisterVehicleRequest struct {
	DriverID string `json:"driver_id"`
	Plate    string `json:"plate"`
	Model    string `json:"model"`
	Capacity int    `json:"capacity"`
}

// VehicleResponse is the HTTP response for vehicle data.
type VehicleResponse struct {
	ID       string `json:"id"`
	DriverID string `json:"driver_id"`
	Plate    string `json:"plate"`
	Model    string `json:"model"`
	Capacity int    `json:"capacity"`
}

// Register handles POST /v1/vehicles
func (h *VehicleHandler) Register(c *gin.Context) {
	var req RegisterVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.DriverID == "" || req.Plate == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "driver_id and plate are required"})
		return
	}

	if req.Capacity < 1 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "capacity must be at least 1"})
		return
	}

	if _, err := h.userRepo.GetByID(c.Request.Context(), req.DriverID); err != nil {
		respondError(c, err)
		return
	}

	vehicle := &domain.Vehicle{
		ID:        uuid.New().String(),
		DriverID:  req.DriverID,
		Plate:     req.Plate,
		Model:     req.Model,
		Capacity:  req.Capacity,
		CreatedAt: time.Now(),
	}

	if err := h.vehicleRepo.Create(c.Request.Context(), vehicle); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, VehicleResponse{
		ID:       vehicle.ID,
		DriverID: vehicle.DriverID,
		Plate:    vehicle.Plate,
		Model:    vehicle.Model,
		Capacity: vehicle.Capacity,
	})
}

// Get handles GET /v1/vehicles/:id
func (h *VehicleHandler) Get(c *gin.Context) {
	vehicle, err := h.vehicleRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, VehicleResponse{
		ID:       vehicle.ID,
		DriverID: vehicle.DriverID,
		Plate:    vehicle.Plate,
		Model:    vehicle.Model,
		Capacity: vehicle.Capacity,
	})
}
