package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tripshare/internal/domain"
	"tripshare/internal/repository"
	"tripshare/internal/service"
)

// UserHandler handles HTTP requests for users. User CRUD is a collaborator
// of the reservation engine; account removal cascades into the booking
// ledger's bulk cancellation.
type UserHandler struct {
	userRepo       repository.UserRepository
	bookingService *service.BookingService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userRepo repository.UserRepository, bookingService *service.BookingService) *UserHandler {
	return &UserHandler{userRepo: userRepo, bookingService: bookingService}
}

// RegisterRequest is the HTTP request body for user registration.
type RegisterRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// UserResponse is the HTTP response for user data.
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Register handles POST /v1/users/register
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Name == "" || req.Phone == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name and phone are required"})
		return
	}

	existing, err := h.userRepo.GetByPhone(c.Request.Context(), req.Phone)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		respondError(c, err)
		return
	}

	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{
			"message": "User already registered",
			"user":    UserResponse{ID: existing.ID, Name: existing.Name, Phone: existing.Phone},
		})
		return
	}

	user := &domain.User{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Phone:     req.Phone,
		CreatedAt: time.Now(),
	}

	if err := h.userRepo.Create(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Phone: user.Phone,
	})
}

// GetAll handles GET /v1/users
func (h *UserHandler) GetAll(c *gin.Context) {
	users, err := h.userRepo.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]UserResponse, 0, len(users))
	for _, u := range users {
		response = append(response, UserResponse{ID: u.ID, Name: u.Name, Phone: u.Phone})
	}
	c.JSON(http.StatusOK, response)
}

// Remove handles POST /v1/users/:id/remove — the account-removal hook that
// bulk-cancels the rider's pending bookings.
func (h *UserHandler) Remove(c *gin.Context) {
	riderID := c.Param("id")

	if _, err := h.userRepo.GetByID(c.Request.Context(), riderID); err != nil {
		respondError(c, err)
		return
	}

	if err := h.bookingService.CancelAllBookingsForRider(c.Request.Context(), riderID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
