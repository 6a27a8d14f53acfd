package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"smartlib.id/backend/internal/dto"
	"smartlib.id/backend/internal/model"
	"smartlib.id/backend/internal/service"
	"smartlib.id/backend/pkg/response"
	"smartlib.id/backend/pkg/validator"
)

type BookingHandler struct {
	service service.BookingService
}

func NewBookingHandler(svc service.BookingService) *BookingHandler {
	return &BookingHandler{service: svc}
}

func (h *BookingHandler) CreateSeat(c *gin.Context) {
	var req dto.CreateSeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	seat, err := h.service.CreateSeat(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": seat})
}

func (h *BookingHandler) ListSeats(c *gin.Context) {
	seats, err := h.service.ListSeats(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": seats})
}

func (h *BookingHandler) Create(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	booking, err := h.service.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": booking})
}

func (h *BookingHandler) ListMine(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	bookings, err := h.service.ListMyBookings(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": bookings})
}

func (h *BookingHandler) CheckIn(c *gin.Context) {
	h.transition(c, h.service.CheckIn)
}

func (h *BookingHandler) CheckOut(c *gin.Context) {
	h.transition(c, h.service.CheckOut)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	h.transition(c, h.service.Cancel)
}

func (h *BookingHandler) transition(c *gin.Context, fn func(ctx context.Context, userID, bookingID uuid.UUID) (*model.SeatBooking, error)) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	booking, err := fn(c.Request.Context(), userID, id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": booking})
}
