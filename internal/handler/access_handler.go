package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"smartlib.id/backend/internal/dto"
	"smartlib.id/backend/internal/service"
	"smartlib.id/backend/pkg/response"
	"smartlib.id/backend/pkg/validator"
)

type AccessHandler struct {
	service service.AccessService
}

func NewAccessHandler(svc service.AccessService) *AccessHandler {
	return &AccessHandler{service: svc}
}

func (h *AccessHandler) CreateLibrary(c *gin.Context) {
	var req dto.CreateLibraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	library, err := h.service.CreateLibrary(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": library})
}

func (h *AccessHandler) ListLibraries(c *gin.Context) {
	libraries, err := h.service.ListLibraries(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": libraries})
}

func (h *AccessHandler) Request(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CreateAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	request, err := h.service.Request(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": request})
}

func (h *AccessHandler) ListMine(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	requests, err := h.service.ListMyRequests(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": requests})
}

func (h *AccessHandler) ListPending(c *gin.Context) {
	requests, err := h.service.ListPending(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": requests})
}

func (h *AccessHandler) BulkApprove(c *gin.Context) {
	h.bulkReview(c, h.service.BulkApprove)
}

func (h *AccessHandler) BulkReject(c *gin.Context) {
	h.bulkReview(c, h.service.BulkReject)
}

func (h *AccessHandler) bulkReview(c *gin.Context, fn func(ctx context.Context, reviewerID uuid.UUID, req dto.BulkReviewRequest) (*dto.BulkReviewResponse, error)) {
	reviewerID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.BulkReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := fn(c.Request.Context(), reviewerID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
