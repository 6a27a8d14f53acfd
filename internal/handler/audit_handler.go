package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"smartlib.id/backend/internal/service"
	"smartlib.id/backend/pkg/response"
)

type AuditHandler struct {
	service service.AuditService
}

func NewAuditHandler(svc service.AuditService) *AuditHandler {
	return &AuditHandler{service: svc}
}

func (h *AuditHandler) ListRecent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	entries, err := h.service.ListRecent(c.Request.Context(), limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}
