package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/siamroads/service-trip/internal/application"
	"github.com/siamroads/service-trip/internal/platform/response"
)

// LeadHandler accepts contact requests from travellers.
type LeadHandler struct {
	service *application.LeadService
}

// NewLeadHandler creates a new LeadHandler.
func NewLeadHandler(service *application.LeadService) *LeadHandler {
	return &LeadHandler{service: service}
}

// RegisterRoutes registers public lead routes.
func (h *LeadHandler) RegisterRoutes(r *gin.RouterGroup, writeLimit gin.HandlerFunc) {
	r.POST("/api/v1/leads", writeLimit, h.SubmitLead)
}

// SubmitLead handles POST /api/v1/leads.
func (h *LeadHandler) SubmitLead(c *gin.Context) {
	var req application.SubmitLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}
