package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/siamroads/service-trip/internal/application"
	"github.com/siamroads/service-trip/internal/platform/response"
)

// maxEstimateBody caps the estimator request body.
const maxEstimateBody = 64 << 10

// EstimateHandler serves the trip estimator.
type EstimateHandler struct {
	service *application.EstimateService
}

// NewEstimateHandler creates a new EstimateHandler.
func NewEstimateHandler(service *application.EstimateService) *EstimateHandler {
	return &EstimateHandler{service: service}
}

// RegisterRoutes registers the estimator routes.
func (h *EstimateHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/api/v1/estimates", h.Estimate)
}

// Estimate handles POST /api/v1/estimates.
func (h *EstimateHandler) Estimate(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxEstimateBody))
	if err != nil {
		response.BadRequest(c, "failed to read request body")
		return
	}

	req, err := decodeTripRequest(body)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, h.service.Estimate(c.Request.Context(), req))
}
