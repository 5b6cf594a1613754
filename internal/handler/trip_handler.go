package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/siamroads/service-trip/internal/application"
	"github.com/siamroads/service-trip/internal/platform/response"
)

// TripHandler serves the public curated-trip catalogue and its reviews.
type TripHandler struct {
	trips     *application.TripService
	reviews   *application.ReviewService
	estimates *application.EstimateService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(
	trips *application.TripService,
	reviews *application.ReviewService,
	estimates *application.EstimateService,
) *TripHandler {
	return &TripHandler{trips: trips, reviews: reviews, estimates: estimates}
}

// RegisterRoutes registers public trip routes. writeLimit guards the routes that store data.
func (h *TripHandler) RegisterRoutes(r *gin.RouterGroup, writeLimit gin.HandlerFunc) {
	trips := r.Group("/api/v1/trips")
	{
		trips.GET("", h.ListTrips)
		trips.GET("/:slug", h.GetTrip)
		trips.POST("/:slug/estimate", h.EstimateTrip)
		trips.GET("/:slug/reviews", h.ListReviews)
		trips.POST("/:slug/reviews", writeLimit, h.AddReview)
	}
}

// ListTrips handles GET /api/v1/trips.
func (h *TripHandler) ListTrips(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.trips.ListPublished(c.Request.Context(), c.Query("region"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetTrip handles GET /api/v1/trips/:slug.
func (h *TripHandler) GetTrip(c *gin.Context) {
	result, err := h.trips.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// EstimateTrip handles POST /api/v1/trips/:slug/estimate. The body is optional.
func (h *TripHandler) EstimateTrip(c *gin.Context) {
	var params application.TripEstimateParams
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&params); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}

	result, err := h.estimates.EstimateTrip(c.Request.Context(), c.Param("slug"), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListReviews handles GET /api/v1/trips/:slug/reviews.
func (h *TripHandler) ListReviews(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.reviews.ListReviews(c.Request.Context(), c.Param("slug"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// AddReview handles POST /api/v1/trips/:slug/reviews.
func (h *TripHandler) AddReview(c *gin.Context) {
	var req application.AddReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.reviews.AddReview(c.Request.Context(), c.Param("slug"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}
