package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/siamroads/service-trip/internal/application"
	"github.com/siamroads/service-trip/internal/platform/auth"
	"github.com/siamroads/service-trip/internal/platform/middleware"
	"github.com/siamroads/service-trip/internal/platform/response"
)

// AdminHandler handles admin HTTP requests for trips and leads.
type AdminHandler struct {
	trips *application.TripService
	leads *application.LeadService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(trips *application.TripService, leads *application.LeadService) *AdminHandler {
	return &AdminHandler{trips: trips, leads: leads}
}

// AdminStatsDTO combines the trip and lead dashboards.
type AdminStatsDTO struct {
	Trips *application.TripStatsDTO `json:"trips"`
	Leads *application.LeadStatsDTO `json:"leads"`
}

// RegisterRoutes registers admin routes behind JWT auth and the admin role.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	adminRole := middleware.RequireRole(auth.RoleAdmin)

	admin := r.Group("/api/v1/admin")
	admin.Use(authMW, adminRole)
	{
		admin.GET("/trips", h.ListTrips)
		admin.POST("/trips", h.CreateTrip)
		admin.GET("/trips/:id", h.GetTrip)
		admin.PUT("/trips/:id", h.UpdateTrip)
		admin.POST("/trips/:id/publish", h.PublishTrip)
		admin.POST("/trips/:id/archive", h.ArchiveTrip)
		admin.POST("/trips/:id/restore", h.RestoreTrip)

		admin.GET("/leads", h.ListLeads)
		admin.GET("/leads/:id", h.GetLead)
		admin.POST("/leads/:id/status", h.UpdateLeadStatus)

		admin.GET("/stats", h.Stats)
	}
}

// ListTrips handles GET /api/v1/admin/trips.
func (h *AdminHandler) ListTrips(c *gin.Context) {
	page, limit := parsePagination(c)

	trips, total, err := h.trips.ListAll(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, trips, total, page, limit)
}

// CreateTrip handles POST /api/v1/admin/trips.
func (h *AdminHandler) CreateTrip(c *gin.Context) {
	var req application.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.trips.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetTrip handles GET /api/v1/admin/trips/:id.
func (h *AdminHandler) GetTrip(c *gin.Context) {
	id, ok := parseID(c, "trip")
	if !ok {
		return
	}

	result, err := h.trips.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateTrip handles PUT /api/v1/admin/trips/:id.
func (h *AdminHandler) UpdateTrip(c *gin.Context) {
	id, ok := parseID(c, "trip")
	if !ok {
		return
	}

	var req application.TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.trips.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// PublishTrip handles POST /api/v1/admin/trips/:id/publish.
func (h *AdminHandler) PublishTrip(c *gin.Context) {
	h.transitionTrip(c, h.trips.Publish)
}

// ArchiveTrip handles POST /api/v1/admin/trips/:id/archive.
func (h *AdminHandler) ArchiveTrip(c *gin.Context) {
	h.transitionTrip(c, h.trips.Archive)
}

// RestoreTrip handles POST /api/v1/admin/trips/:id/restore.
func (h *AdminHandler) RestoreTrip(c *gin.Context) {
	h.transitionTrip(c, h.trips.Restore)
}

// ListLeads handles GET /api/v1/admin/leads.
func (h *AdminHandler) ListLeads(c *gin.Context) {
	page, limit := parsePagination(c)

	leads, total, err := h.leads.ListAll(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, leads, total, page, limit)
}

// GetLead handles GET /api/v1/admin/leads/:id.
func (h *AdminHandler) GetLead(c *gin.Context) {
	id, ok := parseID(c, "lead")
	if !ok {
		return
	}

	result, err := h.leads.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateLeadStatus handles POST /api/v1/admin/leads/:id/status.
func (h *AdminHandler) UpdateLeadStatus(c *gin.Context) {
	id, ok := parseID(c, "lead")
	if !ok {
		return
	}

	var req application.UpdateLeadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.leads.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Stats handles GET /api/v1/admin/stats.
func (h *AdminHandler) Stats(c *gin.Context) {
	tripStats, err := h.trips.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	leadStats, err := h.leads.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, AdminStatsDTO{Trips: tripStats, Leads: leadStats})
}

func (h *AdminHandler) transitionTrip(c *gin.Context, apply func(ctx context.Context, id uuid.UUID) (*application.TripDTO, error)) {
	id, ok := parseID(c, "trip")
	if !ok {
		return
	}

	result, err := apply(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// parseID reads the :id path parameter, writing a 400 when it is not a UUID.
func parseID(c *gin.Context, entity string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid "+entity+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// parsePagination extracts page and limit query parameters with defaults.
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return page, limit
}
