package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/volunteer-hours-api/internal/models"
	"github.com/volunteer-hours-api/internal/service"
)

// AdminHandler handles moderation, user management and report endpoints
type AdminHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(services *service.Services, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		services: services,
		log:      log.With().Str("handler", "admin").Logger(),
	}
}

// Pending handles GET /v1/admin/pending
func (h *AdminHandler) Pending(c *gin.Context) {
	queue, err := h.services.Moderation.Pending(c.Request.Context(), profileFrom(c).ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, queue)
}

func (h *AdminHandler) bindReview(c *gin.Context) (*models.ReviewRequest, bool) {
	var req models.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return nil, false
	}
	return &req, true
}

// ReviewProject handles POST /v1/admin/projects/:id/review
func (h *AdminHandler) ReviewProject(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	review, ok := h.bindReview(c)
	if !ok {
		return
	}
	project, err := h.services.Moderation.ReviewProject(c.Request.Context(), profileFrom(c).ID, id, review)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// ReviewHours handles POST /v1/admin/hours/:id/review
func (h *AdminHandler) ReviewHours(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	review, ok := h.bindReview(c)
	if !ok {
		return
	}
	submission, err := h.services.Moderation.ReviewHours(c.Request.Context(), profileFrom(c).ID, id, review)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, submission)
}

// ReviewEdit handles POST /v1/admin/edit-requests/:id/review
func (h *AdminHandler) ReviewEdit(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	review, ok := h.bindReview(c)
	if !ok {
		return
	}
	req, err := h.services.Moderation.ReviewEdit(c.Request.Context(), profileFrom(c).ID, id, review)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// ListUsers handles GET /v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	profiles, err := h.services.Profile.ListProfiles(c.Request.Context(), profileFrom(c).ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": orEmpty(profiles)})
}

// Promote handles POST /v1/admin/users/:id/promote
func (h *AdminHandler) Promote(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	profile, err := h.services.Profile.PromoteToAdmin(c.Request.Context(), profileFrom(c).ID, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// HoursReport handles GET /v1/admin/reports/hours?format=csv|ndjson
// Streams the report directly to the response
func (h *AdminHandler) HoursReport(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")

	err := h.services.Report.StreamVolunteerHours(c.Request.Context(), profileFrom(c).ID, c.Writer, format)
	if err == nil {
		return
	}
	if c.Writer.Written() {
		// Can't return error JSON after streaming has started
		h.log.Error().Err(err).Str("format", format).Msg("Report failed mid-stream")
		return
	}
	respondError(c, h.log, err)
}
