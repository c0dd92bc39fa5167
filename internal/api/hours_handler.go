package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/volunteer-hours-api/internal/models"
	"github.com/volunteer-hours-api/internal/service"
)

// HoursHandler handles hour submission endpoints
type HoursHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewHoursHandler creates a new HoursHandler
func NewHoursHandler(services *service.Services, log zerolog.Logger) *HoursHandler {
	return &HoursHandler{
		services: services,
		log:      log.With().Str("handler", "hours").Logger(),
	}
}

// Submit handles POST /v1/hours
func (h *HoursHandler) Submit(c *gin.Context) {
	var req models.SubmitHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	submission, err := h.services.Hours.Submit(c.Request.Context(), profileFrom(c).ID, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, submission)
}

// ListMine handles GET /v1/hours/mine
func (h *HoursHandler) ListMine(c *gin.Context) {
	submissions, err := h.services.Hours.ListMine(c.Request.Context(), profileFrom(c).ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissions": orEmpty(submissions)})
}

// Summary handles GET /v1/hours/summary
func (h *HoursHandler) Summary(c *gin.Context) {
	summary, err := h.services.Hours.Summary(c.Request.Context(), profileFrom(c).ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
