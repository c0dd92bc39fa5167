package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/volunteer-hours-api/internal/config"
	"github.com/volunteer-hours-api/internal/models"
	"github.com/volunteer-hours-api/internal/service"
	"github.com/volunteer-hours-api/internal/validation"
)

// ProjectHandler handles project, signup, edit request and thumbnail endpoints
type ProjectHandler struct {
	services *service.Services
	maxBytes int64
	log      zerolog.Logger
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *ProjectHandler {
	maxBytes := cfg.Storage.MaxThumbnailBytes
	if maxBytes <= 0 {
		maxBytes = validation.DefaultMaxThumbnailBytes
	}
	return &ProjectHandler{
		services: services,
		maxBytes: maxBytes,
		log:      log.With().Str("handler", "project").Logger(),
	}
}

// ListApproved handles GET /v1/projects?search=
func (h *ProjectHandler) ListApproved(c *gin.Context) {
	projects, err := h.services.Project.ListApproved(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": orEmpty(projects)})
}

// Create handles POST /v1/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req models.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	project, err := h.services.Project.Create(c.Request.Context(), profileFrom(c).ID, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

// ListMine handles GET /v1/projects/mine
func (h *ProjectHandler) ListMine(c *gin.Context) {
	projects, err := h.services.Project.ListMine(c.Request.Context(), profileFrom(c).ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": orEmpty(projects)})
}

// ListJoined handles GET /v1/projects/joined
func (h *ProjectHandler) ListJoined(c *gin.Context) {
	projects, err := h.services.Project.ListJoined(c.Request.Context(), profileFrom(c).ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": orEmpty(projects)})
}

// Delete handles DELETE /v1/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.services.Project.Delete(c.Request.Context(), profileFrom(c).ID, id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Join handles POST /v1/projects/:id/signup
func (h *ProjectHandler) Join(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	signup, err := h.services.Signup.Join(c.Request.Context(), profileFrom(c).ID, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, signup)
}

// Withdraw handles DELETE /v1/projects/:id/signup
func (h *ProjectHandler) Withdraw(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.services.Signup.Withdraw(c.Request.Context(), profileFrom(c).ID, id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SubmitEdit handles POST /v1/projects/:id/edit-requests
func (h *ProjectHandler) SubmitEdit(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req models.EditProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	editReq, err := h.services.EditRequest.Submit(c.Request.Context(), profileFrom(c).ID, id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, editReq)
}

// ListMyEdits handles GET /v1/edit-requests/mine
func (h *ProjectHandler) ListMyEdits(c *gin.Context) {
	requests, err := h.services.EditRequest.ListMine(c.Request.Context(), profileFrom(c).ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"edit_requests": orEmpty(requests)})
}

// UploadThumbnail handles POST /v1/uploads/thumbnail (multipart field "file").
// Oversized files are refused before the body is read into memory.
func (h *ProjectHandler) UploadThumbnail(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file upload is required"})
		return
	}
	defer file.Close()

	if header.Size > h.maxBytes {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("image must be smaller than %dMB", h.maxBytes/(1024*1024)),
		})
		return
	}

	content, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to read upload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}

	url, err := h.services.Project.UploadThumbnail(c.Request.Context(), profileFrom(c).ID, content)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"thumbnail_url": url})
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
