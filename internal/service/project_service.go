package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/volunteer-hours-api/internal/models"
	"github.com/volunteer-hours-api/internal/repository"
	"github.com/volunteer-hours-api/internal/storage"
	"github.com/volunteer-hours-api/internal/validation"
	"github.com/volunteer-hours-api/internal/workflow"
)

// projectService is the concrete implementation of ProjectService
type projectService struct {
	repos             *repository.Repositories
	blobs             storage.BlobStore
	maxThumbnailBytes int64
	log               zerolog.Logger
}

// newProjectService creates a new ProjectService
func newProjectService(repos *repository.Repositories, blobs storage.BlobStore, maxThumbnailBytes int64, log zerolog.Logger) *projectService {
	return &projectService{
		repos:             repos,
		blobs:             blobs,
		maxThumbnailBytes: maxThumbnailBytes,
		log:               log.With().Str("service", "project").Logger(),
	}
}

// Create stores a new project in the pending state regardless of the creator's role
func (s *projectService) Create(ctx context.Context, actorID string, req *models.CreateProjectRequest) (*models.Project, error) {
	fields := normalizeFields(req.EditableFields)
	errs := validation.ValidateProject(&fields)
	errs = append(errs, checkThumbnailURL(s.blobs, fields.ThumbnailURL, actorID)...)
	if err := invalid(errs); err != nil {
		return nil, err
	}

	project := &models.Project{
		Status:    workflow.InitialStatus,
		CreatedBy: actorID,
	}
	workflow.Apply(project, fields)

	if err := s.repos.Project.Create(ctx, project); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("project_id", project.ID).
		Str("actor_id", actorID).
		Str("status", string(project.Status)).
		Msg("Project submitted")

	return s.reload(ctx, project)
}

func (s *projectService) reload(ctx context.Context, project *models.Project) (*models.Project, error) {
	stored, err := s.repos.Project.GetByID(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("%w: project %s", ErrNotFound, project.ID)
	}
	return stored, nil
}

// ListApproved returns approved projects in date order, filtered by search when set
func (s *projectService) ListApproved(ctx context.Context, search string) ([]*models.Project, error) {
	return s.repos.Project.ListApproved(ctx, strings.TrimSpace(search))
}

// ListMine returns the projects the actor created, in any state
func (s *projectService) ListMine(ctx context.Context, actorID string) ([]*models.Project, error) {
	return s.repos.Project.ListByCreator(ctx, actorID)
}

// ListJoined returns the projects the actor signed up for
func (s *projectService) ListJoined(ctx context.Context, actorID string) ([]*models.Project, error) {
	return s.repos.Project.ListJoinedBy(ctx, actorID)
}

// Delete removes a project owned by the actor, then its thumbnail on a best-effort basis
func (s *projectService) Delete(ctx context.Context, actorID, projectID string) error {
	project, err := s.repos.Project.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project == nil {
		return fmt.Errorf("%w: project %s", ErrNotFound, projectID)
	}
	if project.CreatedBy != actorID {
		return fmt.Errorf("%w: only the creator may delete project %s", ErrForbidden, projectID)
	}

	ok, err := s.repos.Project.Delete(ctx, projectID, actorID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: project %s", ErrNotFound, projectID)
	}

	s.log.Info().Str("project_id", projectID).Str("actor_id", actorID).Msg("Project deleted")

	if project.ThumbnailURL != "" {
		s.deleteThumbnail(ctx, project.ThumbnailURL, project.CreatedBy)
	}
	return nil
}

// deleteThumbnail removes the blob behind url, but only from the owner's own folder
func (s *projectService) deleteThumbnail(ctx context.Context, url, ownerID string) {
	path, err := ownedThumbnailPath(s.blobs, url, ownerID)
	if err != nil {
		s.log.Warn().Err(err).Str("url", url).Msg("Thumbnail not owned by creator, skipping delete")
		return
	}
	if err := s.blobs.Delete(ctx, path); err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("Failed to delete thumbnail")
	}
}

// UploadThumbnail checks the image and stores it under the actor's folder, returning its URL
func (s *projectService) UploadThumbnail(ctx context.Context, actorID string, content []byte) (string, error) {
	thumb, errs := validation.ValidateThumbnail(content, s.maxThumbnailBytes)
	if err := invalid(errs); err != nil {
		return "", err
	}

	path := storage.ThumbnailPath(actorID, time.Now(), thumb.Extension)
	url, err := s.blobs.Upload(ctx, path, thumb.Content, thumb.ContentType)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}

	s.log.Info().Str("actor_id", actorID).Str("path", path).Msg("Thumbnail uploaded")
	return url, nil
}

func normalizeFields(f models.EditableFields) models.EditableFields {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.Location = strings.TrimSpace(f.Location)
	f.Date = strings.TrimSpace(f.Date)
	f.ThumbnailURL = strings.TrimSpace(f.ThumbnailURL)
	return f
}

// ownedThumbnailPath returns the object key behind url when it sits in ownerID's folder of our bucket
func ownedThumbnailPath(blobs storage.BlobStore, url, ownerID string) (string, error) {
	path, err := blobs.PathFromURL(url)
	if err != nil {
		return "", err
	}
	if err := storage.OwnedPath(path, ownerID); err != nil {
		return "", err
	}
	return path, nil
}

// checkThumbnailURL rejects thumbnail URLs that were not uploaded by ownerID
func checkThumbnailURL(blobs storage.BlobStore, url, ownerID string) []validation.ValidationError {
	if url == "" {
		return nil
	}
	if _, err := ownedThumbnailPath(blobs, url, ownerID); err != nil {
		return []validation.ValidationError{{
			Field:   "thumbnail_url",
			Message: "thumbnail must be uploaded by you first",
			Value:   url,
		}}
	}
	return nil
}
