package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/volunteer-hours-api/internal/models"
	"github.com/volunteer-hours-api/internal/repository"
	"github.com/volunteer-hours-api/internal/storage"
	"github.com/volunteer-hours-api/internal/validation"
	"github.com/volunteer-hours-api/internal/workflow"
)

// editRequestService is the concrete implementation of EditRequestService
type editRequestService struct {
	repos *repository.Repositories
	blobs storage.BlobStore
	log   zerolog.Logger
}

// newEditRequestService creates a new EditRequestService
func newEditRequestService(repos *repository.Repositories, blobs storage.BlobStore, log zerolog.Logger) *editRequestService {
	return &editRequestService{
		repos: repos,
		blobs: blobs,
		log:   log.With().Str("service", "edit_request").Logger(),
	}
}

// Submit proposes new field values for a project the actor created.
// An omitted thumbnail keeps the current one unless RemoveThumbnail is set.
func (s *editRequestService) Submit(ctx context.Context, actorID, projectID string, req *models.EditProjectRequest) (*models.ProjectEditRequest, error) {
	project, err := s.repos.Project.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("%w: project %s", ErrNotFound, projectID)
	}
	if project.CreatedBy != actorID {
		return nil, fmt.Errorf("%w: only the creator may edit project %s", ErrForbidden, projectID)
	}

	proposed := normalizeFields(req.EditableFields)
	if proposed.ThumbnailURL == "" && !req.RemoveThumbnail {
		proposed.ThumbnailURL = project.ThumbnailURL
	}

	errs := validation.ValidateProject(&proposed)
	if proposed.ThumbnailURL != project.ThumbnailURL {
		errs = append(errs, checkThumbnailURL(s.blobs, proposed.ThumbnailURL, actorID)...)
	}
	if err := invalid(errs); err != nil {
		return nil, err
	}

	changed := workflow.Diff(project.Editable(), proposed)
	if len(changed) == 0 {
		return nil, invalidField("fields", "no changes detected", nil)
	}

	editReq := &models.ProjectEditRequest{
		ProjectID:      projectID,
		UserID:         actorID,
		EditableFields: proposed,
		Status:         workflow.InitialStatus,
	}
	if err := s.repos.EditRequest.Create(ctx, editReq); err != nil {
		if errors.Is(err, repository.ErrMissingReference) {
			return nil, fmt.Errorf("%w: project %s", ErrNotFound, projectID)
		}
		return nil, err
	}
	editReq.ProjectTitle = project.Title

	s.log.Info().
		Str("edit_request_id", editReq.ID).
		Str("project_id", projectID).
		Str("actor_id", actorID).
		Strs("fields", changed).
		Msg("Edit request submitted")

	return editReq, nil
}

// ListMine returns the actor's edit requests, newest first
func (s *editRequestService) ListMine(ctx context.Context, actorID string) ([]*models.ProjectEditRequest, error) {
	return s.repos.EditRequest.ListByUser(ctx, actorID)
}
