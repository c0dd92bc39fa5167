package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/volunteer-hours-api/internal/models"
	"github.com/volunteer-hours-api/internal/repository"
	"github.com/volunteer-hours-api/internal/workflow"
)

// moderationService is the concrete implementation of ModerationService.
// Every decision is checked against the state machine first, then written
// conditionally on the row still being pending.
type moderationService struct {
	repos *repository.Repositories
	log   zerolog.Logger
	now   func() time.Time
}

// newModerationService creates a new ModerationService
func newModerationService(repos *repository.Repositories, log zerolog.Logger) *moderationService {
	return &moderationService{
		repos: repos,
		log:   log.With().Str("service", "moderation").Logger(),
		now:   time.Now,
	}
}

// Pending returns every project, hour submission and edit request awaiting a decision
func (s *moderationService) Pending(ctx context.Context, actorID string) (*models.PendingQueue, error) {
	if _, err := requireAdmin(ctx, s.repos.Profile, actorID); err != nil {
		return nil, err
	}

	projects, err := s.repos.Project.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	hours, err := s.repos.Hours.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	edits, err := s.repos.EditRequest.ListPending(ctx)
	if err != nil {
		return nil, err
	}

	return &models.PendingQueue{
		Projects:     nonNil(projects),
		Hours:        nonNil(hours),
		EditRequests: nonNil(edits),
	}, nil
}

// ReviewProject approves or rejects a pending project
func (s *moderationService) ReviewProject(ctx context.Context, actorID, projectID string, review *models.ReviewRequest) (*models.Project, error) {
	if _, err := requireAdmin(ctx, s.repos.Profile, actorID); err != nil {
		return nil, err
	}

	project, err := s.repos.Project.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("%w: project %s", ErrNotFound, projectID)
	}

	to, err := decide(project.Status, review)
	if err != nil {
		return nil, err
	}

	ok, err := s.repos.Project.UpdateStatus(ctx, projectID, models.StatusPending, to)
	if err != nil {
		return nil, err
	}

	project, err = s.repos.Project.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, staleTarget("project", projectID, project != nil)
	}
	if project == nil {
		return nil, fmt.Errorf("%w: project %s", ErrNotFound, projectID)
	}

	s.logDecision("project", projectID, actorID, to)
	return project, nil
}

// ReviewHours approves or rejects a pending hour submission, stamping the reviewer
func (s *moderationService) ReviewHours(ctx context.Context, actorID, submissionID string, review *models.ReviewRequest) (*models.HourSubmission, error) {
	if _, err := requireAdmin(ctx, s.repos.Profile, actorID); err != nil {
		return nil, err
	}

	submission, err := s.repos.Hours.GetByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if submission == nil {
		return nil, fmt.Errorf("%w: hour submission %s", ErrNotFound, submissionID)
	}

	to, err := decide(submission.Status, review)
	if err != nil {
		return nil, err
	}

	ok, err := s.repos.Hours.Review(ctx, submissionID, to, actorID, s.now())
	if err != nil {
		return nil, err
	}

	submission, err = s.repos.Hours.GetByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, staleTarget("hour submission", submissionID, submission != nil)
	}
	if submission == nil {
		return nil, fmt.Errorf("%w: hour submission %s", ErrNotFound, submissionID)
	}

	s.logDecision("hour_submission", submissionID, actorID, to)
	return submission, nil
}

// ReviewEdit approves or rejects a pending edit request.
// Approval copies the proposed fields onto the project and marks the request in one transaction.
func (s *moderationService) ReviewEdit(ctx context.Context, actorID, requestID string, review *models.ReviewRequest) (*models.ProjectEditRequest, error) {
	if _, err := requireAdmin(ctx, s.repos.Profile, actorID); err != nil {
		return nil, err
	}
	notes := strings.TrimSpace(review.Notes)

	var to models.Status
	err := s.repos.WithTx(ctx, func(repos *repository.Repositories) error {
		req, err := repos.EditRequest.GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return fmt.Errorf("%w: edit request %s", ErrNotFound, requestID)
		}

		to, err = decide(req.Status, review)
		if err != nil {
			return err
		}

		if to == models.StatusApproved {
			ok, err := repos.Project.UpdateFields(ctx, req.ProjectID, req.Proposed())
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: project %s", ErrNotFound, req.ProjectID)
			}
		}

		ok, err := repos.EditRequest.Review(ctx, requestID, to, actorID, notes, s.now())
		if err != nil {
			return err
		}
		if !ok {
			current, err := repos.EditRequest.GetByID(ctx, requestID)
			if err != nil {
				return err
			}
			return staleTarget("edit request", requestID, current != nil)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	req, err := s.repos.EditRequest.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("%w: edit request %s", ErrNotFound, requestID)
	}

	s.logDecision("edit_request", requestID, actorID, to)
	return req, nil
}

func (s *moderationService) logDecision(kind, id, actorID string, to models.Status) {
	s.log.Info().
		Str("kind", kind).
		Str("id", id).
		Str("actor_id", actorID).
		Str("status", string(to)).
		Msg("Moderation decision recorded")
}

// decide validates the requested target and applies the transition rules to current
func decide(current models.Status, review *models.ReviewRequest) (models.Status, error) {
	action, err := workflow.ActionFor(review.Status)
	if err != nil {
		return "", invalidField("status", "status must be approved or rejected", review.Status)
	}
	to, err := workflow.Decide(current, action)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	return to, nil
}

// staleTarget explains a conditional write that matched no row
func staleTarget(kind, id string, exists bool) error {
	if !exists {
		return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
	}
	return fmt.Errorf("%w: %s %s is no longer pending", ErrInvalidState, kind, id)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
