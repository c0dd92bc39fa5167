package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"
	"github.com/volunteer-hours-api/internal/models"
	"github.com/volunteer-hours-api/internal/repository"
	"github.com/volunteer-hours-api/internal/validation"
	"github.com/volunteer-hours-api/internal/workflow"
)

// DefaultGoalHours is the service-hour target used when none is configured
const DefaultGoalHours = 80

// hoursService is the concrete implementation of HoursService
type hoursService struct {
	repos     *repository.Repositories
	goalHours int
	log       zerolog.Logger
}

// newHoursService creates a new HoursService
func newHoursService(repos *repository.Repositories, goalHours int, log zerolog.Logger) *hoursService {
	if goalHours <= 0 {
		goalHours = DefaultGoalHours
	}
	return &hoursService{
		repos:     repos,
		goalHours: goalHours,
		log:       log.With().Str("service", "hours").Logger(),
	}
}

// Submit records pending hours against a project the actor has joined
func (s *hoursService) Submit(ctx context.Context, actorID string, req *models.SubmitHoursRequest) (*models.HourSubmission, error) {
	req.Description = strings.TrimSpace(req.Description)
	if err := invalid(validation.ValidateHourSubmission(req)); err != nil {
		return nil, err
	}

	joined, err := s.repos.Signup.Exists(ctx, req.ProjectID, actorID)
	if err != nil {
		return nil, err
	}
	if !joined {
		return nil, fmt.Errorf("%w: join project %s before submitting hours", ErrForbidden, req.ProjectID)
	}

	submission := &models.HourSubmission{
		ProjectID:      req.ProjectID,
		UserID:         actorID,
		HoursCompleted: req.HoursCompleted,
		Description:    req.Description,
		Status:         workflow.InitialStatus,
	}
	if err := s.repos.Hours.Create(ctx, submission); err != nil {
		if errors.Is(err, repository.ErrMissingReference) {
			return nil, fmt.Errorf("%w: project %s", ErrNotFound, req.ProjectID)
		}
		return nil, err
	}

	s.log.Info().
		Str("submission_id", submission.ID).
		Str("actor_id", actorID).
		Int("hours", submission.HoursCompleted).
		Str("status", string(submission.Status)).
		Msg("Hours submitted")

	return submission, nil
}

// ListMine returns the actor's submissions, newest first
func (s *hoursService) ListMine(ctx context.Context, actorID string) ([]*models.HourSubmission, error) {
	return s.repos.Hours.ListByUser(ctx, actorID)
}

// Summary computes progress toward the goal from approved submissions
func (s *hoursService) Summary(ctx context.Context, actorID string) (*models.HoursSummary, error) {
	approved, err := s.repos.Hours.SumByStatus(ctx, actorID, models.StatusApproved)
	if err != nil {
		return nil, err
	}
	pending, err := s.repos.Hours.SumByStatus(ctx, actorID, models.StatusPending)
	if err != nil {
		return nil, err
	}
	return summarize(approved, pending, s.goalHours), nil
}

func summarize(approved, pending, goal int) *models.HoursSummary {
	progress := math.Min(float64(approved)/float64(goal)*100, 100)
	return &models.HoursSummary{
		ApprovedHours: approved,
		PendingHours:  pending,
		GoalHours:     goal,
		Progress:      math.Round(progress*10) / 10,
		Completed:     approved >= goal,
	}
}
