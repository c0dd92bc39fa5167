package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/volunteer-hours-api/internal/models"
	"github.com/volunteer-hours-api/internal/repository"
)

// signupService is the concrete implementation of SignupService
type signupService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// newSignupService creates a new SignupService
func newSignupService(repos *repository.Repositories, log zerolog.Logger) *signupService {
	return &signupService{
		repos: repos,
		log:   log.With().Str("service", "signup").Logger(),
	}
}

// Join signs the actor up for an approved project. A second join for the same pair is a conflict.
func (s *signupService) Join(ctx context.Context, actorID, projectID string) (*models.ProjectSignup, error) {
	project, err := s.repos.Project.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("%w: project %s", ErrNotFound, projectID)
	}
	if project.Status != models.StatusApproved {
		return nil, fmt.Errorf("%w: project %s is %s", ErrInvalidState, projectID, project.Status)
	}

	signup := &models.ProjectSignup{ProjectID: projectID, UserID: actorID}
	if err := s.repos.Signup.Create(ctx, signup); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, fmt.Errorf("%w: already signed up for project %s", ErrConflict, projectID)
		case errors.Is(err, repository.ErrMissingReference):
			return nil, fmt.Errorf("%w: project %s", ErrNotFound, projectID)
		}
		return nil, err
	}

	s.log.Info().Str("project_id", projectID).Str("actor_id", actorID).Msg("Joined project")
	return signup, nil
}

// Withdraw removes the actor's signup; there must be one
func (s *signupService) Withdraw(ctx context.Context, actorID, projectID string) error {
	ok, err := s.repos.Signup.Delete(ctx, projectID, actorID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: not signed up for project %s", ErrNotFound, projectID)
	}

	s.log.Info().Str("project_id", projectID).Str("actor_id", actorID).Msg("Withdrew from project")
	return nil
}

// ListMine returns the actor's signups
func (s *signupService) ListMine(ctx context.Context, actorID string) ([]*models.ProjectSignup, error) {
	return s.repos.Signup.ListByUser(ctx, actorID)
}
