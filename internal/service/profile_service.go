package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
	"github.com/volunteer-hours-api/internal/config"
	"github.com/volunteer-hours-api/internal/models"
	"github.com/volunteer-hours-api/internal/repository"
)

// errProfileNotProvisioned is retried by WaitForProfile
var errProfileNotProvisioned = errors.New("profile not provisioned yet")

// errGateClosed means an admin already exists, so self-promotion is no longer possible
var errGateClosed = fmt.Errorf("%w: an admin already exists", ErrForbidden)

// profileService is the concrete implementation of ProfileService
type profileService struct {
	repos *repository.Repositories
	poll  config.ProvisioningConfig
	log   zerolog.Logger
}

// newProfileService creates a new ProfileService
func newProfileService(repos *repository.Repositories, poll config.ProvisioningConfig, log zerolog.Logger) *profileService {
	return &profileService{
		repos: repos,
		poll:  poll,
		log:   log.With().Str("service", "profile").Logger(),
	}
}

// EnsureProfile returns the identity's profile, creating it with the user role if absent
func (s *profileService) EnsureProfile(ctx context.Context, identity *models.Identity) (*models.Profile, error) {
	profile, err := s.repos.Profile.GetByID(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		return profile, nil
	}

	profile = &models.Profile{
		ID:       identity.ID,
		Email:    identity.Email,
		FullName: identity.FullName,
		Role:     models.RoleUser,
	}
	if err := s.repos.Profile.Create(ctx, profile); err != nil {
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, err
		}
		// Created concurrently by another request or the auth server
		existing, err := s.repos.Profile.GetByID(ctx, identity.ID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fmt.Errorf("%w: profile %s vanished after duplicate insert", ErrConflict, identity.ID)
		}
		return existing, nil
	}

	s.log.Info().Str("user_id", profile.ID).Str("email", profile.Email).Msg("Profile created")
	return profile, nil
}

// WaitForProfile polls with exponential backoff until a profile provisioned elsewhere appears.
// Returns ErrNotFound once the configured number of tries is exhausted.
func (s *profileService) WaitForProfile(ctx context.Context, id string) (*models.Profile, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.poll.InitialInterval
	b.MaxInterval = s.poll.MaxInterval

	tries := 0
	profile, err := backoff.Retry(ctx, func() (*models.Profile, error) {
		tries++
		profile, err := s.repos.Profile.GetByID(ctx, id)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		if profile == nil {
			return nil, errProfileNotProvisioned
		}
		return profile, nil
	}, backoff.WithBackOff(b), backoff.WithMaxTries(uint(max(s.poll.MaxTries, 1))))

	if errors.Is(err, errProfileNotProvisioned) {
		s.log.Debug().Str("user_id", id).Int("tries", tries).Msg("Profile not provisioned")
		return nil, fmt.Errorf("%w: profile %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// GetProfile returns a profile with its approved hour total
func (s *profileService) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	profile, err := s.repos.Profile.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: profile %s", ErrNotFound, id)
	}

	total, err := s.repos.Hours.SumByStatus(ctx, id, models.StatusApproved)
	if err != nil {
		return nil, err
	}
	profile.TotalHours = total
	return profile, nil
}

// CanSelfPromote reports whether no admin exists yet. Always queried fresh.
func (s *profileService) CanSelfPromote(ctx context.Context) (bool, error) {
	count, err := s.repos.Profile.CountAdmins(ctx)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// PromoteToAdmin grants the admin role to targetID.
// Self-promotion succeeds only while no admin exists; otherwise the actor must already be an admin.
func (s *profileService) PromoteToAdmin(ctx context.Context, actorID, targetID string) (*models.Profile, error) {
	var promoted *models.Profile

	err := s.repos.WithTx(ctx, func(repos *repository.Repositories) error {
		if err := repos.Profile.LockAdminRole(ctx); err != nil {
			return err
		}

		actor, err := repos.Profile.GetByID(ctx, actorID)
		if err != nil {
			return err
		}
		if actor == nil {
			return ErrAuth
		}

		target := actor
		if targetID != actorID {
			if !actor.IsAdmin() {
				return ErrForbidden
			}
			target, err = repos.Profile.GetByID(ctx, targetID)
			if err != nil {
				return err
			}
			if target == nil {
				return fmt.Errorf("%w: profile %s", ErrNotFound, targetID)
			}
		}
		if target.IsAdmin() {
			return fmt.Errorf("%w: %s is already an admin", ErrConflict, target.ID)
		}

		if targetID == actorID {
			count, err := repos.Profile.CountAdmins(ctx)
			if err != nil {
				return err
			}
			if count > 0 {
				return errGateClosed
			}
		}

		ok, err := repos.Profile.SetRole(ctx, target.ID, models.RoleAdmin)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: profile %s", ErrNotFound, target.ID)
		}
		target.Role = models.RoleAdmin
		promoted = target
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("actor_id", actorID).Str("user_id", promoted.ID).Msg("Profile promoted to admin")
	return promoted, nil
}

// ListProfiles returns all profiles with approved hour totals, newest first
func (s *profileService) ListProfiles(ctx context.Context, actorID string) ([]*models.Profile, error) {
	if _, err := requireAdmin(ctx, s.repos.Profile, actorID); err != nil {
		return nil, err
	}

	profiles, err := s.repos.Profile.List(ctx)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int, len(profiles))
	err = s.repos.Hours.StreamApprovedTotals(ctx, func(v *models.VolunteerHours) error {
		totals[v.UserID] = v.ApprovedHours
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, p := range profiles {
		p.TotalHours = totals[p.ID]
	}
	return profiles, nil
}
