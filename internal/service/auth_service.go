package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/volunteer-hours-api/internal/identity"
	"github.com/volunteer-hours-api/internal/models"
	"github.com/volunteer-hours-api/internal/validation"
)

// authService is the concrete implementation of AuthService
type authService struct {
	provider identity.Provider
	profiles ProfileService
	// externalProfiles means the auth server creates profile rows, so sign-up waits for them
	externalProfiles bool
	log              zerolog.Logger
}

// newAuthService creates a new AuthService
func newAuthService(provider identity.Provider, profiles ProfileService, externalProfiles bool, log zerolog.Logger) *authService {
	return &authService{
		provider:         provider,
		profiles:         profiles,
		externalProfiles: externalProfiles,
		log:              log.With().Str("service", "auth").Logger(),
	}
}

// SignUp registers an identity, makes sure its profile exists and, when asked, attempts the bootstrap promotion.
// A promotion refused because the gate closed in the meantime leaves a plain user profile.
func (s *authService) SignUp(ctx context.Context, req *models.SignUpRequest) (*models.SignUpResult, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := invalid(validation.ValidateSignUp(req)); err != nil {
		return nil, err
	}

	session, err := s.provider.Register(ctx, req.Email, req.Password, req.FullName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuth, err)
	}

	profile, err := s.signedUpProfile(ctx, session)
	if err != nil {
		return nil, err
	}

	result := &models.SignUpResult{Session: session, Profile: profile}
	if !req.MakeAdmin {
		s.log.Info().Str("user_id", profile.ID).Msg("User signed up")
		return result, nil
	}

	promoted, err := s.profiles.PromoteToAdmin(ctx, profile.ID, profile.ID)
	if errors.Is(err, ErrForbidden) || errors.Is(err, ErrConflict) {
		s.log.Warn().Err(err).Str("user_id", profile.ID).Msg("Bootstrap promotion refused")
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	result.Profile = promoted
	result.Promoted = true
	s.log.Info().Str("user_id", profile.ID).Msg("User signed up as first admin")
	return result, nil
}

// signedUpProfile returns the new identity's profile. With external provisioning it first
// waits for the auth server's row; otherwise the profile is created right away.
func (s *authService) signedUpProfile(ctx context.Context, session *models.Session) (*models.Profile, error) {
	if !s.externalProfiles {
		return s.profiles.EnsureProfile(ctx, &session.Identity)
	}

	profile, err := s.profiles.WaitForProfile(ctx, session.ID)
	if errors.Is(err, ErrNotFound) {
		return s.profiles.EnsureProfile(ctx, &session.Identity)
	}
	return profile, err
}

// SignIn exchanges credentials for a session and makes sure the profile exists
func (s *authService) SignIn(ctx context.Context, req *models.SignInRequest) (*models.Session, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := invalid(validation.ValidateSignIn(req)); err != nil {
		return nil, err
	}

	session, err := s.provider.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuth, err)
	}

	if _, err := s.profiles.EnsureProfile(ctx, &session.Identity); err != nil {
		return nil, err
	}
	return session, nil
}

// Authenticate resolves a bearer token to a profile
func (s *authService) Authenticate(ctx context.Context, accessToken string) (*models.Profile, error) {
	id, err := s.provider.CurrentIdentity(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuth, err)
	}
	return s.profiles.EnsureProfile(ctx, id)
}
