package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	auth "github.com/supabase-community/auth-go"
	"github.com/supabase-community/auth-go/types"

	"github.com/volunteer-hours-api/internal/config"
	"github.com/volunteer-hours-api/internal/models"
)

// SupabaseProvider talks to a Supabase (GoTrue) auth server
type SupabaseProvider struct {
	client   auth.Client
	verifier *TokenVerifier
	log      zerolog.Logger
}

// NewSupabaseProvider builds a provider from auth configuration.
// When a JWT secret is configured, access tokens are verified locally instead of calling the server.
func NewSupabaseProvider(cfg config.AuthConfig, log zerolog.Logger) *SupabaseProvider {
	client := auth.New("", cfg.AnonKey).WithCustomAuthURL(strings.TrimRight(cfg.URL, "/") + "/auth/v1")

	p := &SupabaseProvider{
		client: client,
		log:    log.With().Str("component", "identity").Logger(),
	}
	if cfg.JWTSecret != "" {
		p.verifier = NewTokenVerifier(cfg.JWTSecret)
	}
	return p
}

// Register creates an identity and returns its session when the server issues one
func (p *SupabaseProvider) Register(ctx context.Context, email, password, fullName string) (*models.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := p.client.Signup(types.SignupRequest{
		Email:    email,
		Password: password,
		Data:     map[string]interface{}{"full_name": fullName},
	})
	if err != nil {
		p.log.Debug().Err(err).Str("email", email).Msg("Sign-up refused")
		return nil, fmt.Errorf("%w: %v", ErrRegistrationRejected, err)
	}

	user := resp.User
	if user.ID == uuid.Nil {
		user = resp.Session.User
	}
	if user.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: no user in response", ErrRegistrationRejected)
	}

	session := &models.Session{
		Identity:     toIdentity(user),
		AccessToken:  resp.Session.AccessToken,
		RefreshToken: resp.Session.RefreshToken,
		ExpiresIn:    resp.Session.ExpiresIn,
	}
	if session.FullName == "" {
		session.FullName = fullName
	}
	return session, nil
}

// Authenticate exchanges an email and password for a session
func (p *SupabaseProvider) Authenticate(ctx context.Context, email, password string) (*models.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := p.client.SignInWithEmailPassword(email, password)
	if err != nil {
		p.log.Debug().Err(err).Str("email", email).Msg("Sign-in refused")
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	return &models.Session{
		Identity:     toIdentity(resp.Session.User),
		AccessToken:  resp.Session.AccessToken,
		RefreshToken: resp.Session.RefreshToken,
		ExpiresIn:    resp.Session.ExpiresIn,
	}, nil
}

// CurrentIdentity resolves the identity behind an access token
func (p *SupabaseProvider) CurrentIdentity(ctx context.Context, accessToken string) (*models.Identity, error) {
	if accessToken == "" {
		return nil, ErrInvalidToken
	}
	if p.verifier != nil {
		return p.verifier.Verify(accessToken)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := p.client.WithToken(accessToken).GetUser()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	identity := toIdentity(resp.User)
	return &identity, nil
}

func toIdentity(user types.User) models.Identity {
	identity := models.Identity{
		ID:    user.ID.String(),
		Email: user.Email,
	}
	if name, ok := user.UserMetadata["full_name"].(string); ok {
		identity.FullName = name
	}
	return identity
}
