package identity

import (
	"context"
	"errors"

	"github.com/volunteer-hours-api/internal/models"
)

var (
	// ErrInvalidCredentials is returned when the provider refuses an email/password pair
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken is returned for missing, malformed or expired access tokens
	ErrInvalidToken = errors.New("invalid access token")
	// ErrRegistrationRejected is returned when the provider refuses to create an identity
	ErrRegistrationRejected = errors.New("registration rejected")
)

// Provider is the managed identity service
type Provider interface {
	Register(ctx context.Context, email, password, fullName string) (*models.Session, error)
	Authenticate(ctx context.Context, email, password string) (*models.Session, error)
	CurrentIdentity(ctx context.Context, accessToken string) (*models.Identity, error)
}
