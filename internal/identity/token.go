package identity

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/volunteer-hours-api/internal/models"
)

// Claims are the access token claims issued by the auth server
type Claims struct {
	Email        string                 `json:"email"`
	Role         string                 `json:"role"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	jwt.RegisteredClaims
}

// TokenVerifier validates HS256 access tokens signed with the project's JWT secret
type TokenVerifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewTokenVerifier creates a verifier for the given secret
func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}
}

// Verify checks the token signature and expiry and returns the identity in its subject
func (v *TokenVerifier) Verify(tokenString string) (*models.Identity, error) {
	claims := &Claims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token expired", ErrInvalidToken)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, fmt.Errorf("%w: subject is not a user id", ErrInvalidToken)
	}

	identity := &models.Identity{ID: claims.Subject, Email: claims.Email}
	if name, ok := claims.UserMetadata["full_name"].(string); ok {
		identity.FullName = name
	}
	return identity, nil
}

// Sign issues a token for identity, used by local tooling and tests
func (v *TokenVerifier) Sign(identity models.Identity, claims jwt.RegisteredClaims) (string, error) {
	claims.Subject = identity.ID
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email:            identity.Email,
		Role:             "authenticated",
		UserMetadata:     map[string]interface{}{"full_name": identity.FullName},
		RegisteredClaims: claims,
	})
	return token.SignedString(v.secret)
}
