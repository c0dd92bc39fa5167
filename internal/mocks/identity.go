package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/volunteer-hours-api/internal/identity"
	"github.com/volunteer-hours-api/internal/models"
)

// MockIdentityProvider is an in-memory identity service
type MockIdentityProvider struct {
	mu        sync.Mutex
	passwords map[string]string
	byEmail   map[string]models.Identity
	tokens    map[string]models.Identity

	// OnRegister runs after each successful registration, e.g. to provision a profile
	OnRegister  func(models.Identity)
	RegisterErr error
}

var _ identity.Provider = (*MockIdentityProvider)(nil)

func NewMockIdentityProvider() *MockIdentityProvider {
	return &MockIdentityProvider{
		passwords: make(map[string]string),
		byEmail:   make(map[string]models.Identity),
		tokens:    make(map[string]models.Identity),
	}
}

func (m *MockIdentityProvider) Register(ctx context.Context, email, password, fullName string) (*models.Session, error) {
	m.mu.Lock()
	if m.RegisterErr != nil {
		m.mu.Unlock()
		return nil, m.RegisterErr
	}
	if _, exists := m.byEmail[email]; exists {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: user already registered", identity.ErrRegistrationRejected)
	}

	id := models.Identity{ID: uuid.New().String(), Email: email, FullName: fullName}
	m.passwords[email] = password
	m.byEmail[email] = id
	session := m.issue(id)
	hook := m.OnRegister
	m.mu.Unlock()

	if hook != nil {
		hook(id)
	}
	return session, nil
}

func (m *MockIdentityProvider) Authenticate(ctx context.Context, email, password string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byEmail[email]
	if !ok || m.passwords[email] != password {
		return nil, identity.ErrInvalidCredentials
	}
	return m.issue(id), nil
}

func (m *MockIdentityProvider) CurrentIdentity(ctx context.Context, accessToken string) (*models.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.tokens[accessToken]
	if !ok {
		return nil, identity.ErrInvalidToken
	}
	return &id, nil
}

// TokenFor issues an access token for an identity without registering it
func (m *MockIdentityProvider) TokenFor(id models.Identity) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.issue(id).AccessToken
}

func (m *MockIdentityProvider) issue(id models.Identity) *models.Session {
	token := "token-" + uuid.New().String()
	m.tokens[token] = id
	return &models.Session{Identity: id, AccessToken: token, ExpiresIn: 3600}
}
