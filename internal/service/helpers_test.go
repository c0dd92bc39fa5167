package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/volunteer-hours-api/internal/config"
	"github.com/volunteer-hours-api/internal/mocks"
	"github.com/volunteer-hours-api/internal/models"
	"github.com/volunteer-hours-api/internal/service"
)

type fixture struct {
	store    *mocks.Store
	provider *mocks.MockIdentityProvider
	blobs    *mocks.MockBlobStore
	svc      *service.Services
	ctx      context.Context
}

func testConfig() *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{MaxThumbnailBytes: 5 * 1024 * 1024},
		Provisioning: config.ProvisioningConfig{
			InitialInterval: time.Millisecond,
			MaxInterval:     2 * time.Millisecond,
			MaxTries:        3,
		},
		Hours: config.HoursConfig{GoalHours: 80},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, testConfig())
}

func newFixtureWith(t *testing.T, cfg *config.Config) *fixture {
	t.Helper()
	store := mocks.NewStore()
	provider := mocks.NewMockIdentityProvider()
	blobs := mocks.NewMockBlobStore()
	return &fixture{
		store:    store,
		provider: provider,
		blobs:    blobs,
		svc:      service.NewServices(store.Repositories(), provider, blobs, cfg, zerolog.Nop()),
		ctx:      context.Background(),
	}
}

func (f *fixture) user(name string) *models.Profile {
	p := &models.Profile{ID: uuid.New().String(), Email: name + "@example.com", FullName: name, Role: models.RoleUser}
	f.store.Profiles.Seed(p)
	return p
}

func (f *fixture) admin(name string) *models.Profile {
	p := &models.Profile{ID: uuid.New().String(), Email: name + "@example.com", FullName: name, Role: models.RoleAdmin}
	f.store.Profiles.Seed(p)
	return p
}

func validFields() models.EditableFields {
	return models.EditableFields{
		Title:         "Beach Cleanup",
		Description:   "Pick up litter along the shore",
		ExpectedHours: 4,
		Location:      "Ocean Beach",
		Date:          "2026-06-01",
	}
}

// project creates a project through the service and moves it to status
func (f *fixture) project(t *testing.T, creator *models.Profile, status models.Status) *models.Project {
	t.Helper()
	p, err := f.svc.Project.Create(f.ctx, creator.ID, &models.CreateProjectRequest{EditableFields: validFields()})
	require.NoError(t, err)
	if status != models.StatusPending {
		ok, err := f.store.Projects.UpdateStatus(f.ctx, p.ID, models.StatusPending, status)
		require.NoError(t, err)
		require.True(t, ok)
		p.Status = status
	}
	return p
}

func approve() *models.ReviewRequest { return &models.ReviewRequest{Status: models.StatusApproved} }

func reject(notes string) *models.ReviewRequest {
	return &models.ReviewRequest{Status: models.StatusRejected, Notes: notes}
}
