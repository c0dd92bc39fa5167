package service_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volunteer-hours-api/internal/models"
	"github.com/volunteer-hours-api/internal/service"
)

func TestCanSelfPromote(t *testing.T) {
	f := newFixture(t)

	open, err := f.svc.Profile.CanSelfPromote(f.ctx)
	require.NoError(t, err)
	assert.True(t, open, "no profiles at all")

	u := f.user("alice")
	open, _ = f.svc.Profile.CanSelfPromote(f.ctx)
	assert.True(t, open, "only users")

	_, err = f.svc.Profile.PromoteToAdmin(f.ctx, u.ID, u.ID)
	require.NoError(t, err)

	open, _ = f.svc.Profile.CanSelfPromote(f.ctx)
	assert.False(t, open)

	// Stays closed for every later profile
	f.user("bob")
	open, _ = f.svc.Profile.CanSelfPromote(f.ctx)
	assert.False(t, open)
}

func TestPromoteToAdmin(t *testing.T) {
	f := newFixture(t)
	first := f.user("first")
	second := f.user("second")
	third := f.user("third")

	promoted, err := f.svc.Profile.PromoteToAdmin(f.ctx, first.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, promoted.Role)
	assert.Equal(t, 1, f.store.LockedAdmin)

	t.Run("self-promotion after bootstrap", func(t *testing.T) {
		_, err := f.svc.Profile.PromoteToAdmin(f.ctx, second.ID, second.ID)
		assert.ErrorIs(t, err, service.ErrForbidden)
		p, _ := f.store.Profiles.GetByID(f.ctx, second.ID)
		assert.Equal(t, models.RoleUser, p.Role)
	})

	t.Run("non-admin promoting another", func(t *testing.T) {
		_, err := f.svc.Profile.PromoteToAdmin(f.ctx, second.ID, third.ID)
		assert.ErrorIs(t, err, service.ErrForbidden)
	})

	t.Run("admin promoting a user", func(t *testing.T) {
		p, err := f.svc.Profile.PromoteToAdmin(f.ctx, first.ID, second.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, p.Role)
	})

	t.Run("target already admin", func(t *testing.T) {
		_, err := f.svc.Profile.PromoteToAdmin(f.ctx, first.ID, second.ID)
		assert.ErrorIs(t, err, service.ErrConflict)
		_, err = f.svc.Profile.PromoteToAdmin(f.ctx, first.ID, first.ID)
		assert.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("unknown target", func(t *testing.T) {
		_, err := f.svc.Profile.PromoteToAdmin(f.ctx, first.ID, "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestPromoteToAdmin_ConcurrentBootstrap(t *testing.T) {
	f := newFixture(t)

	const n = 10
	users := make([]*models.Profile, n)
	for i := range users {
		users[i] = f.user("racer" + string(rune('a'+i)))
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0
	for _, u := range users {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if _, err := f.svc.Profile.PromoteToAdmin(f.ctx, id, id); err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}(u.ID)
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
	count, err := f.store.Profiles.CountAdmins(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestListProfiles(t *testing.T) {
	f := newFixture(t)
	admin := f.admin("admin")
	volunteer := f.user("bob")
	p := f.project(t, f.user("alice"), models.StatusApproved)

	_, err := f.svc.Signup.Join(f.ctx, volunteer.ID, p.ID)
	require.NoError(t, err)
	for _, hours := range []int{2, 5} {
		sub, err := f.svc.Hours.Submit(f.ctx, volunteer.ID, &models.SubmitHoursRequest{ProjectID: p.ID, HoursCompleted: hours, Description: "work"})
		require.NoError(t, err)
		_, err = f.svc.Moderation.ReviewHours(f.ctx, admin.ID, sub.ID, approve())
		require.NoError(t, err)
	}

	profiles, err := f.svc.Profile.ListProfiles(f.ctx, admin.ID)
	require.NoError(t, err)
	require.Len(t, profiles, 3)
	assert.Equal(t, "alice", profiles[0].FullName, "newest first")

	totals := map[string]int{}
	for _, p := range profiles {
		totals[p.ID] = p.TotalHours
	}
	assert.Equal(t, 7, totals[volunteer.ID])
	assert.Equal(t, 0, totals[admin.ID])

	_, err = f.svc.Profile.ListProfiles(f.ctx, volunteer.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestEnsureProfile_Idempotent(t *testing.T) {
	f := newFixture(t)
	id := &models.Identity{ID: "8d7f3c52-7b0e-4b5e-9d8a-0d0c5c1f2a11", Email: "new@example.com", FullName: "New"}

	first, err := f.svc.Profile.EnsureProfile(f.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, first.Role)

	second, err := f.svc.Profile.EnsureProfile(f.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
}

func TestWaitForProfile(t *testing.T) {
	f := newFixture(t)
	id := "0b5b8f2e-3a57-4a44-8f0e-6a3a0cf1b7d2"

	f.store.Profiles.CreatedAfterGets = 2
	f.store.Profiles.ProvisionLater(models.Profile{ID: id, Email: "late@example.com", Role: models.RoleUser})

	p, err := f.svc.Profile.WaitForProfile(f.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "late@example.com", p.Email)
	assert.Equal(t, 3, f.store.Profiles.GetCalls)

	_, err = f.svc.Profile.WaitForProfile(f.ctx, "5f1d4b2c-0000-4000-8000-000000000000")
	assert.ErrorIs(t, err, service.ErrNotFound)
}
