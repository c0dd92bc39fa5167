package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volunteer-hours-api/internal/models"
	"github.com/volunteer-hours-api/internal/service"
)

func TestJoin(t *testing.T) {
	f := newFixture(t)
	creator := f.user("alice")
	volunteer := f.user("bob")

	t.Run("pending project", func(t *testing.T) {
		p := f.project(t, creator, models.StatusPending)
		_, err := f.svc.Signup.Join(f.ctx, volunteer.ID, p.ID)
		assert.ErrorIs(t, err, service.ErrInvalidState)
	})

	t.Run("rejected project", func(t *testing.T) {
		p := f.project(t, creator, models.StatusRejected)
		_, err := f.svc.Signup.Join(f.ctx, volunteer.ID, p.ID)
		assert.ErrorIs(t, err, service.ErrInvalidState)
	})

	t.Run("duplicate then withdraw and rejoin", func(t *testing.T) {
		p := f.project(t, creator, models.StatusApproved)

		_, err := f.svc.Signup.Join(f.ctx, volunteer.ID, p.ID)
		require.NoError(t, err)

		_, err = f.svc.Signup.Join(f.ctx, volunteer.ID, p.ID)
		assert.ErrorIs(t, err, service.ErrConflict)

		require.NoError(t, f.svc.Signup.Withdraw(f.ctx, volunteer.ID, p.ID))

		_, err = f.svc.Signup.Join(f.ctx, volunteer.ID, p.ID)
		assert.NoError(t, err)

		joined, err := f.svc.Project.ListJoined(f.ctx, volunteer.ID)
		require.NoError(t, err)
		require.Len(t, joined, 1)
		assert.Equal(t, p.ID, joined[0].ID)
	})

	t.Run("unknown project", func(t *testing.T) {
		_, err := f.svc.Signup.Join(f.ctx, volunteer.ID, "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestWithdraw_RequiresSignup(t *testing.T) {
	f := newFixture(t)
	p := f.project(t, f.user("alice"), models.StatusApproved)

	err := f.svc.Signup.Withdraw(f.ctx, f.user("bob").ID, p.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}
