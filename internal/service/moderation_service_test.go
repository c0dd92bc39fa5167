package service_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volunteer-hours-api/internal/models"
	"github.com/volunteer-hours-api/internal/service"
)

func TestReviewProject(t *testing.T) {
	f := newFixture(t)
	admin := f.admin("admin")
	creator := f.user("alice")

	t.Run("approve pending", func(t *testing.T) {
		p := f.project(t, creator, models.StatusPending)
		got, err := f.svc.Moderation.ReviewProject(f.ctx, admin.ID, p.ID, approve())
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, got.Status)
		assert.Equal(t, p.Title, got.Title)
	})

	t.Run("reject pending", func(t *testing.T) {
		p := f.project(t, creator, models.StatusPending)
		got, err := f.svc.Moderation.ReviewProject(f.ctx, admin.ID, p.ID, reject(""))
		require.NoError(t, err)
		assert.Equal(t, models.StatusRejected, got.Status)
	})

	t.Run("terminal states are final", func(t *testing.T) {
		for _, status := range []models.Status{models.StatusApproved, models.StatusRejected} {
			p := f.project(t, creator, status)
			for _, review := range []*models.ReviewRequest{approve(), reject("")} {
				_, err := f.svc.Moderation.ReviewProject(f.ctx, admin.ID, p.ID, review)
				assert.ErrorIs(t, err, service.ErrInvalidState)
				assert.ErrorIs(t, err, service.ErrConflict)
			}
			stored, _ := f.store.Projects.GetByID(f.ctx, p.ID)
			assert.Equal(t, status, stored.Status)
		}
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		p := f.project(t, creator, models.StatusPending)
		_, err := f.svc.Moderation.ReviewProject(f.ctx, creator.ID, p.ID, approve())
		assert.ErrorIs(t, err, service.ErrForbidden)
		stored, _ := f.store.Projects.GetByID(f.ctx, p.ID)
		assert.Equal(t, models.StatusPending, stored.Status)
	})

	t.Run("unknown target status", func(t *testing.T) {
		p := f.project(t, creator, models.StatusPending)
		_, err := f.svc.Moderation.ReviewProject(f.ctx, admin.ID, p.ID, &models.ReviewRequest{Status: models.StatusPending})
		assert.ErrorIs(t, err, service.ErrValidation)
	})

	t.Run("missing project", func(t *testing.T) {
		_, err := f.svc.Moderation.ReviewProject(f.ctx, admin.ID, "00000000-0000-0000-0000-000000000000", approve())
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestReviewHours_StampsReviewer(t *testing.T) {
	f := newFixture(t)
	admin := f.admin("admin")
	volunteer := f.user("bob")
	p := f.project(t, f.user("alice"), models.StatusApproved)

	_, err := f.svc.Signup.Join(f.ctx, volunteer.ID, p.ID)
	require.NoError(t, err)
	sub, err := f.svc.Hours.Submit(f.ctx, volunteer.ID, &models.SubmitHoursRequest{ProjectID: p.ID, HoursCompleted: 3, Description: "sorting"})
	require.NoError(t, err)

	got, err := f.svc.Moderation.ReviewHours(f.ctx, admin.ID, sub.ID, approve())
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
	assert.Equal(t, admin.ID, got.ReviewedBy)
	require.NotNil(t, got.ReviewedAt)

	_, err = f.svc.Moderation.ReviewHours(f.ctx, admin.ID, sub.ID, reject("late"))
	assert.ErrorIs(t, err, service.ErrInvalidState)

	profile, err := f.svc.Profile.GetProfile(f.ctx, volunteer.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, profile.TotalHours)
}

func TestReviewEdit_ApproveCopiesFields(t *testing.T) {
	f := newFixture(t)
	admin := f.admin("admin")
	creator := f.user("alice")
	p := f.project(t, creator, models.StatusApproved)

	proposed := models.EditableFields{
		Title:         "River Cleanup",
		Description:   "Clear the river bank",
		ExpectedHours: 6,
		Location:      "Mill Creek",
		Date:          "2026-07-04",
	}
	req, err := f.svc.EditRequest.Submit(f.ctx, creator.ID, p.ID, &models.EditProjectRequest{EditableFields: proposed})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, req.Status)

	got, err := f.svc.Moderation.ReviewEdit(f.ctx, admin.ID, req.ID, approve())
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
	assert.Equal(t, admin.ID, got.ReviewedBy)
	require.NotNil(t, got.ReviewedAt)

	stored, err := f.store.Projects.GetByID(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, proposed, stored.Editable())
	assert.Equal(t, models.StatusApproved, stored.Status)
}

func TestReviewEdit_RejectLeavesProjectUnchanged(t *testing.T) {
	f := newFixture(t)
	admin := f.admin("admin")
	creator := f.user("alice")
	p := f.project(t, creator, models.StatusApproved)
	before, _ := f.store.Projects.GetByID(f.ctx, p.ID)

	proposed := p.Editable()
	proposed.Location = "Somewhere else"
	req, err := f.svc.EditRequest.Submit(f.ctx, creator.ID, p.ID, &models.EditProjectRequest{EditableFields: proposed})
	require.NoError(t, err)

	got, err := f.svc.Moderation.ReviewEdit(f.ctx, admin.ID, req.ID, reject("wrong address"))
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, got.Status)
	assert.Equal(t, "wrong address", got.AdminNotes)

	after, _ := f.store.Projects.GetByID(f.ctx, p.ID)
	assert.Equal(t, before, after)
}

func TestReviewEdit_RollsBackWhenMarkingFails(t *testing.T) {
	f := newFixture(t)
	admin := f.admin("admin")
	creator := f.user("alice")
	p := f.project(t, creator, models.StatusApproved)

	proposed := p.Editable()
	proposed.Title = "Renamed"
	req, err := f.svc.EditRequest.Submit(f.ctx, creator.ID, p.ID, &models.EditProjectRequest{EditableFields: proposed})
	require.NoError(t, err)

	f.store.EditRequests.ReviewErr = errors.New("connection reset")
	_, err = f.svc.Moderation.ReviewEdit(f.ctx, admin.ID, req.ID, approve())
	require.Error(t, err)
	assert.Equal(t, 1, f.store.RolledBack)

	stored, _ := f.store.Projects.GetByID(f.ctx, p.ID)
	assert.Equal(t, p.Title, stored.Title)
	pending, _ := f.store.EditRequests.GetByID(f.ctx, req.ID)
	assert.Equal(t, models.StatusPending, pending.Status)

	// Retry once the store recovers
	f.store.EditRequests.ReviewErr = nil
	_, err = f.svc.Moderation.ReviewEdit(f.ctx, admin.ID, req.ID, approve())
	require.NoError(t, err)
	stored, _ = f.store.Projects.GetByID(f.ctx, p.ID)
	assert.Equal(t, "Renamed", stored.Title)
}

func TestReviewEdit_ProjectUpdateFailureLeavesRequestPending(t *testing.T) {
	f := newFixture(t)
	admin := f.admin("admin")
	creator := f.user("alice")
	p := f.project(t, creator, models.StatusApproved)

	proposed := p.Editable()
	proposed.ExpectedHours = 9
	req, err := f.svc.EditRequest.Submit(f.ctx, creator.ID, p.ID, &models.EditProjectRequest{EditableFields: proposed})
	require.NoError(t, err)

	f.store.Projects.UpdateFieldsErr = errors.New("disk full")
	_, err = f.svc.Moderation.ReviewEdit(f.ctx, admin.ID, req.ID, approve())
	require.Error(t, err)

	pending, _ := f.store.EditRequests.GetByID(f.ctx, req.ID)
	assert.Equal(t, models.StatusPending, pending.Status)
	assert.Nil(t, pending.ReviewedAt)
}

func TestPending(t *testing.T) {
	f := newFixture(t)
	admin := f.admin("admin")
	creator := f.user("alice")

	first := f.project(t, creator, models.StatusPending)
	second := f.project(t, creator, models.StatusPending)
	f.project(t, creator, models.StatusApproved)

	queue, err := f.svc.Moderation.Pending(f.ctx, admin.ID)
	require.NoError(t, err)
	require.Len(t, queue.Projects, 2)
	assert.Equal(t, second.ID, queue.Projects[0].ID, "newest first")
	assert.Equal(t, first.ID, queue.Projects[1].ID)
	assert.NotNil(t, queue.Hours)
	assert.NotNil(t, queue.EditRequests)

	_, err = f.svc.Moderation.Pending(f.ctx, creator.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)
}

// Walks a project from submission through signup, hours credit and a rejected edit.
func TestModerationScenario(t *testing.T) {
	f := newFixture(t)
	admin := f.admin("admin")
	a := f.user("alice")
	b := f.user("bob")

	p, err := f.svc.Project.Create(f.ctx, a.ID, &models.CreateProjectRequest{EditableFields: validFields()})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, p.Status)

	p, err = f.svc.Moderation.ReviewProject(f.ctx, admin.ID, p.ID, approve())
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, p.Status)

	_, err = f.svc.Signup.Join(f.ctx, b.ID, p.ID)
	require.NoError(t, err)

	sub, err := f.svc.Hours.Submit(f.ctx, b.ID, &models.SubmitHoursRequest{ProjectID: p.ID, HoursCompleted: 5, Description: "cleanup"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, sub.Status)

	_, err = f.svc.Moderation.ReviewHours(f.ctx, admin.ID, sub.ID, approve())
	require.NoError(t, err)

	summary, err := f.svc.Hours.Summary(f.ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, summary.ApprovedHours)

	edit := p.Editable()
	edit.Location = "Pier 39"
	req, err := f.svc.EditRequest.Submit(f.ctx, a.ID, p.ID, &models.EditProjectRequest{EditableFields: edit})
	require.NoError(t, err)

	req, err = f.svc.Moderation.ReviewEdit(f.ctx, admin.ID, req.ID, reject("wrong address"))
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, req.Status)
	assert.Equal(t, "wrong address", req.AdminNotes)

	stored, _ := f.store.Projects.GetByID(f.ctx, p.ID)
	assert.Equal(t, "Ocean Beach", stored.Location)
}
