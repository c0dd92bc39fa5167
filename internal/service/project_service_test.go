package service_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volunteer-hours-api/internal/mocks"
	"github.com/volunteer-hours-api/internal/models"
	"github.com/volunteer-hours-api/internal/service"
	"github.com/volunteer-hours-api/internal/workflow"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestCreateProject_AlwaysPending(t *testing.T) {
	f := newFixture(t)
	admin := f.admin("admin")

	p, err := f.svc.Project.Create(f.ctx, admin.ID, &models.CreateProjectRequest{EditableFields: validFields()})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, p.Status)
	assert.Equal(t, admin.ID, p.CreatedBy)
	require.NotNil(t, p.Creator)
	assert.Equal(t, "admin", p.Creator.FullName)
}

func TestCreateProject_Validation(t *testing.T) {
	f := newFixture(t)
	u := f.user("alice")

	tests := map[string]func(*models.EditableFields){
		"blank title":       func(e *models.EditableFields) { e.Title = "   " },
		"no location":       func(e *models.EditableFields) { e.Location = "" },
		"bad date":          func(e *models.EditableFields) { e.Date = "June 1st" },
		"zero hours":        func(e *models.EditableFields) { e.ExpectedHours = 0 },
		"too many hours":    func(e *models.EditableFields) { e.ExpectedHours = 100 },
		"foreign thumbnail": func(e *models.EditableFields) { e.ThumbnailURL = "https://evil.example/x.png" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			fields := validFields()
			mutate(&fields)
			_, err := f.svc.Project.Create(f.ctx, u.ID, &models.CreateProjectRequest{EditableFields: fields})
			assert.ErrorIs(t, err, service.ErrValidation)
		})
	}

	mine, err := f.svc.Project.ListMine(f.ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestListApproved_SearchAndOrder(t *testing.T) {
	f := newFixture(t)
	u := f.user("alice")

	create := func(title, location, date string, status models.Status) {
		fields := validFields()
		fields.Title, fields.Location, fields.Date = title, location, date
		p, err := f.svc.Project.Create(f.ctx, u.ID, &models.CreateProjectRequest{EditableFields: fields})
		require.NoError(t, err)
		if status != models.StatusPending {
			_, err = f.store.Projects.UpdateStatus(f.ctx, p.ID, models.StatusPending, status)
			require.NoError(t, err)
		}
	}
	create("Food Bank", "Downtown", "2026-05-10", models.StatusApproved)
	create("Park Restoration", "Golden Gate Park", "2026-03-01", models.StatusApproved)
	create("Library Tutoring", "Main Library", "2026-04-01", models.StatusApproved)
	create("Hidden Park Day", "Dolores Park", "2026-01-01", models.StatusPending)

	all, err := f.svc.Project.ListApproved(f.ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"2026-03-01", "2026-04-01", "2026-05-10"}, []string{all[0].Date, all[1].Date, all[2].Date})

	parks, err := f.svc.Project.ListApproved(f.ctx, "  PARK ")
	require.NoError(t, err)
	require.Len(t, parks, 1)
	assert.Equal(t, "Park Restoration", parks[0].Title)

	byLocation, err := f.svc.Project.ListApproved(f.ctx, "downtown")
	require.NoError(t, err)
	require.Len(t, byLocation, 1)
	assert.Equal(t, "Food Bank", byLocation[0].Title)
}

func TestDeleteProject(t *testing.T) {
	f := newFixture(t)
	creator := f.user("alice")
	other := f.user("bob")

	url, err := f.svc.Project.UploadThumbnail(f.ctx, creator.ID, pngHeader)
	require.NoError(t, err)
	fields := validFields()
	fields.ThumbnailURL = url
	p, err := f.svc.Project.Create(f.ctx, creator.ID, &models.CreateProjectRequest{EditableFields: fields})
	require.NoError(t, err)

	err = f.svc.Project.Delete(f.ctx, other.ID, p.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)

	require.NoError(t, f.svc.Project.Delete(f.ctx, creator.ID, p.ID))
	gone, _ := f.store.Projects.GetByID(f.ctx, p.ID)
	assert.Nil(t, gone)
	assert.Empty(t, f.blobs.Objects)
	require.Len(t, f.blobs.Deleted, 1)
	assert.True(t, strings.HasPrefix(f.blobs.Deleted[0], creator.ID+"/"))

	err = f.svc.Project.Delete(f.ctx, creator.ID, p.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestDeleteProject_ThumbnailFailureIsBestEffort(t *testing.T) {
	f := newFixture(t)
	creator := f.user("alice")

	fields := validFields()
	fields.ThumbnailURL = mocks.MockBaseURL + creator.ID + "/1.png"
	p, err := f.svc.Project.Create(f.ctx, creator.ID, &models.CreateProjectRequest{EditableFields: fields})
	require.NoError(t, err)

	f.blobs.DeleteErr = errors.New("bucket unavailable")
	require.NoError(t, f.svc.Project.Delete(f.ctx, creator.ID, p.ID))
	assert.Len(t, f.blobs.Deleted, 1)
}

func TestThumbnail_OtherUsersUploadIsRefused(t *testing.T) {
	f := newFixture(t)
	alice := f.user("alice")
	mallory := f.user("mallory")

	alicesURL, err := f.svc.Project.UploadThumbnail(f.ctx, alice.ID, pngHeader)
	require.NoError(t, err)
	alicesPath, err := f.blobs.PathFromURL(alicesURL)
	require.NoError(t, err)

	fields := validFields()
	fields.ThumbnailURL = alicesURL
	_, err = f.svc.Project.Create(f.ctx, mallory.ID, &models.CreateProjectRequest{EditableFields: fields})
	var vErr *service.ValidationFailedError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "thumbnail_url", vErr.Errors[0].Field)

	// A row that already points elsewhere never deletes another user's blob
	p := &models.Project{Status: models.StatusPending, CreatedBy: mallory.ID}
	workflow.Apply(p, fields)
	require.NoError(t, f.store.Projects.Create(f.ctx, p))

	require.NoError(t, f.svc.Project.Delete(f.ctx, mallory.ID, p.ID))
	assert.Empty(t, f.blobs.Deleted)
	assert.Contains(t, f.blobs.Objects, alicesPath)
}

func TestUploadThumbnail(t *testing.T) {
	f := newFixture(t)
	u := f.user("alice")

	url, err := f.svc.Project.UploadThumbnail(f.ctx, u.ID, pngHeader)
	require.NoError(t, err)
	path, err := f.blobs.PathFromURL(url)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, u.ID+"/"))
	assert.True(t, strings.HasSuffix(path, ".png"))
	assert.Equal(t, "image/png", f.blobs.Types[path])

	_, err = f.svc.Project.UploadThumbnail(f.ctx, u.ID, []byte("plain text, not an image"))
	assert.ErrorIs(t, err, service.ErrValidation)

	f.blobs.UploadErr = errors.New("timeout")
	_, err = f.svc.Project.UploadThumbnail(f.ctx, u.ID, pngHeader)
	assert.ErrorIs(t, err, service.ErrStorage)
}
