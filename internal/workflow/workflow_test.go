package workflow

import (
	"errors"
	"testing"

	"github.com/volunteer-hours-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name    string
		current models.Status
		action  Action
		want    models.Status
		wantErr error
	}{
		{"approve pending", models.StatusPending, ActionApprove, models.StatusApproved, nil},
		{"reject pending", models.StatusPending, ActionReject, models.StatusRejected, nil},
		{"approve approved", models.StatusApproved, ActionApprove, models.StatusApproved, ErrInvalidTransition},
		{"reject approved", models.StatusApproved, ActionReject, models.StatusApproved, ErrInvalidTransition},
		{"approve rejected", models.StatusRejected, ActionApprove, models.StatusRejected, ErrInvalidTransition},
		{"reject rejected", models.StatusRejected, ActionReject, models.StatusRejected, ErrInvalidTransition},
		{"unknown action", models.StatusPending, Action("archive"), models.StatusPending, ErrUnknownAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decide(tt.current, tt.action)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecide_ResultIsAlwaysTerminal(t *testing.T) {
	for _, action := range []Action{ActionApprove, ActionReject} {
		got, err := Decide(InitialStatus, action)
		require.NoError(t, err)
		assert.True(t, got.Terminal())
	}
}

func TestActionFor(t *testing.T) {
	a, err := ActionFor(models.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, ActionApprove, a)

	a, err = ActionFor(models.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, ActionReject, a)

	_, err = ActionFor(models.StatusPending)
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestDiff(t *testing.T) {
	base := models.EditableFields{
		Title:         "Beach cleanup",
		Description:   "Pick up litter",
		ExpectedHours: 4,
		Location:      "Ocean Beach",
		Date:          "2026-05-01",
		ThumbnailURL:  "https://cdn.example.com/project-thumbnails/u1/1.png",
	}

	assert.Empty(t, Diff(base, base))

	moved := base
	moved.Location = "Baker Beach"
	assert.Equal(t, []string{FieldLocation}, Diff(base, moved))

	noThumb := base
	noThumb.ThumbnailURL = ""
	assert.Equal(t, []string{FieldThumbnail}, Diff(base, noThumb))
	assert.Equal(t, []string{FieldThumbnail}, Diff(noThumb, base))

	all := models.EditableFields{Title: "a", Description: "b", ExpectedHours: 1, Location: "c", Date: "2026-01-01"}
	assert.Len(t, Diff(base, all), 6)
}

func TestApply(t *testing.T) {
	p := &models.Project{ID: "p1", Title: "old", Status: models.StatusApproved, CreatedBy: "u1"}
	fields := models.EditableFields{Title: "T", Description: "D", ExpectedHours: 7, Location: "L", Date: "2026-06-01"}

	Apply(p, fields)

	assert.Equal(t, fields, p.Editable())
	assert.Equal(t, models.StatusApproved, p.Status)
	assert.Equal(t, "u1", p.CreatedBy)
}
