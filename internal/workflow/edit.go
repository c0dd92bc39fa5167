package workflow

import (
	"github.com/volunteer-hours-api/internal/models"
)

// Field names reported by Diff
const (
	FieldTitle         = "title"
	FieldDescription   = "description"
	FieldExpectedHours = "expected_hours"
	FieldLocation      = "location"
	FieldDate          = "date"
	FieldThumbnail     = "thumbnail_url"
)

// Diff lists the editable fields whose proposed value differs from current.
// An empty result means the edit is a no-op.
func Diff(current, proposed models.EditableFields) []string {
	var changed []string
	if current.Title != proposed.Title {
		changed = append(changed, FieldTitle)
	}
	if current.Description != proposed.Description {
		changed = append(changed, FieldDescription)
	}
	if current.ExpectedHours != proposed.ExpectedHours {
		changed = append(changed, FieldExpectedHours)
	}
	if current.Location != proposed.Location {
		changed = append(changed, FieldLocation)
	}
	if current.Date != proposed.Date {
		changed = append(changed, FieldDate)
	}
	// covers present->absent, absent->present and replacement
	if current.ThumbnailURL != proposed.ThumbnailURL {
		changed = append(changed, FieldThumbnail)
	}
	return changed
}

// Apply overwrites the project's editable fields with fields
func Apply(project *models.Project, fields models.EditableFields) {
	project.Title = fields.Title
	project.Description = fields.Description
	project.ExpectedHours = fields.ExpectedHours
	project.Location = fields.Location
	project.Date = fields.Date
	project.ThumbnailURL = fields.ThumbnailURL
}
