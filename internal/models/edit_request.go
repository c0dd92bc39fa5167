package models

import (
	"time"
)

// ProjectEditRequest proposes replacement values for a project's editable fields
type ProjectEditRequest struct {
	ID        string `json:"id" db:"id"`
	ProjectID string `json:"project_id" db:"project_id"`
	UserID    string `json:"user_id" db:"user_id"`
	EditableFields
	Status     Status     `json:"status" db:"status"`
	AdminNotes string     `json:"admin_notes,omitempty" db:"admin_notes"`
	ReviewedBy string     `json:"reviewed_by,omitempty" db:"reviewed_by"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty" db:"reviewed_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`

	// ProjectTitle is populated by joins for display
	ProjectTitle string `json:"project_title,omitempty" db:"-"`
}

// Proposed returns the field values the request would apply
func (r *ProjectEditRequest) Proposed() EditableFields {
	return r.EditableFields
}

// EditProjectRequest is the body of POST /v1/projects/:id/edit-requests
type EditProjectRequest struct {
	EditableFields
	// RemoveThumbnail clears the current thumbnail when no new one is supplied
	RemoveThumbnail bool `json:"remove_thumbnail,omitempty"`
}
