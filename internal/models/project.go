package models

import (
	"time"
)

// Project is a service opportunity listing
type Project struct {
	ID            string    `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	Description   string    `json:"description" db:"description"`
	ExpectedHours int       `json:"expected_hours" db:"expected_hours"`
	Location      string    `json:"location" db:"location"`
	Date          string    `json:"date" db:"date"`
	ThumbnailURL  string    `json:"thumbnail_url,omitempty" db:"thumbnail_url"`
	Status        Status    `json:"status" db:"status"`
	CreatedBy     string    `json:"created_by" db:"created_by"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`

	// Creator is populated by joins for display
	Creator *ProfileSummary `json:"profiles,omitempty" db:"-"`
}

// ProfileSummary is the display subset of a profile embedded in listings
type ProfileSummary struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// EditableFields are the project fields an edit request may replace
type EditableFields struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	ExpectedHours int    `json:"expected_hours"`
	Location      string `json:"location"`
	Date          string `json:"date"`
	ThumbnailURL  string `json:"thumbnail_url,omitempty"`
}

// Editable returns the project's current editable fields
func (p *Project) Editable() EditableFields {
	return EditableFields{
		Title:         p.Title,
		Description:   p.Description,
		ExpectedHours: p.ExpectedHours,
		Location:      p.Location,
		Date:          p.Date,
		ThumbnailURL:  p.ThumbnailURL,
	}
}

// CreateProjectRequest is the body of POST /v1/projects
type CreateProjectRequest struct {
	EditableFields
}

// ProjectSignup links a profile to an approved project. Existence is the state.
type ProjectSignup struct {
	ID        string    `json:"id" db:"id"`
	ProjectID string    `json:"project_id" db:"project_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
