package models

import (
	"time"
)

// HourSubmission is a claim of hours worked on a joined project, pending admin credit
type HourSubmission struct {
	ID             string     `json:"id" db:"id"`
	ProjectID      string     `json:"project_id" db:"project_id"`
	UserID         string     `json:"user_id" db:"user_id"`
	HoursCompleted int        `json:"hours_completed" db:"hours_completed"`
	Description    string     `json:"description" db:"description"`
	Status         Status     `json:"status" db:"status"`
	SubmittedAt    time.Time  `json:"submitted_at" db:"submitted_at"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty" db:"reviewed_at"`
	ReviewedBy     string     `json:"reviewed_by,omitempty" db:"reviewed_by"`

	// ProjectTitle is populated by joins for display
	ProjectTitle string `json:"project_title,omitempty" db:"-"`
}

// SubmitHoursRequest is the body of POST /v1/hours
type SubmitHoursRequest struct {
	ProjectID      string `json:"project_id"`
	HoursCompleted int    `json:"hours_completed"`
	Description    string `json:"description"`
}

// HoursSummary is a volunteer's progress toward the service goal
type HoursSummary struct {
	ApprovedHours int     `json:"approved_hours"`
	PendingHours  int     `json:"pending_hours"`
	GoalHours     int     `json:"goal_hours"`
	Progress      float64 `json:"progress_percentage"`
	Completed     bool    `json:"completed"`
}

// VolunteerHours is one row of the approved-hours report
type VolunteerHours struct {
	UserID        string `json:"user_id"`
	Email         string `json:"email"`
	FullName      string `json:"full_name"`
	ApprovedHours int    `json:"approved_hours"`
	Submissions   int    `json:"submissions"`
}

// ReviewRequest is the body of the admin review endpoints
type ReviewRequest struct {
	Status Status `json:"status"`
	Notes  string `json:"admin_notes,omitempty"`
}

// PendingQueue is everything awaiting an admin decision
type PendingQueue struct {
	Projects     []*Project            `json:"projects"`
	Hours        []*HourSubmission     `json:"hours"`
	EditRequests []*ProjectEditRequest `json:"edit_requests"`
}

// Metrics are store-wide counts served on /metrics
type Metrics struct {
	Profiles            int `json:"profiles"`
	Admins              int `json:"admins"`
	PendingProjects     int `json:"pending_projects"`
	ApprovedProjects    int `json:"approved_projects"`
	PendingHours        int `json:"pending_hours"`
	PendingEditRequests int `json:"pending_edit_requests"`
}
