package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/volunteer-hours-api/internal/database"
	"github.com/volunteer-hours-api/internal/models"
)

// ProfileRepository defines the interface for profile data operations
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	List(ctx context.Context) ([]*models.Profile, error)
	Count(ctx context.Context) (int, error)
	CountAdmins(ctx context.Context) (int, error)
	SetRole(ctx context.Context, id string, role models.Role) (bool, error)
	// LockAdminRole serialises admin bootstrap decisions until the surrounding transaction ends
	LockAdminRole(ctx context.Context) error
}

// ProjectRepository defines the interface for project data operations
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id string) (*models.Project, error)
	// ListApproved returns approved projects, optionally filtered by a case-insensitive search term
	ListApproved(ctx context.Context, search string) ([]*models.Project, error)
	ListPending(ctx context.Context) ([]*models.Project, error)
	ListByCreator(ctx context.Context, userID string) ([]*models.Project, error)
	ListJoinedBy(ctx context.Context, userID string) ([]*models.Project, error)
	UpdateStatus(ctx context.Context, id string, from, to models.Status) (bool, error)
	UpdateFields(ctx context.Context, id string, fields models.EditableFields) (bool, error)
	Delete(ctx context.Context, id, createdBy string) (bool, error)
	CountByStatus(ctx context.Context, status models.Status) (int, error)
}

// SignupRepository defines the interface for project signup data operations
type SignupRepository interface {
	Create(ctx context.Context, signup *models.ProjectSignup) error
	Delete(ctx context.Context, projectID, userID string) (bool, error)
	Exists(ctx context.Context, projectID, userID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]*models.ProjectSignup, error)
}

// HourSubmissionRepository defines the interface for hour submission data operations
type HourSubmissionRepository interface {
	Create(ctx context.Context, submission *models.HourSubmission) error
	GetByID(ctx context.Context, id string) (*models.HourSubmission, error)
	ListByUser(ctx context.Context, userID string) ([]*models.HourSubmission, error)
	ListPending(ctx context.Context) ([]*models.HourSubmission, error)
	Review(ctx context.Context, id string, to models.Status, reviewerID string, at time.Time) (bool, error)
	SumByStatus(ctx context.Context, userID string, status models.Status) (int, error)
	StreamApprovedTotals(ctx context.Context, callback func(*models.VolunteerHours) error) error
	CountByStatus(ctx context.Context, status models.Status) (int, error)
}

// EditRequestRepository defines the interface for project edit request data operations
type EditRequestRepository interface {
	Create(ctx context.Context, req *models.ProjectEditRequest) error
	GetByID(ctx context.Context, id string) (*models.ProjectEditRequest, error)
	ListPending(ctx context.Context) ([]*models.ProjectEditRequest, error)
	ListByUser(ctx context.Context, userID string) ([]*models.ProjectEditRequest, error)
	Review(ctx context.Context, id string, to models.Status, reviewerID, notes string, at time.Time) (bool, error)
	CountByStatus(ctx context.Context, status models.Status) (int, error)
}

// TxRunner runs fn against repositories bound to a single transaction
type TxRunner func(ctx context.Context, fn func(*Repositories) error) error

// Repositories holds all repository interfaces
type Repositories struct {
	Profile     ProfileRepository
	Project     ProjectRepository
	Signup      SignupRepository
	Hours       HourSubmissionRepository
	EditRequest EditRequestRepository

	Tx TxRunner
}

// WithTx runs fn so that all of its writes commit together or not at all
func (r *Repositories) WithTx(ctx context.Context, fn func(*Repositories) error) error {
	if r.Tx == nil {
		return fn(r)
	}
	return r.Tx(ctx, fn)
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	repos := bind(db)
	repos.Tx = func(ctx context.Context, fn func(*Repositories) error) error {
		return db.WithTx(ctx, func(tx *sql.Tx) error {
			return fn(bind(tx))
		})
	}
	return repos
}

func bind(q database.Querier) *Repositories {
	return &Repositories{
		Profile:     NewProfileRepo(q),
		Project:     NewProjectRepo(q),
		Signup:      NewSignupRepo(q),
		Hours:       NewHourSubmissionRepo(q),
		EditRequest: NewEditRequestRepo(q),
	}
}
