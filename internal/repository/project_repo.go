package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/volunteer-hours-api/internal/database"
	"github.com/volunteer-hours-api/internal/models"
)

const projectColumns = `
	p.id, p.title, p.description, p.expected_hours, p.location, p.date, p.thumbnail_url,
	p.status, p.created_by, p.created_at, p.updated_at, pr.full_name, pr.email
`

// projectRepo is the concrete implementation of ProjectRepository
type projectRepo struct {
	db database.Querier
}

// NewProjectRepo creates a new project repository
func NewProjectRepo(db database.Querier) ProjectRepository {
	return &projectRepo{db: db}
}

// Create inserts a new project
func (r *projectRepo) Create(ctx context.Context, project *models.Project) error {
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now

	query := `
		INSERT INTO projects (id, title, description, expected_hours, location, date, thumbnail_url,
			status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		project.ID, project.Title, project.Description, project.ExpectedHours, project.Location,
		project.Date, nullString(project.ThumbnailURL), project.Status, project.CreatedBy,
		project.CreatedAt, project.UpdatedAt,
	)
	return mapError(err)
}

// GetByID retrieves a project by ID
func (r *projectRepo) GetByID(ctx context.Context, id string) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects p JOIN profiles pr ON pr.id = p.created_by WHERE p.id = $1`

	project, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return project, nil
}

// ListApproved returns approved projects ordered by date
func (r *projectRepo) ListApproved(ctx context.Context, search string) ([]*models.Project, error) {
	if search == "" {
		return r.list(ctx, `WHERE p.status = 'approved' ORDER BY p.date ASC`)
	}
	pattern := "%" + escapeLike(search) + "%"
	return r.list(ctx, `
		WHERE p.status = 'approved'
		  AND (p.title ILIKE $1 OR p.description ILIKE $1 OR p.location ILIKE $1)
		ORDER BY p.date ASC`, pattern)
}

// ListPending returns projects awaiting review, newest first
func (r *projectRepo) ListPending(ctx context.Context) ([]*models.Project, error) {
	return r.list(ctx, `WHERE p.status = 'pending' ORDER BY p.created_at DESC`)
}

// ListByCreator returns a user's own projects in any state, newest first
func (r *projectRepo) ListByCreator(ctx context.Context, userID string) ([]*models.Project, error) {
	return r.list(ctx, `WHERE p.created_by = $1 ORDER BY p.created_at DESC`, userID)
}

// ListJoinedBy returns the projects a user has signed up for
func (r *projectRepo) ListJoinedBy(ctx context.Context, userID string) ([]*models.Project, error) {
	return r.list(ctx, `
		JOIN project_signups s ON s.project_id = p.id
		WHERE s.user_id = $1
		ORDER BY s.created_at DESC`, userID)
}

func (r *projectRepo) list(ctx context.Context, clause string, args ...any) ([]*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects p JOIN profiles pr ON pr.id = p.created_by ` + clause
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

// UpdateStatus moves a project from one status to another, matching only if it is still in from
func (r *projectRepo) UpdateStatus(ctx context.Context, id string, from, to models.Status) (bool, error) {
	return affected(r.db.ExecContext(ctx,
		`UPDATE projects SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`,
		to, time.Now(), id, from,
	))
}

// UpdateFields overwrites the editable fields of a project
func (r *projectRepo) UpdateFields(ctx context.Context, id string, f models.EditableFields) (bool, error) {
	query := `
		UPDATE projects SET
			title = $1, description = $2, expected_hours = $3, location = $4, date = $5,
			thumbnail_url = $6, updated_at = $7
		WHERE id = $8
	`
	return affected(r.db.ExecContext(ctx, query,
		f.Title, f.Description, f.ExpectedHours, f.Location, f.Date,
		nullString(f.ThumbnailURL), time.Now(), id,
	))
}

// Delete removes a project owned by createdBy
func (r *projectRepo) Delete(ctx context.Context, id, createdBy string) (bool, error) {
	return affected(r.db.ExecContext(ctx,
		`DELETE FROM projects WHERE id = $1 AND created_by = $2`, id, createdBy,
	))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	var p models.Project
	var date time.Time
	var thumbnail sql.NullString
	var creator models.ProfileSummary

	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.ExpectedHours, &p.Location, &date, &thumbnail,
		&p.Status, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt, &creator.FullName, &creator.Email,
	)
	if err != nil {
		return nil, err
	}
	p.Date = formatDate(date)
	p.ThumbnailURL = thumbnail.String
	p.Creator = &creator
	return &p, nil
}

// CountByStatus returns the number of rows in status
func (r *projectRepo) CountByStatus(ctx context.Context, status models.Status) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM projects WHERE status = $1", status).Scan(&count)
	return count, err
}
