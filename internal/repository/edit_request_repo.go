package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/volunteer-hours-api/internal/database"
	"github.com/volunteer-hours-api/internal/models"
)

const editRequestColumns = `
	e.id, e.project_id, e.user_id, e.title, e.description, e.expected_hours, e.location, e.date,
	e.thumbnail_url, e.status, e.admin_notes, e.reviewed_by, e.reviewed_at, e.created_at, e.updated_at,
	p.title
`

// editRequestRepo is the concrete implementation of EditRequestRepository
type editRequestRepo struct {
	db database.Querier
}

// NewEditRequestRepo creates a new edit request repository
func NewEditRequestRepo(db database.Querier) EditRequestRepository {
	return &editRequestRepo{db: db}
}

// Create inserts a new edit request
func (r *editRequestRepo) Create(ctx context.Context, req *models.ProjectEditRequest) error {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	now := time.Now()
	req.CreatedAt = now
	req.UpdatedAt = now

	query := `
		INSERT INTO project_edit_requests (id, project_id, user_id, title, description, expected_hours,
			location, date, thumbnail_url, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		req.ID, req.ProjectID, req.UserID, req.Title, req.Description, req.ExpectedHours,
		req.Location, req.Date, nullString(req.ThumbnailURL), req.Status, req.CreatedAt, req.UpdatedAt,
	)
	return mapError(err)
}

// GetByID retrieves an edit request by ID
func (r *editRequestRepo) GetByID(ctx context.Context, id string) (*models.ProjectEditRequest, error) {
	query := `SELECT ` + editRequestColumns + `
		FROM project_edit_requests e JOIN projects p ON p.id = e.project_id
		WHERE e.id = $1`

	req, err := scanEditRequest(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

// ListPending returns edit requests awaiting review, newest first
func (r *editRequestRepo) ListPending(ctx context.Context) ([]*models.ProjectEditRequest, error) {
	return r.list(ctx, `WHERE e.status = 'pending' ORDER BY e.created_at DESC`)
}

// ListByUser returns a user's edit requests, newest first
func (r *editRequestRepo) ListByUser(ctx context.Context, userID string) ([]*models.ProjectEditRequest, error) {
	return r.list(ctx, `WHERE e.user_id = $1 ORDER BY e.created_at DESC`, userID)
}

func (r *editRequestRepo) list(ctx context.Context, clause string, args ...any) ([]*models.ProjectEditRequest, error) {
	query := `SELECT ` + editRequestColumns + `
		FROM project_edit_requests e JOIN projects p ON p.id = e.project_id ` + clause

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*models.ProjectEditRequest
	for rows.Next() {
		req, err := scanEditRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// Review records a decision on an edit request that is still pending
func (r *editRequestRepo) Review(ctx context.Context, id string, to models.Status, reviewerID, notes string, at time.Time) (bool, error) {
	query := `
		UPDATE project_edit_requests
		SET status = $1, reviewed_by = $2, admin_notes = $3, reviewed_at = $4, updated_at = $4
		WHERE id = $5 AND status = 'pending'
	`
	return affected(r.db.ExecContext(ctx, query, to, reviewerID, nullString(notes), at, id))
}

func scanEditRequest(row rowScanner) (*models.ProjectEditRequest, error) {
	var req models.ProjectEditRequest
	var date time.Time
	var thumbnail, notes, reviewedBy sql.NullString
	var reviewedAt sql.NullTime

	err := row.Scan(
		&req.ID, &req.ProjectID, &req.UserID, &req.Title, &req.Description, &req.ExpectedHours,
		&req.Location, &date, &thumbnail, &req.Status, &notes, &reviewedBy, &reviewedAt,
		&req.CreatedAt, &req.UpdatedAt, &req.ProjectTitle,
	)
	if err != nil {
		return nil, err
	}
	req.Date = formatDate(date)
	req.ThumbnailURL = thumbnail.String
	req.AdminNotes = notes.String
	req.ReviewedBy = reviewedBy.String
	if reviewedAt.Valid {
		req.ReviewedAt = &reviewedAt.Time
	}
	return &req, nil
}

// CountByStatus returns the number of rows in status
func (r *editRequestRepo) CountByStatus(ctx context.Context, status models.Status) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM project_edit_requests WHERE status = $1", status).Scan(&count)
	return count, err
}
