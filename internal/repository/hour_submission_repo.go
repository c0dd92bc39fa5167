package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/volunteer-hours-api/internal/database"
	"github.com/volunteer-hours-api/internal/models"
)

const hourSubmissionColumns = `
	h.id, h.project_id, h.user_id, h.hours_completed, h.description, h.status,
	h.submitted_at, h.reviewed_at, h.reviewed_by, p.title
`

// hourSubmissionRepo is the concrete implementation of HourSubmissionRepository
type hourSubmissionRepo struct {
	db database.Querier
}

// NewHourSubmissionRepo creates a new hour submission repository
func NewHourSubmissionRepo(db database.Querier) HourSubmissionRepository {
	return &hourSubmissionRepo{db: db}
}

// Create inserts a new hour submission
func (r *hourSubmissionRepo) Create(ctx context.Context, s *models.HourSubmission) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	s.SubmittedAt = time.Now()

	query := `
		INSERT INTO hour_submissions (id, project_id, user_id, hours_completed, description, status, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.ProjectID, s.UserID, s.HoursCompleted, s.Description, s.Status, s.SubmittedAt,
	)
	return mapError(err)
}

// GetByID retrieves an hour submission by ID
func (r *hourSubmissionRepo) GetByID(ctx context.Context, id string) (*models.HourSubmission, error) {
	query := `SELECT ` + hourSubmissionColumns + `
		FROM hour_submissions h JOIN projects p ON p.id = h.project_id
		WHERE h.id = $1`

	s, err := scanHourSubmission(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListByUser returns a user's submissions, newest first
func (r *hourSubmissionRepo) ListByUser(ctx context.Context, userID string) ([]*models.HourSubmission, error) {
	return r.list(ctx, `WHERE h.user_id = $1 ORDER BY h.submitted_at DESC`, userID)
}

// ListPending returns submissions awaiting review, newest first
func (r *hourSubmissionRepo) ListPending(ctx context.Context) ([]*models.HourSubmission, error) {
	return r.list(ctx, `WHERE h.status = 'pending' ORDER BY h.submitted_at DESC`)
}

func (r *hourSubmissionRepo) list(ctx context.Context, clause string, args ...any) ([]*models.HourSubmission, error) {
	query := `SELECT ` + hourSubmissionColumns + `
		FROM hour_submissions h JOIN projects p ON p.id = h.project_id ` + clause

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submissions []*models.HourSubmission
	for rows.Next() {
		s, err := scanHourSubmission(rows)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, s)
	}
	return submissions, rows.Err()
}

// Review records a decision on a submission that is still pending
func (r *hourSubmissionRepo) Review(ctx context.Context, id string, to models.Status, reviewerID string, at time.Time) (bool, error) {
	query := `
		UPDATE hour_submissions
		SET status = $1, reviewed_by = $2, reviewed_at = $3
		WHERE id = $4 AND status = 'pending'
	`
	return affected(r.db.ExecContext(ctx, query, to, reviewerID, at, id))
}

// SumByStatus totals a user's hours in the given status
func (r *hourSubmissionRepo) SumByStatus(ctx context.Context, userID string, status models.Status) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(hours_completed), 0) FROM hour_submissions WHERE user_id = $1 AND status = $2`,
		userID, status,
	).Scan(&total)
	return total, err
}

// StreamApprovedTotals calls callback once per profile with its approved hour totals
func (r *hourSubmissionRepo) StreamApprovedTotals(ctx context.Context, callback func(*models.VolunteerHours) error) error {
	query := `
		SELECT pr.id, pr.email, pr.full_name,
			COALESCE(SUM(h.hours_completed), 0), COUNT(h.id)
		FROM profiles pr
		LEFT JOIN hour_submissions h ON h.user_id = pr.id AND h.status = 'approved'
		GROUP BY pr.id, pr.email, pr.full_name
		ORDER BY pr.full_name ASC, pr.email ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var v models.VolunteerHours
		if err := rows.Scan(&v.UserID, &v.Email, &v.FullName, &v.ApprovedHours, &v.Submissions); err != nil {
			return err
		}
		if err := callback(&v); err != nil {
			return err
		}
	}
	return rows.Err()
}

func scanHourSubmission(row rowScanner) (*models.HourSubmission, error) {
	var s models.HourSubmission
	var reviewedAt sql.NullTime
	var reviewedBy sql.NullString

	err := row.Scan(
		&s.ID, &s.ProjectID, &s.UserID, &s.HoursCompleted, &s.Description, &s.Status,
		&s.SubmittedAt, &reviewedAt, &reviewedBy, &s.ProjectTitle,
	)
	if err != nil {
		return nil, err
	}
	if reviewedAt.Valid {
		s.ReviewedAt = &reviewedAt.Time
	}
	s.ReviewedBy = reviewedBy.String
	return &s, nil
}

// CountByStatus returns the number of rows in status
func (r *hourSubmissionRepo) CountByStatus(ctx context.Context, status models.Status) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM hour_submissions WHERE status = $1", status).Scan(&count)
	return count, err
}
