package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volunteer-hours-api/internal/database"
	"github.com/volunteer-hours-api/internal/models"
)

// signupRepo is the concrete implementation of SignupRepository
type signupRepo struct {
	db database.Querier
}

// NewSignupRepo creates a new signup repository
func NewSignupRepo(db database.Querier) SignupRepository {
	return &signupRepo{db: db}
}

// Create inserts a signup; a second signup for the same pair returns ErrDuplicate
func (r *signupRepo) Create(ctx context.Context, signup *models.ProjectSignup) error {
	if signup.ID == "" {
		signup.ID = uuid.New().String()
	}
	signup.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO project_signups (id, project_id, user_id, created_at) VALUES ($1, $2, $3, $4)`,
		signup.ID, signup.ProjectID, signup.UserID, signup.CreatedAt,
	)
	return mapError(err)
}

// Delete removes the signup for the pair
func (r *signupRepo) Delete(ctx context.Context, projectID, userID string) (bool, error) {
	return affected(r.db.ExecContext(ctx,
		`DELETE FROM project_signups WHERE project_id = $1 AND user_id = $2`, projectID, userID,
	))
}

// Exists checks whether the user has joined the project
func (r *signupRepo) Exists(ctx context.Context, projectID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM project_signups WHERE project_id = $1 AND user_id = $2)",
		projectID, userID,
	).Scan(&exists)
	return exists, err
}

// ListByUser returns a user's signups, newest first
func (r *signupRepo) ListByUser(ctx context.Context, userID string) ([]*models.ProjectSignup, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, project_id, user_id, created_at FROM project_signups WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var signups []*models.ProjectSignup
	for rows.Next() {
		var s models.ProjectSignup
		if err := rows.Scan(&s.ID, &s.ProjectID, &s.UserID, &s.CreatedAt); err != nil {
			return nil, err
		}
		signups = append(signups, &s)
	}
	return signups, rows.Err()
}
