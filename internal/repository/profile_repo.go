package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/volunteer-hours-api/internal/database"
	"github.com/volunteer-hours-api/internal/models"
)

// adminRoleLockKey is the advisory lock id guarding admin bootstrap
const adminRoleLockKey = 7_310_001

// profileRepo is the concrete implementation of ProfileRepository
type profileRepo struct {
	db database.Querier
}

// NewProfileRepo creates a new profile repository
func NewProfileRepo(db database.Querier) ProfileRepository {
	return &profileRepo{db: db}
}

// Create inserts a new profile
func (r *profileRepo) Create(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (id, email, full_name, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	now := time.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, query,
		profile.ID, profile.Email, profile.FullName, profile.Role,
		profile.CreatedAt, profile.UpdatedAt,
	)
	return mapError(err)
}

// GetByID retrieves a profile by ID
func (r *profileRepo) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	query := `SELECT id, email, full_name, role, created_at, updated_at FROM profiles WHERE id = $1`

	var p models.Profile
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Email, &p.FullName, &p.Role, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns every profile, newest first
func (r *profileRepo) List(ctx context.Context) ([]*models.Profile, error) {
	query := `SELECT id, email, full_name, role, created_at, updated_at FROM profiles ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.Email, &p.FullName, &p.Role, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		profiles = append(profiles, &p)
	}
	return profiles, rows.Err()
}

// Count returns the number of profiles
func (r *profileRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM profiles").Scan(&count)
	return count, err
}

// CountAdmins returns the number of profiles holding the admin role
func (r *profileRepo) CountAdmins(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM profiles WHERE role = 'admin'").Scan(&count)
	return count, err
}

// SetRole changes a profile's role
func (r *profileRepo) SetRole(ctx context.Context, id string, role models.Role) (bool, error) {
	return affected(r.db.ExecContext(ctx,
		`UPDATE profiles SET role = $1, updated_at = $2 WHERE id = $3`,
		role, time.Now(), id,
	))
}

// LockAdminRole takes a transaction-scoped advisory lock
func (r *profileRepo) LockAdminRole(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", adminRoleLockKey)
	return err
}
