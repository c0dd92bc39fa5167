package models

import (
	"time"
)

// Profile is an application user's record, distinct from the identity held by the auth provider
type Profile struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	FullName  string    `json:"full_name" db:"full_name"`
	Role      Role      `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// TotalHours is the sum of approved hour submissions, computed at read time
	TotalHours int `json:"total_hours" db:"-"`
}

// IsAdmin reports whether the profile holds the admin role
func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// Identity is the authenticated principal returned by the identity provider
type Identity struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
}

// Session is an authenticated identity plus its bearer token
type Session struct {
	Identity
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
}

// SignUpRequest is the body of POST /v1/auth/signup
type SignUpRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FullName  string `json:"full_name"`
	MakeAdmin bool   `json:"make_admin"`
}

// SignInRequest is the body of POST /v1/auth/signin
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUpResult reports the outcome of a sign-up, including whether bootstrap promotion happened
type SignUpResult struct {
	Session  *Session `json:"session"`
	Profile  *Profile `json:"profile"`
	Promoted bool     `json:"promoted"`
}
