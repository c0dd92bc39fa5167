package service

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/volunteer-hours-api/internal/config"
	"github.com/volunteer-hours-api/internal/identity"
	"github.com/volunteer-hours-api/internal/models"
	"github.com/volunteer-hours-api/internal/repository"
	"github.com/volunteer-hours-api/internal/storage"
)

// AuthService defines the interface for sign-up, sign-in and request authentication
type AuthService interface {
	SignUp(ctx context.Context, req *models.SignUpRequest) (*models.SignUpResult, error)
	SignIn(ctx context.Context, req *models.SignInRequest) (*models.Session, error)
	// Authenticate resolves a bearer token to the caller's profile, creating it on first use
	Authenticate(ctx context.Context, accessToken string) (*models.Profile, error)
}

// ProfileService defines the interface for profile and admin-role operations
type ProfileService interface {
	EnsureProfile(ctx context.Context, identity *models.Identity) (*models.Profile, error)
	WaitForProfile(ctx context.Context, id string) (*models.Profile, error)
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	CanSelfPromote(ctx context.Context) (bool, error)
	PromoteToAdmin(ctx context.Context, actorID, targetID string) (*models.Profile, error)
	ListProfiles(ctx context.Context, actorID string) ([]*models.Profile, error)
}

// ProjectService defines the interface for project listing and ownership operations
type ProjectService interface {
	Create(ctx context.Context, actorID string, req *models.CreateProjectRequest) (*models.Project, error)
	ListApproved(ctx context.Context, search string) ([]*models.Project, error)
	ListMine(ctx context.Context, actorID string) ([]*models.Project, error)
	ListJoined(ctx context.Context, actorID string) ([]*models.Project, error)
	Delete(ctx context.Context, actorID, projectID string) error
	UploadThumbnail(ctx context.Context, actorID string, content []byte) (string, error)
}

// SignupService defines the interface for joining and leaving projects
type SignupService interface {
	Join(ctx context.Context, actorID, projectID string) (*models.ProjectSignup, error)
	Withdraw(ctx context.Context, actorID, projectID string) error
	ListMine(ctx context.Context, actorID string) ([]*models.ProjectSignup, error)
}

// HoursService defines the interface for hour submissions
type HoursService interface {
	Submit(ctx context.Context, actorID string, req *models.SubmitHoursRequest) (*models.HourSubmission, error)
	ListMine(ctx context.Context, actorID string) ([]*models.HourSubmission, error)
	Summary(ctx context.Context, actorID string) (*models.HoursSummary, error)
}

// EditRequestService defines the interface for proposing project edits
type EditRequestService interface {
	Submit(ctx context.Context, actorID, projectID string, req *models.EditProjectRequest) (*models.ProjectEditRequest, error)
	ListMine(ctx context.Context, actorID string) ([]*models.ProjectEditRequest, error)
}

// ModerationService defines the interface for admin review of pending entities
type ModerationService interface {
	Pending(ctx context.Context, actorID string) (*models.PendingQueue, error)
	ReviewProject(ctx context.Context, actorID, projectID string, review *models.ReviewRequest) (*models.Project, error)
	ReviewHours(ctx context.Context, actorID, submissionID string, review *models.ReviewRequest) (*models.HourSubmission, error)
	ReviewEdit(ctx context.Context, actorID, requestID string, review *models.ReviewRequest) (*models.ProjectEditRequest, error)
}

// ReportService defines the interface for admin reports
type ReportService interface {
	StreamVolunteerHours(ctx context.Context, actorID string, w http.ResponseWriter, format string) error
	Metrics(ctx context.Context) (*models.Metrics, error)
}

// Services holds all service interfaces
type Services struct {
	Auth        AuthService
	Profile     ProfileService
	Project     ProjectService
	Signup      SignupService
	Hours       HoursService
	EditRequest EditRequestService
	Moderation  ModerationService
	Report      ReportService
}

// NewServices creates all services
func NewServices(
	repos *repository.Repositories,
	provider identity.Provider,
	blobs storage.BlobStore,
	cfg *config.Config,
	log zerolog.Logger,
) *Services {
	profileSvc := newProfileService(repos, cfg.Provisioning, log)
	projectSvc := newProjectService(repos, blobs, cfg.Storage.MaxThumbnailBytes, log)

	return &Services{
		Auth:        newAuthService(provider, profileSvc, cfg.Provisioning.External, log),
		Profile:     profileSvc,
		Project:     projectSvc,
		Signup:      newSignupService(repos, log),
		Hours:       newHoursService(repos, cfg.Hours.GoalHours, log),
		EditRequest: newEditRequestService(repos, blobs, log),
		Moderation:  newModerationService(repos, log),
		Report:      newReportService(repos, log),
	}
}

// requireAdmin loads the actor's profile and fails unless it holds the admin role
func requireAdmin(ctx context.Context, profiles repository.ProfileRepository, actorID string) (*models.Profile, error) {
	actor, err := profiles.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, ErrAuth
	}
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return actor, nil
}
