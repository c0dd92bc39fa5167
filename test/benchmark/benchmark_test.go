package benchmark

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/volunteer-hours-api/internal/config"
	"github.com/volunteer-hours-api/internal/mocks"
	"github.com/volunteer-hours-api/internal/models"
	"github.com/volunteer-hours-api/internal/service"
	"github.com/volunteer-hours-api/internal/validation"
	"github.com/volunteer-hours-api/internal/workflow"
)

func fields() models.EditableFields {
	return models.EditableFields{
		Title:         "Beach Cleanup",
		Description:   "Pick up litter along the shoreline",
		ExpectedHours: 4,
		Location:      "Ocean Beach",
		Date:          "2026-06-01",
	}
}

// seed builds a store with users volunteers, each holding perUser approved submissions
func seed(b *testing.B, users, perUser int) (*service.Services, string) {
	b.Helper()
	ctx := context.Background()
	store := mocks.NewStore()

	admin := &models.Profile{ID: "00000000-0000-0000-0000-000000000001", Email: "admin@test.com", FullName: "Admin", Role: models.RoleAdmin}
	store.Profiles.Seed(admin)

	project := &models.Project{Status: models.StatusApproved, CreatedBy: admin.ID}
	workflow.Apply(project, fields())
	if err := store.Projects.Create(ctx, project); err != nil {
		b.Fatal(err)
	}

	for i := 0; i < users; i++ {
		p := &models.Profile{
			ID:       fmt.Sprintf("00000000-0000-0000-0001-%012d", i),
			Email:    fmt.Sprintf("user%06d@test.com", i),
			FullName: fmt.Sprintf("Volunteer %06d", i),
			Role:     models.RoleUser,
		}
		store.Profiles.Seed(p)
		for j := 0; j < perUser; j++ {
			h := &models.HourSubmission{ProjectID: project.ID, UserID: p.ID, HoursCompleted: 3, Status: models.StatusApproved}
			if err := store.Hours.Create(ctx, h); err != nil {
				b.Fatal(err)
			}
		}
	}

	cfg := &config.Config{Hours: config.HoursConfig{GoalHours: 80}, Provisioning: config.ProvisioningConfig{MaxTries: 1}}
	svc := service.NewServices(store.Repositories(), mocks.NewMockIdentityProvider(), mocks.NewMockBlobStore(), cfg, zerolog.Nop())
	return svc, admin.ID
}

// BenchmarkValidateProject benchmarks project field validation
func BenchmarkValidateProject(b *testing.B) {
	f := fields()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		validation.ValidateProject(&f)
	}
}

// BenchmarkValidateHourSubmission benchmarks hour claim validation
func BenchmarkValidateHourSubmission(b *testing.B) {
	req := &models.SubmitHoursRequest{
		ProjectID:      "550e8400-e29b-41d4-a716-446655440000",
		HoursCompleted: 6,
		Description:    "Sorted donations",
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		validation.ValidateHourSubmission(req)
	}
}

// BenchmarkDiff benchmarks edit request change detection
func BenchmarkDiff(b *testing.B) {
	current := fields()
	proposed := fields()
	proposed.Title = "Dune Restoration"
	proposed.ExpectedHours = 6

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		workflow.Diff(current, proposed)
	}
}

// BenchmarkDecide benchmarks the moderation transition table
func BenchmarkDecide(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := workflow.Decide(models.StatusPending, workflow.ActionApprove); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkHoursSummary benchmarks progress derivation over a volunteer's history
func BenchmarkHoursSummary(b *testing.B) {
	svc, _ := seed(b, 1, 200)
	ctx := context.Background()
	userID := "00000000-0000-0000-0001-000000000000"

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := svc.Hours.Summary(ctx, userID); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkStreamVolunteerHours benchmarks the approved-hours report in both formats
func BenchmarkStreamVolunteerHours(b *testing.B) {
	svc, adminID := seed(b, 1000, 2)
	ctx := context.Background()

	for _, format := range []string{"csv", "ndjson"} {
		b.Run(format, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				w := httptest.NewRecorder()
				if err := svc.Report.StreamVolunteerHours(ctx, adminID, w, format); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
