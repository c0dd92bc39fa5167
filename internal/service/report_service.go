package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/volunteer-hours-api/internal/models"
	"github.com/volunteer-hours-api/internal/repository"
)

// reportService is the concrete implementation of ReportService
type reportService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// newReportService creates a new ReportService
func newReportService(repos *repository.Repositories, log zerolog.Logger) *reportService {
	return &reportService{
		repos: repos,
		log:   log.With().Str("service", "report").Logger(),
	}
}

// Metrics counts profiles and the moderation backlog
func (s *reportService) Metrics(ctx context.Context) (*models.Metrics, error) {
	var m models.Metrics
	var err error

	if m.Profiles, err = s.repos.Profile.Count(ctx); err != nil {
		return nil, err
	}
	if m.Admins, err = s.repos.Profile.CountAdmins(ctx); err != nil {
		return nil, err
	}
	if m.PendingProjects, err = s.repos.Project.CountByStatus(ctx, models.StatusPending); err != nil {
		return nil, err
	}
	if m.ApprovedProjects, err = s.repos.Project.CountByStatus(ctx, models.StatusApproved); err != nil {
		return nil, err
	}
	if m.PendingHours, err = s.repos.Hours.CountByStatus(ctx, models.StatusPending); err != nil {
		return nil, err
	}
	if m.PendingEditRequests, err = s.repos.EditRequest.CountByStatus(ctx, models.StatusPending); err != nil {
		return nil, err
	}
	return &m, nil
}

// StreamVolunteerHours writes approved hour totals per volunteer in the requested format
func (s *reportService) StreamVolunteerHours(ctx context.Context, actorID string, w http.ResponseWriter, format string) error {
	if _, err := requireAdmin(ctx, s.repos.Profile, actorID); err != nil {
		return err
	}

	s.log.Info().Str("format", format).Str("actor_id", actorID).Msg("Starting volunteer hours report")

	switch format {
	case "", "csv":
		return s.streamCSV(ctx, w)
	case "ndjson":
		return s.streamNDJSON(ctx, w)
	default:
		return invalidField("format", "format must be csv or ndjson", format)
	}
}

func (s *reportService) streamNDJSON(ctx context.Context, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Content-Disposition", "attachment; filename=volunteer-hours.ndjson")

	flusher, _ := w.(http.Flusher)
	encoder := json.NewEncoder(w)
	count := 0

	err := s.repos.Hours.StreamApprovedTotals(ctx, func(v *models.VolunteerHours) error {
		if err := encoder.Encode(v); err != nil {
			return err
		}
		count++

		// Flush every 100 records for streaming
		if count%100 == 0 && flusher != nil {
			flusher.Flush()
		}
		return nil
	})

	s.log.Info().Int("count", count).Msg("Volunteer hours report completed")
	return err
}

func (s *reportService) streamCSV(ctx context.Context, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=volunteer-hours.csv")

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"user_id", "email", "full_name", "approved_hours", "submissions"}); err != nil {
		return err
	}

	count := 0
	err := s.repos.Hours.StreamApprovedTotals(ctx, func(v *models.VolunteerHours) error {
		count++
		return writer.Write([]string{
			v.UserID,
			v.Email,
			v.FullName,
			strconv.Itoa(v.ApprovedHours),
			strconv.Itoa(v.Submissions),
		})
	})

	s.log.Info().Int("count", count).Msg("Volunteer hours report completed")
	return err
}
