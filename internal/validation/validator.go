package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/volunteer-hours-api/internal/models"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// Limits enforced on submissions
const (
	MinExpectedHours  = 1
	MaxExpectedHours  = 99
	MinHoursCompleted = 1
	MaxHoursCompleted = 24
	MinPasswordLength = 6

	// DefaultMaxThumbnailBytes is the thumbnail size ceiling (5MB)
	DefaultMaxThumbnailBytes = 5 * 1024 * 1024
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateProject validates the editable fields of a project or edit request
func ValidateProject(fields *models.EditableFields) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(fields.Title) == "" {
		errors = append(errors, ValidationError{Field: "title", Message: "title is required"})
	}
	if strings.TrimSpace(fields.Description) == "" {
		errors = append(errors, ValidationError{Field: "description", Message: "description is required"})
	}
	if strings.TrimSpace(fields.Location) == "" {
		errors = append(errors, ValidationError{Field: "location", Message: "location is required"})
	}

	if fields.Date == "" {
		errors = append(errors, ValidationError{Field: "date", Message: "date is required"})
	} else if _, err := time.Parse(models.DateLayout, fields.Date); err != nil {
		errors = append(errors, ValidationError{Field: "date", Message: "date must be YYYY-MM-DD", Value: fields.Date})
	}

	if fields.ExpectedHours < MinExpectedHours || fields.ExpectedHours > MaxExpectedHours {
		errors = append(errors, ValidationError{
			Field:   "expected_hours",
			Message: fmt.Sprintf("expected_hours must be between %d and %d", MinExpectedHours, MaxExpectedHours),
			Value:   fields.ExpectedHours,
		})
	}

	return errors
}

// ValidateHourSubmission validates an hour submission before it is written
func ValidateHourSubmission(req *models.SubmitHoursRequest) []ValidationError {
	var errors []ValidationError

	if req.ProjectID == "" {
		errors = append(errors, ValidationError{Field: "project_id", Message: "project_id is required"})
	} else if !isValidUUID(req.ProjectID) {
		errors = append(errors, ValidationError{Field: "project_id", Message: "invalid UUID format", Value: req.ProjectID})
	}

	if req.HoursCompleted < MinHoursCompleted || req.HoursCompleted > MaxHoursCompleted {
		errors = append(errors, ValidationError{
			Field:   "hours_completed",
			Message: fmt.Sprintf("hours_completed must be between %d and %d", MinHoursCompleted, MaxHoursCompleted),
			Value:   req.HoursCompleted,
		})
	}

	if strings.TrimSpace(req.Description) == "" {
		errors = append(errors, ValidationError{Field: "description", Message: "description is required"})
	}

	return errors
}

// ValidateSignUp validates sign-up credentials
func ValidateSignUp(req *models.SignUpRequest) []ValidationError {
	errors := validateCredentials(req.Email, req.Password)
	if strings.TrimSpace(req.FullName) == "" {
		errors = append(errors, ValidationError{Field: "full_name", Message: "full_name is required"})
	}
	return errors
}

// ValidateSignIn validates sign-in credentials
func ValidateSignIn(req *models.SignInRequest) []ValidationError {
	return validateCredentials(req.Email, req.Password)
}

func validateCredentials(email, password string) []ValidationError {
	var errors []ValidationError

	if email == "" {
		errors = append(errors, ValidationError{Field: "email", Message: "email is required"})
	} else if !emailRegex.MatchString(email) {
		errors = append(errors, ValidationError{Field: "email", Message: "invalid email format", Value: email})
	}

	if len(password) < MinPasswordLength {
		errors = append(errors, ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("password must be at least %d characters", MinPasswordLength),
		})
	}

	return errors
}

// Thumbnail is an image that passed the upload gate
type Thumbnail struct {
	Content     []byte
	ContentType string
	Extension   string
}

// ValidateThumbnail checks size and sniffed content type before any upload happens
func ValidateThumbnail(content []byte, maxBytes int64) (*Thumbnail, []ValidationError) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxThumbnailBytes
	}

	if len(content) == 0 {
		return nil, []ValidationError{{Field: "thumbnail", Message: "thumbnail is empty"}}
	}
	if int64(len(content)) > maxBytes {
		return nil, []ValidationError{{
			Field:   "thumbnail",
			Message: fmt.Sprintf("image must be smaller than %dMB", maxBytes/(1024*1024)),
			Value:   len(content),
		}}
	}

	mime := mimetype.Detect(content)
	if !strings.HasPrefix(mime.String(), "image/") {
		return nil, []ValidationError{{Field: "thumbnail", Message: "please select an image file", Value: mime.String()}}
	}

	return &Thumbnail{
		Content:     content,
		ContentType: mime.String(),
		Extension:   mime.Extension(),
	}, nil
}

// isValidUUID checks if a string is a valid UUID
func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
