package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/masteryhouse/mastery-house-api/internal/models"
	"github.com/masteryhouse/mastery-house-api/internal/repository"
	"github.com/masteryhouse/mastery-house-api/internal/validation"
	apperrors "github.com/masteryhouse/mastery-house-api/pkg/errors"
	"github.com/masteryhouse/mastery-house-api/pkg/logger"
	"github.com/masteryhouse/mastery-house-api/pkg/metrics"
)

const (
	minChildAge = 6
	maxChildAge = 16
)

// EnrollmentService orchestrates enrollment form submissions: field
// validation, duplicate check, sanitization and persistence. Exactly one
// insert happens on success; no insert happens on any validation or conflict
// failure.
type EnrollmentService struct {
	repo repository.EnrollmentRepository
}

// NewEnrollmentService creates a new enrollment service instance.
func NewEnrollmentService(repo repository.EnrollmentRepository) *EnrollmentService {
	return &EnrollmentService{repo: repo}
}

// Submit runs the full submission pipeline for one enrollment request.
// clientID is the best-effort client identifier recorded with the document.
func (s *EnrollmentService) Submit(ctx context.Context, req *models.EnrollmentRequest, clientID string) (*models.SubmissionResponse, error) {
	if err := validateEnrollment(req); err != nil {
		metrics.FormSubmissions.WithLabelValues("enrollment", "invalid").Inc()
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		metrics.FormSubmissions.WithLabelValues("enrollment", "error").Inc()
		logger.Error("Failed to check for existing enrollment", zap.Error(err))
		return nil, apperrors.Internal("Failed to submit enrollment form. Please try again later.", err)
	}
	if exists {
		metrics.FormSubmissions.WithLabelValues("enrollment", "duplicate").Inc()
		return nil, apperrors.Conflict("An enrollment with this email already exists")
	}

	doc := buildEnrollment(req, email, clientID)

	id, err := s.repo.Insert(ctx, doc)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			// Two concurrent submissions can both pass the pre-check; the
			// unique index decides the winner.
			metrics.FormSubmissions.WithLabelValues("enrollment", "duplicate").Inc()
			return nil, apperrors.Conflict("An enrollment with this email already exists")
		}
		metrics.FormSubmissions.WithLabelValues("enrollment", "error").Inc()
		logger.Error("Failed to insert enrollment", zap.Error(err))
		return nil, apperrors.Internal("Failed to submit enrollment form. Please try again later.", err)
	}

	metrics.FormSubmissions.WithLabelValues("enrollment", "success").Inc()
	logger.Info("Enrollment submitted",
		zap.String("id", id),
		zap.String("age_band", doc.AgeBand),
	)

	return &models.SubmissionResponse{
		Success: true,
		Message: "Enrollment form submitted successfully",
		ID:      id,
	}, nil
}

// validateEnrollment runs the validators in their fixed order and returns the
// first failure, which becomes the client-visible message.
func validateEnrollment(req *models.EnrollmentRequest) error {
	fieldChecks := []error{
		validation.Name(req.FirstName, "First name"),
		validation.Name(req.LastName, "Last name"),
		validation.Email(req.Email),
		validation.Phone(req.Phone),
		validation.Name(req.ChildName, "Child name"),
	}
	for _, err := range fieldChecks {
		if err != nil {
			return apperrors.Invalid(err.Error())
		}
	}

	// Coarse presence check for the categorical selects. Values are not
	// checked against their declared enums here; the storage schema is the
	// only enum authority.
	if req.Country == "" || req.Timezone == "" || req.HowHeard == "" ||
		req.SchoolingStructure == "" || req.AgeBand == "" {
		return apperrors.Invalid("All required fields must be filled")
	}

	if req.ChildAge < minChildAge || req.ChildAge > maxChildAge {
		return apperrors.Invalid("Child age must be between 6 and 16")
	}

	if err := validation.MinLength(req.PromptInterest, "Please provide more details about your interest"); err != nil {
		return apperrors.Invalid(err.Error())
	}

	if len(req.FormationAreas) == 0 {
		return apperrors.Invalid("Please select at least one formation area")
	}

	if err := validation.MinLength(req.ChildTemperament, "Please provide more details about child temperament"); err != nil {
		return apperrors.Invalid(err.Error())
	}
	if err := validation.MinLength(req.ChildAt25, "Please provide more details about your vision for your child"); err != nil {
		return apperrors.Invalid(err.Error())
	}

	if req.ParentInvolvement == "" || req.StructuredEnvironment == "" ||
		req.FaithValues == "" || req.InvestmentReady == "" {
		return apperrors.Invalid("Please answer all commitment questions")
	}

	return nil
}

// buildEnrollment sanitizes every string field and assembles the document to
// persist. Email is lower-cased separately from sanitization.
func buildEnrollment(req *models.EnrollmentRequest, email, clientID string) *models.Enrollment {
	return &models.Enrollment{
		FirstName:             validation.Sanitize(req.FirstName),
		LastName:              validation.Sanitize(req.LastName),
		Email:                 email,
		Phone:                 validation.Sanitize(req.Phone),
		Country:               validation.Sanitize(req.Country),
		Timezone:              validation.Sanitize(req.Timezone),
		HowHeard:              validation.Sanitize(req.HowHeard),
		HowHeardOther:         optional(req.HowHeardOther),
		ChildName:             validation.Sanitize(req.ChildName),
		ChildAge:              int(req.ChildAge),
		SchoolingStructure:    validation.Sanitize(req.SchoolingStructure),
		AgeBand:               validation.Sanitize(req.AgeBand),
		PromptInterest:        validation.Sanitize(req.PromptInterest),
		FormationAreas:        validation.SanitizeAll(req.FormationAreas),
		ChildTemperament:      validation.Sanitize(req.ChildTemperament),
		ChildAt25:             validation.Sanitize(req.ChildAt25),
		ParentInvolvement:     validation.Sanitize(req.ParentInvolvement),
		StructuredEnvironment: validation.Sanitize(req.StructuredEnvironment),
		FaithValues:           validation.Sanitize(req.FaithValues),
		InvestmentReady:       validation.Sanitize(req.InvestmentReady),
		AdditionalInfo:        optional(req.AdditionalInfo),
		SubmittedAt:           time.Now().UTC(),
		IPAddress:             clientID,
		Status:                models.StatusPending,
	}
}

// optional sanitizes a value that is stored as null when absent.
func optional(value string) *string {
	if value == "" {
		return nil
	}
	s := validation.Sanitize(value)
	return &s
}
