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

// WaitingListService orchestrates waiting-list submissions. Same pipeline as
// enrollments over a smaller field set.
type WaitingListService struct {
	repo repository.WaitingListRepository
}

// NewWaitingListService creates a new waiting-list service instance.
func NewWaitingListService(repo repository.WaitingListRepository) *WaitingListService {
	return &WaitingListService{repo: repo}
}

// Submit runs the submission pipeline for one waiting-list request.
func (s *WaitingListService) Submit(ctx context.Context, req *models.WaitingListRequest, clientID string) (*models.SubmissionResponse, error) {
	if err := validateWaitingList(req); err != nil {
		metrics.FormSubmissions.WithLabelValues("waiting_list", "invalid").Inc()
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		metrics.FormSubmissions.WithLabelValues("waiting_list", "error").Inc()
		logger.Error("Failed to check for existing waiting list entry", zap.Error(err))
		return nil, apperrors.Internal("Failed to join waiting list. Please try again later.", err)
	}
	if exists {
		metrics.FormSubmissions.WithLabelValues("waiting_list", "duplicate").Inc()
		return nil, apperrors.Conflict("This email is already on the waiting list")
	}

	entry := &models.WaitingListEntry{
		FirstName:   validation.Sanitize(req.FirstName),
		LastName:    validation.Sanitize(req.LastName),
		Email:       email,
		Phone:       validation.Sanitize(req.Phone),
		ChildName:   validation.Sanitize(req.ChildName),
		ChildAge:    int(req.ChildAge),
		AgeBand:     validation.Sanitize(req.AgeBand),
		Message:     optional(req.Message),
		SubmittedAt: time.Now().UTC(),
		IPAddress:   clientID,
		Status:      models.StatusPending,
	}

	id, err := s.repo.Insert(ctx, entry)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			metrics.FormSubmissions.WithLabelValues("waiting_list", "duplicate").Inc()
			return nil, apperrors.Conflict("This email is already on the waiting list")
		}
		metrics.FormSubmissions.WithLabelValues("waiting_list", "error").Inc()
		logger.Error("Failed to insert waiting list entry", zap.Error(err))
		return nil, apperrors.Internal("Failed to join waiting list. Please try again later.", err)
	}

	metrics.FormSubmissions.WithLabelValues("waiting_list", "success").Inc()
	logger.Info("Waiting list entry submitted", zap.String("id", id))

	return &models.SubmissionResponse{
		Success: true,
		Message: "Successfully added to waiting list",
		ID:      id,
	}, nil
}

func validateWaitingList(req *models.WaitingListRequest) error {
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

	if req.ChildAge < minChildAge || req.ChildAge > maxChildAge {
		return apperrors.Invalid("Child age must be between 6 and 16")
	}

	if req.AgeBand == "" {
		return apperrors.Invalid("Age band is required")
	}

	return nil
}
