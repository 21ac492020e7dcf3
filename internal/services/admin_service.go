package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/masteryhouse/mastery-house-api/internal/models"
	"github.com/masteryhouse/mastery-house-api/internal/repository"
	apperrors "github.com/masteryhouse/mastery-house-api/pkg/errors"
	"github.com/masteryhouse/mastery-house-api/pkg/logger"
)

const (
	defaultPage  = 1
	defaultLimit = 50
)

// AdminService serves the paginated admin listings over both collections.
type AdminService struct {
	enrollments repository.EnrollmentRepository
	waitingList repository.WaitingListRepository
}

// NewAdminService creates a new admin service instance.
func NewAdminService(enrollments repository.EnrollmentRepository, waitingList repository.WaitingListRepository) *AdminService {
	return &AdminService{enrollments: enrollments, waitingList: waitingList}
}

// normalizePaging coerces absent or nonsensical paging params to defaults.
// There is deliberately no upper bound on limit.
func normalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}

// ListEnrollments returns one page of enrollments, newest first.
func (s *AdminService) ListEnrollments(ctx context.Context, page, limit int) (*models.EnrollmentListResponse, error) {
	page, limit = normalizePaging(page, limit)

	data, total, err := s.enrollments.List(ctx, page, limit)
	if err != nil {
		logger.Error("Failed to list enrollments", zap.Error(err))
		return nil, apperrors.Internal("Failed to fetch enrollments", err)
	}

	return &models.EnrollmentListResponse{
		Success:    true,
		Data:       data,
		Pagination: models.NewPagination(page, limit, total),
	}, nil
}

// ListWaitingList returns one page of waiting-list entries, newest first.
func (s *AdminService) ListWaitingList(ctx context.Context, page, limit int) (*models.WaitingListListResponse, error) {
	page, limit = normalizePaging(page, limit)

	data, total, err := s.waitingList.List(ctx, page, limit)
	if err != nil {
		logger.Error("Failed to list waiting list entries", zap.Error(err))
		return nil, apperrors.Internal("Failed to fetch waiting list entries", err)
	}

	return &models.WaitingListListResponse{
		Success:    true,
		Data:       data,
		Pagination: models.NewPagination(page, limit, total),
	}, nil
}
