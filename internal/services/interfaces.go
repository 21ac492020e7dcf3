package services

import (
	"context"

	"github.com/masteryhouse/mastery-house-api/internal/models"
)

// EnrollmentServiceInterface defines enrollment submission operations.
type EnrollmentServiceInterface interface {
	Submit(ctx context.Context, req *models.EnrollmentRequest, clientID string) (*models.SubmissionResponse, error)
}

// WaitingListServiceInterface defines waiting-list submission operations.
type WaitingListServiceInterface interface {
	Submit(ctx context.Context, req *models.WaitingListRequest, clientID string) (*models.SubmissionResponse, error)
}

// AdminServiceInterface defines the admin listing operations.
type AdminServiceInterface interface {
	ListEnrollments(ctx context.Context, page, limit int) (*models.EnrollmentListResponse, error)
	ListWaitingList(ctx context.Context, page, limit int) (*models.WaitingListListResponse, error)
}

// Ensure services implement their interfaces
var _ EnrollmentServiceInterface = (*EnrollmentService)(nil)
var _ WaitingListServiceInterface = (*WaitingListService)(nil)
var _ AdminServiceInterface = (*AdminService)(nil)
