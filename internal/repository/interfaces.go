package repository

import (
	"context"
	"errors"

	"github.com/masteryhouse/mastery-house-api/internal/models"
)

// ErrDuplicateEmail is returned when an insert hits the unique email index.
// Handlers map it to a 409 exactly like a positive pre-check.
var ErrDuplicateEmail = errors.New("duplicate email")

// EnrollmentRepository defines data access for the enrollments collection.
type EnrollmentRepository interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	Insert(ctx context.Context, enrollment *models.Enrollment) (string, error)
	List(ctx context.Context, page, limit int) ([]models.Enrollment, int64, error)
}

// WaitingListRepository defines data access for the waiting-list collection.
type WaitingListRepository interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	Insert(ctx context.Context, entry *models.WaitingListEntry) (string, error)
	List(ctx context.Context, page, limit int) ([]models.WaitingListEntry, int64, error)
}
