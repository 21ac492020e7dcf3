package services_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/masteryhouse/mastery-house-api/internal/models"
	"github.com/masteryhouse/mastery-house-api/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// MockEnrollmentRepository is a mock implementation of repository.EnrollmentRepository.
type MockEnrollmentRepository struct {
	mock.Mock
}

func (m *MockEnrollmentRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockEnrollmentRepository) Insert(ctx context.Context, enrollment *models.Enrollment) (string, error) {
	args := m.Called(ctx, enrollment)
	return args.String(0), args.Error(1)
}

func (m *MockEnrollmentRepository) List(ctx context.Context, page, limit int) ([]models.Enrollment, int64, error) {
	args := m.Called(ctx, page, limit)
	var data []models.Enrollment
	if args.Get(0) != nil {
		data = args.Get(0).([]models.Enrollment)
	}
	return data, args.Get(1).(int64), args.Error(2)
}

// MockWaitingListRepository is a mock implementation of repository.WaitingListRepository.
type MockWaitingListRepository struct {
	mock.Mock
}

func (m *MockWaitingListRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockWaitingListRepository) Insert(ctx context.Context, entry *models.WaitingListEntry) (string, error) {
	args := m.Called(ctx, entry)
	return args.String(0), args.Error(1)
}

func (m *MockWaitingListRepository) List(ctx context.Context, page, limit int) ([]models.WaitingListEntry, int64, error) {
	args := m.Called(ctx, page, limit)
	var data []models.WaitingListEntry
	if args.Get(0) != nil {
		data = args.Get(0).([]models.WaitingListEntry)
	}
	return data, args.Get(1).(int64), args.Error(2)
}
