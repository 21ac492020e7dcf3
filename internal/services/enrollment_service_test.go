package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/masteryhouse/mastery-house-api/internal/models"
	"github.com/masteryhouse/mastery-house-api/internal/repository"
	"github.com/masteryhouse/mastery-house-api/internal/services"
	apperrors "github.com/masteryhouse/mastery-house-api/pkg/errors"
)

func validEnrollmentRequest() *models.EnrollmentRequest {
	return &models.EnrollmentRequest{
		FirstName:             "Amara",
		LastName:              "Okafor",
		Email:                 "Amara.Okafor@Example.com",
		Phone:                 "+14155552671",
		Country:               "Nigeria",
		Timezone:              "Africa/Lagos",
		HowHeard:              "social-media",
		ChildName:             "Chidi",
		ChildAge:              10,
		SchoolingStructure:    "homeschool",
		AgeBand:               "9-12",
		PromptInterest:        "We want a classical formation for our son.",
		FormationAreas:        []string{"virtue", "rhetoric"},
		ChildTemperament:      "Curious, energetic, and asks endless questions.",
		ChildAt25:             "A confident, articulate young man of character.",
		ParentInvolvement:     "yes",
		StructuredEnvironment: "yes",
		FaithValues:           "yes",
		InvestmentReady:       "yes",
	}
}

func TestEnrollmentSubmit_Success(t *testing.T) {
	repo := new(MockEnrollmentRepository)
	repo.On("EmailExists", mock.Anything, "amara.okafor@example.com").Return(false, nil)
	repo.On("Insert", mock.Anything, mock.AnythingOfType("*models.Enrollment")).Return("65f0a1b2c3d4e5f6a7b8c9d0", nil)

	svc := services.NewEnrollmentService(repo)
	resp, err := svc.Submit(context.Background(), validEnrollmentRequest(), "203.0.113.7")

	assert.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "Enrollment form submitted successfully", resp.Message)
	assert.Equal(t, "65f0a1b2c3d4e5f6a7b8c9d0", resp.ID)
	repo.AssertExpectations(t)
}

func TestEnrollmentSubmit_NormalizesEmailAndSanitizesFields(t *testing.T) {
	repo := new(MockEnrollmentRepository)
	repo.On("EmailExists", mock.Anything, "amara.okafor@example.com").Return(false, nil)

	var inserted *models.Enrollment
	repo.On("Insert", mock.Anything, mock.AnythingOfType("*models.Enrollment")).
		Run(func(args mock.Arguments) {
			inserted = args.Get(1).(*models.Enrollment)
		}).
		Return("id-1", nil)

	req := validEnrollmentRequest()
	req.FirstName = "  Amara  "
	req.Email = "  AMARA.OKAFOR@example.COM "
	req.HowHeardOther = ""
	req.AdditionalInfo = "  extra context  "

	svc := services.NewEnrollmentService(repo)
	_, err := svc.Submit(context.Background(), req, "203.0.113.7")
	assert.NoError(t, err)

	assert.Equal(t, "Amara", inserted.FirstName)
	assert.Equal(t, "amara.okafor@example.com", inserted.Email)
	assert.Nil(t, inserted.HowHeardOther, "absent optional fields are stored as null")
	if assert.NotNil(t, inserted.AdditionalInfo) {
		assert.Equal(t, "extra context", *inserted.AdditionalInfo)
	}
	assert.Equal(t, models.StatusPending, inserted.Status)
	assert.Equal(t, "203.0.113.7", inserted.IPAddress)
	assert.False(t, inserted.SubmittedAt.IsZero())
}

func TestEnrollmentSubmit_ValidationFailures(t *testing.T) {
	testCases := []struct {
		name     string
		mutate   func(r *models.EnrollmentRequest)
		expected string
	}{
		{
			"missing_first_name",
			func(r *models.EnrollmentRequest) { r.FirstName = "" },
			"First name is required",
		},
		{
			"bad_email",
			func(r *models.EnrollmentRequest) { r.Email = "nope" },
			"Invalid email format",
		},
		{
			"phone_without_country_code",
			func(r *models.EnrollmentRequest) { r.Phone = "0801 234 5678" },
			"Invalid phone number format. Please include country code (e.g., +234)",
		},
		{
			"missing_country",
			func(r *models.EnrollmentRequest) { r.Country = "" },
			"All required fields must be filled",
		},
		{
			"missing_age_band",
			func(r *models.EnrollmentRequest) { r.AgeBand = "" },
			"All required fields must be filled",
		},
		{
			"age_too_young",
			func(r *models.EnrollmentRequest) { r.ChildAge = 5 },
			"Child age must be between 6 and 16",
		},
		{
			"age_too_old",
			func(r *models.EnrollmentRequest) { r.ChildAge = 17 },
			"Child age must be between 6 and 16",
		},
		{
			"age_missing",
			func(r *models.EnrollmentRequest) { r.ChildAge = 0 },
			"Child age must be between 6 and 16",
		},
		{
			"prompt_interest_too_short",
			func(r *models.EnrollmentRequest) { r.PromptInterest = "too short" },
			"Please provide more details about your interest",
		},
		{
			"no_formation_areas",
			func(r *models.EnrollmentRequest) { r.FormationAreas = nil },
			"Please select at least one formation area",
		},
		{
			"temperament_too_short",
			func(r *models.EnrollmentRequest) { r.ChildTemperament = "short" },
			"Please provide more details about child temperament",
		},
		{
			"vision_too_short",
			func(r *models.EnrollmentRequest) { r.ChildAt25 = "short" },
			"Please provide more details about your vision for your child",
		},
		{
			"missing_commitment_answer",
			func(r *models.EnrollmentRequest) { r.InvestmentReady = "" },
			"Please answer all commitment questions",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(MockEnrollmentRepository)
			svc := services.NewEnrollmentService(repo)

			req := validEnrollmentRequest()
			tc.mutate(req)

			resp, err := svc.Submit(context.Background(), req, "203.0.113.7")

			assert.Nil(t, resp)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
			assert.Equal(t, tc.expected, apperrors.Message(err))
			repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "EmailExists", mock.Anything, mock.Anything)
		})
	}
}

func TestEnrollmentSubmit_FirstValidationErrorWins(t *testing.T) {
	repo := new(MockEnrollmentRepository)
	svc := services.NewEnrollmentService(repo)

	// Everything is wrong; the first name failure must be the one reported.
	req := &models.EnrollmentRequest{}
	resp, err := svc.Submit(context.Background(), req, "203.0.113.7")

	assert.Nil(t, resp)
	assert.Equal(t, "First name is required", apperrors.Message(err))
}

func TestEnrollmentSubmit_DuplicateEmail(t *testing.T) {
	repo := new(MockEnrollmentRepository)
	repo.On("EmailExists", mock.Anything, "amara.okafor@example.com").Return(true, nil)

	svc := services.NewEnrollmentService(repo)
	resp, err := svc.Submit(context.Background(), validEnrollmentRequest(), "203.0.113.7")

	assert.Nil(t, resp)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
	assert.Equal(t, "An enrollment with this email already exists", apperrors.Message(err))
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestEnrollmentSubmit_DuplicateRaceOnInsert(t *testing.T) {
	repo := new(MockEnrollmentRepository)
	repo.On("EmailExists", mock.Anything, mock.Anything).Return(false, nil)
	repo.On("Insert", mock.Anything, mock.Anything).Return("", repository.ErrDuplicateEmail)

	svc := services.NewEnrollmentService(repo)
	resp, err := svc.Submit(context.Background(), validEnrollmentRequest(), "203.0.113.7")

	assert.Nil(t, resp)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
	assert.Equal(t, "An enrollment with this email already exists", apperrors.Message(err))
}

func TestEnrollmentSubmit_RepositoryErrors(t *testing.T) {
	t.Run("email_check_fails", func(t *testing.T) {
		repo := new(MockEnrollmentRepository)
		repo.On("EmailExists", mock.Anything, mock.Anything).Return(false, errors.New("connection reset"))

		svc := services.NewEnrollmentService(repo)
		resp, err := svc.Submit(context.Background(), validEnrollmentRequest(), "203.0.113.7")

		assert.Nil(t, resp)
		assert.True(t, errors.Is(err, apperrors.ErrInternal))
		assert.Equal(t, "Failed to submit enrollment form. Please try again later.", apperrors.Message(err))
	})

	t.Run("insert_fails", func(t *testing.T) {
		repo := new(MockEnrollmentRepository)
		repo.On("EmailExists", mock.Anything, mock.Anything).Return(false, nil)
		repo.On("Insert", mock.Anything, mock.Anything).Return("", errors.New("write timeout"))

		svc := services.NewEnrollmentService(repo)
		resp, err := svc.Submit(context.Background(), validEnrollmentRequest(), "203.0.113.7")

		assert.Nil(t, resp)
		assert.True(t, errors.Is(err, apperrors.ErrInternal))
	})
}

func TestEnrollmentSubmit_TruncatesOversizedFields(t *testing.T) {
	repo := new(MockEnrollmentRepository)
	repo.On("EmailExists", mock.Anything, mock.Anything).Return(false, nil)

	var inserted *models.Enrollment
	repo.On("Insert", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			inserted = args.Get(1).(*models.Enrollment)
		}).
		Return("id-1", nil)

	req := validEnrollmentRequest()
	req.PromptInterest = strings.Repeat("x", 5000)

	svc := services.NewEnrollmentService(repo)
	_, err := svc.Submit(context.Background(), req, "203.0.113.7")

	assert.NoError(t, err)
	assert.Len(t, inserted.PromptInterest, 1000)
}
