package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/masteryhouse/mastery-house-api/internal/handlers"
	"github.com/masteryhouse/mastery-house-api/internal/middleware"
	"github.com/masteryhouse/mastery-house-api/internal/models"
	"github.com/masteryhouse/mastery-house-api/internal/ratelimit"
	apperrors "github.com/masteryhouse/mastery-house-api/pkg/errors"
)

func enrollRouter(svc *mockEnrollmentService, exposeDetails bool) *gin.Engine {
	router := gin.New()
	h := handlers.NewEnrollmentHandler(svc, exposeDetails)
	router.POST("/api/v1/enroll", h.Submit)
	return router
}

func postJSON(router *gin.Engine, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestEnrollSubmit_Created(t *testing.T) {
	svc := new(mockEnrollmentService)
	svc.On("Submit", mock.Anything, mock.AnythingOfType("*models.EnrollmentRequest"), mock.Anything).
		Return(&models.SubmissionResponse{
			Success: true,
			Message: "Enrollment form submitted successfully",
			ID:      "65f0a1b2c3d4e5f6a7b8c9d0",
		}, nil)

	w := postJSON(enrollRouter(svc, false), "/api/v1/enroll", `{"firstName":"Amara"}`, nil)

	assert.Equal(t, http.StatusCreated, w.Code)

	var body models.SubmissionResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "65f0a1b2c3d4e5f6a7b8c9d0", body.ID)
	svc.AssertExpectations(t)
}

func TestEnrollSubmit_MalformedJSON(t *testing.T) {
	svc := new(mockEnrollmentService)

	w := postJSON(enrollRouter(svc, false), "/api/v1/enroll", `{"firstName":`, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error": "Invalid request body"}`, w.Body.String())
	svc.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
}

func TestEnrollSubmit_ChildAgeAcceptsStringAndNumber(t *testing.T) {
	for _, payload := range []string{
		`{"childAge": 10}`,
		`{"childAge": "10"}`,
	} {
		svc := new(mockEnrollmentService)
		var got *models.EnrollmentRequest
		svc.On("Submit", mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				got = args.Get(1).(*models.EnrollmentRequest)
			}).
			Return(&models.SubmissionResponse{Success: true}, nil)

		w := postJSON(enrollRouter(svc, false), "/api/v1/enroll", payload, nil)

		assert.Equal(t, http.StatusCreated, w.Code, payload)
		assert.Equal(t, models.FlexInt(10), got.ChildAge, payload)
	}
}

func TestEnrollSubmit_ValidationError(t *testing.T) {
	svc := new(mockEnrollmentService)
	svc.On("Submit", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.Invalid("Child age must be between 6 and 16"))

	w := postJSON(enrollRouter(svc, false), "/api/v1/enroll", `{}`, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error": "Child age must be between 6 and 16"}`, w.Body.String())
}

func TestEnrollSubmit_Conflict(t *testing.T) {
	svc := new(mockEnrollmentService)
	svc.On("Submit", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.Conflict("An enrollment with this email already exists"))

	w := postJSON(enrollRouter(svc, false), "/api/v1/enroll", `{}`, nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error": "An enrollment with this email already exists"}`, w.Body.String())
}

func TestEnrollSubmit_InternalError(t *testing.T) {
	cause := errors.New("connection reset by peer")

	t.Run("production_hides_details", func(t *testing.T) {
		svc := new(mockEnrollmentService)
		svc.On("Submit", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, apperrors.Internal("Failed to submit enrollment form. Please try again later.", cause))

		w := postJSON(enrollRouter(svc, false), "/api/v1/enroll", `{}`, nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error": "Failed to submit enrollment form. Please try again later."}`, w.Body.String())
	})

	t.Run("development_exposes_details", func(t *testing.T) {
		svc := new(mockEnrollmentService)
		svc.On("Submit", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, apperrors.Internal("Failed to submit enrollment form. Please try again later.", cause))

		w := postJSON(enrollRouter(svc, true), "/api/v1/enroll", `{}`, nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var body map[string]string
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "connection reset by peer", body["details"])
	})
}

func TestEnrollSubmit_ClientIdentifierFromHeaders(t *testing.T) {
	testCases := []struct {
		name     string
		headers  map[string]string
		expected string
	}{
		{
			"forwarded_for_first_entry",
			map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"},
			"203.0.113.7",
		},
		{
			"real_ip_fallback",
			map[string]string{"X-Real-IP": "198.51.100.2"},
			"198.51.100.2",
		},
		{
			"no_headers",
			nil,
			"unknown",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(mockEnrollmentService)
			svc.On("Submit", mock.Anything, mock.Anything, tc.expected).
				Return(&models.SubmissionResponse{Success: true}, nil)

			w := postJSON(enrollRouter(svc, false), "/api/v1/enroll", `{}`, tc.headers)

			assert.Equal(t, http.StatusCreated, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestEnrollSubmit_RateLimited(t *testing.T) {
	svc := new(mockEnrollmentService)
	svc.On("Submit", mock.Anything, mock.Anything, mock.Anything).
		Return(&models.SubmissionResponse{Success: true}, nil)

	router := gin.New()
	h := handlers.NewEnrollmentHandler(svc, false)
	limiter := ratelimit.NewFixedWindow(3, time.Hour)
	router.POST("/api/v1/enroll", middleware.SubmissionRateLimitMiddleware(limiter), h.Submit)

	headers := map[string]string{"X-Forwarded-For": "203.0.113.7"}
	for i := 0; i < 3; i++ {
		w := postJSON(router, "/api/v1/enroll", `{}`, headers)
		assert.Equal(t, http.StatusCreated, w.Code)
	}

	w := postJSON(router, "/api/v1/enroll", `{}`, headers)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error": "Too many requests. Please try again later."}`, w.Body.String())

	// A different client is unaffected.
	w = postJSON(router, "/api/v1/enroll", `{}`, map[string]string{"X-Forwarded-For": "198.51.100.2"})
	assert.Equal(t, http.StatusCreated, w.Code)

	svc.AssertNumberOfCalls(t, "Submit", 4)
}

func TestEnroll_MethodNotAllowed(t *testing.T) {
	svc := new(mockEnrollmentService)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})
	h := handlers.NewEnrollmentHandler(svc, false)
	router.POST("/api/v1/enroll", h.Submit)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/enroll", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.JSONEq(t, `{"error": "Method not allowed"}`, w.Body.String())
}
