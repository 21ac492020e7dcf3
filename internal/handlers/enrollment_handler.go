package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/masteryhouse/mastery-house-api/internal/middleware"
	"github.com/masteryhouse/mastery-house-api/internal/models"
	"github.com/masteryhouse/mastery-house-api/internal/services"
)

// EnrollmentHandler handles the public enrollment form endpoint.
type EnrollmentHandler struct {
	service       services.EnrollmentServiceInterface
	exposeDetails bool
}

// NewEnrollmentHandler creates a new enrollment handler. exposeDetails
// enables the details field on 500 responses (development only).
func NewEnrollmentHandler(service services.EnrollmentServiceInterface, exposeDetails bool) *EnrollmentHandler {
	return &EnrollmentHandler{service: service, exposeDetails: exposeDetails}
}

// Submit handles POST /api/v1/enroll.
func (h *EnrollmentHandler) Submit(c *gin.Context) {
	var req models.EnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	clientID := c.GetString(middleware.ClientIdentifierKey)
	if clientID == "" {
		clientID = middleware.ClientIdentifier(c)
	}

	resp, err := h.service.Submit(c.Request.Context(), &req, clientID)
	if err != nil {
		respondServiceError(c, err, h.exposeDetails)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
