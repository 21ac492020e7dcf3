package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/masteryhouse/mastery-house-api/internal/middleware"
	"github.com/masteryhouse/mastery-house-api/internal/models"
	"github.com/masteryhouse/mastery-house-api/internal/services"
)

// WaitingListHandler handles the public waiting-list form endpoint.
type WaitingListHandler struct {
	service       services.WaitingListServiceInterface
	exposeDetails bool
}

// NewWaitingListHandler creates a new waiting-list handler.
func NewWaitingListHandler(service services.WaitingListServiceInterface, exposeDetails bool) *WaitingListHandler {
	return &WaitingListHandler{service: service, exposeDetails: exposeDetails}
}

// Submit handles POST /api/v1/waiting-list.
func (h *WaitingListHandler) Submit(c *gin.Context) {
	var req models.WaitingListRequest
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
