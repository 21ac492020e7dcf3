package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/masteryhouse/mastery-house-api/internal/services"
)

// AdminHandler serves the paginated submission listings behind the admin
// bearer token (enforced by middleware, not here).
type AdminHandler struct {
	service services.AdminServiceInterface
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(service services.AdminServiceInterface) *AdminHandler {
	return &AdminHandler{service: service}
}

// queryInt parses a query parameter, returning 0 for absent or non-numeric
// values so the service applies its defaults.
func queryInt(c *gin.Context, name string) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return n
}

// ListEnrollments handles GET /api/v1/admin/enrollments.
func (h *AdminHandler) ListEnrollments(c *gin.Context) {
	resp, err := h.service.ListEnrollments(c.Request.Context(), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		respondServiceError(c, err, false)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListWaitingList handles GET /api/v1/admin/waiting-list.
func (h *AdminHandler) ListWaitingList(c *gin.Context) {
	resp, err := h.service.ListWaitingList(c.Request.Context(), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		respondServiceError(c, err, false)
		return
	}
	c.JSON(http.StatusOK, resp)
}
