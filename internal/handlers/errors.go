package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/masteryhouse/mastery-house-api/pkg/errors"
)

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error returns *gin.Error, not
// the error interface, hence the blank assignment.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends an error JSON body and records the error on the context.
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message})
}

// respondServiceError maps a service error kind onto its HTTP status. Every
// branch writes a JSON body: clients parse responses unconditionally, so a
// bare status is never acceptable. Infrastructure detail is only exposed in
// development.
func respondServiceError(c *gin.Context, err error, exposeDetails bool) {
	attachError(c, err)

	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.Message(err)})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": apperrors.Message(err)})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": apperrors.Message(err)})
	default:
		body := gin.H{"error": apperrors.Message(err)}
		if exposeDetails {
			if detail := apperrors.CauseDetail(err); detail != "" {
				body["details"] = detail
			}
		}
		c.JSON(http.StatusInternalServerError, body)
	}
}
