package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/service"
)

// HandleServiceError maps service errors to HTTP status codes.
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAuthenticationFailed), errors.Is(err, service.ErrUnauthenticated):
		ErrorResponse(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrRegistrationFailed),
		errors.Is(err, service.ErrInvalidPayload),
		errors.Is(err, service.ErrInvalidTimeLimit),
		errors.Is(err, service.ErrInvalidCatalogRef),
		errors.Is(err, service.ErrUnknownGame),
		errors.Is(err, service.ErrSelfFollow),
		errors.Is(err, service.ErrRoomFull):
		ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrRoomNotFound),
		errors.Is(err, service.ErrLoadoutNotFound),
		errors.Is(err, service.ErrClipNotFound),
		errors.Is(err, service.ErrGameNotFound),
		errors.Is(err, service.ErrNotInRoom):
		ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDuplicateVote),
		errors.Is(err, service.ErrDuplicateLike),
		errors.Is(err, service.ErrRoundInProgress),
		errors.Is(err, service.ErrNoActiveRound),
		errors.Is(err, service.ErrStaleRound),
		errors.Is(err, service.ErrOutcomeConflict),
		errors.Is(err, service.ErrIdentityMismatch):
		ErrorResponse(c, http.StatusConflict, err.Error())
	default:
		logrus.WithError(err).Error("Unhandled internal server error")
		ErrorResponse(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// bindError reports a request that failed binding or validation.
func bindError(c *gin.Context, handler string, err error) {
	logrus.WithError(err).Warnf("Handler.%s: Invalid input", handler)
	c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid input", "details": err.Error()})
}
