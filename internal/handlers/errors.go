package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ArowuTest/lottery-rounds/internal/services"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// statusOf maps lottery errors to HTTP statuses
func statusOf(err error) int {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, services.ErrRoundNotFound),
		errors.Is(err, services.ErrUnknownRequest):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidConfiguration),
		errors.Is(err, services.ErrZeroQuantity),
		errors.Is(err, services.ErrPaymentMismatch),
		errors.Is(err, services.ErrZeroAddress) && !errors.Is(err, services.ErrTransferFailed):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrCapacityExceeded),
		errors.Is(err, services.ErrRoundClosed),
		errors.Is(err, services.ErrRoundStillOpen),
		errors.Is(err, services.ErrWinnerAlreadyDrawn),
		errors.Is(err, services.ErrAlreadyFulfilled),
		errors.Is(err, services.ErrNoEntries),
		errors.Is(err, services.ErrAlreadyClaimed):
		return http.StatusConflict
	case errors.Is(err, services.ErrNotWinner):
		return http.StatusForbidden
	case errors.Is(err, services.ErrTransferFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	}
	//nolint:errcheck
	c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}

// roundID parses the :id path parameter
func roundID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid round ID"})
		return 0, false
	}
	return id, true
}
