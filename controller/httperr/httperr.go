// Package httperr maps service errors onto HTTP responses.
package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"helpexchange/services"
	"helpexchange/services/feed"
	"helpexchange/services/lifecycle"
	"helpexchange/services/message"
	"helpexchange/store"
)

var statuses = []struct {
	err    error
	status int
}{
	{feed.ErrInvalidCriteria, http.StatusBadRequest},
	{feed.ErrInvalidCursorAction, http.StatusBadRequest},
	{store.ErrInvalidCursor, http.StatusBadRequest},
	{lifecycle.ErrEmptyDetail, http.StatusBadRequest},
	{message.ErrEmptyBody, http.StatusBadRequest},
	{lifecycle.ErrInvalidReward, http.StatusUnprocessableEntity},
	{lifecycle.ErrProfileRequired, http.StatusUnprocessableEntity},
	{store.ErrNotFound, http.StatusNotFound},
	{lifecycle.ErrNotOwner, http.StatusForbidden},
	{lifecycle.ErrNotHelper, http.StatusForbidden},
	{lifecycle.ErrOwnTask, http.StatusForbidden},
	{message.ErrNotParticipant, http.StatusForbidden},
	{lifecycle.ErrInvalidTransition, http.StatusConflict},
	{lifecycle.ErrHelperNotFound, http.StatusConflict},
	{services.ErrEmailTaken, http.StatusConflict},
	{services.ErrInvalidCredentials, http.StatusUnauthorized},
}

func Status(err error) int {
	for _, s := range statuses {
		if errors.Is(err, s.err) {
			return s.status
		}
	}
	return http.StatusInternalServerError
}

// Abort writes the error response. Internal errors are logged and hidden from
// the client.
func Abort(c *gin.Context, logger zerolog.Logger, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		logger.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("request failed")
		c.AbortWithStatusJSON(status, gin.H{"error": http.StatusText(status)})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// BadRequest reports a request that failed binding or validation.
func BadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
