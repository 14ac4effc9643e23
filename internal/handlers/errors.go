package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/logistics_ledger/internal/apperrors"
	"github.com/SscSPs/logistics_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// statusForError maps application sentinels to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrMissingRate):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrPeriodClosed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrReferentialBlock):
		return http.StatusLocked
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as JSON. Internal failures are logged and hidden behind fallback.
func respondError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": fallback})
		return
	}
	logger.Warn("Request rejected", slog.Int("status", status), slog.String("error", err.Error()))
	c.JSON(status, gin.H{"error": err.Error()})
}

// bindError reports a malformed body or query string.
func bindError(c *gin.Context, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
}

// actor returns the authenticated user, writing 401 when there is none.
func actor(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return userID, ok
}

// dateQuery parses a YYYY-MM-DD query parameter, returning def when it is absent.
func dateQuery(c *gin.Context, key string, def time.Time) (time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Invalid date parameter", slog.String(key, raw))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + key + " date format. Use YYYY-MM-DD"})
		return time.Time{}, false
	}
	return t, true
}
