package middleware

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
)

// contextKey prevents collisions with keys set by other packages.
type contextKey string

const (
	loggerCtxKey = contextKey("logger")
	userIDKey    = contextKey("userID")
)

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey, logger)
}

// GetLoggerFromCtx retrieves the request-scoped logger, falling back to slog.Default.
func GetLoggerFromCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}
	if logger, ok := ctx.Value(loggerCtxKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// WithUserID returns a copy of ctx carrying the authenticated actor.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserIDFromContext retrieves the authenticated user ID from the request context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if c.Request == nil {
		return "", false
	}
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}
