package middleware

import (
	"context"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	"github.com/mkravchenko/userhub/internal/logger"
	"github.com/mkravchenko/userhub/internal/model"
)

const (
	// UserKey and UserIDKey are the Echo context keys the auth
	// middleware populates for authenticated requests.
	UserKey   = "user"
	UserIDKey = "user_id"

	// LoggerKey stores the request-scoped logger.
	LoggerKey = "logger"
)

// ContextEnhancer builds a request-scoped logger carrying request_id,
// method, path, ip, New Relic trace ids when a transaction exists, and
// the user id when auth already ran. The logger is stored in both the
// Echo context and the request's context.Context so repository and
// service code can reach it.
type ContextEnhancer struct {
	baseLogger *zerolog.Logger
}

// NewContextEnhancer creates a ContextEnhancer deriving from the
// application logger.
func NewContextEnhancer(baseLogger *zerolog.Logger) *ContextEnhancer {
	return &ContextEnhancer{baseLogger: baseLogger}
}

// EnhanceContext returns the Echo middleware.
func (ce *ContextEnhancer) EnhanceContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			contextLogger := ce.baseLogger.With().
				Str("request_id", GetRequestID(c)).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("ip", c.RealIP()).
				Logger()

			if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
				contextLogger = logger.WithTraceContext(contextLogger, txn)
			}

			if userID := GetUserID(c); userID != 0 {
				contextLogger = contextLogger.With().Int64("user_id", userID).Logger()
			}

			c.Set(LoggerKey, &contextLogger)

			ctx := context.WithValue(c.Request().Context(), LoggerKey, &contextLogger)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// GetUser retrieves the authenticated user stored by the auth
// middleware, or nil for anonymous requests.
func GetUser(c echo.Context) *model.User {
	if user, ok := c.Get(UserKey).(*model.User); ok {
		return user
	}
	return nil
}

// GetUserID retrieves the authenticated user's id, or 0 when the
// request is anonymous.
func GetUserID(c echo.Context) int64 {
	if userID, ok := c.Get(UserIDKey).(int64); ok {
		return userID
	}
	return 0
}

// GetLogger retrieves the request-scoped logger. Returns a no-op
// logger when EnhanceContext did not run, so callers never nil-check.
func GetLogger(c echo.Context) *zerolog.Logger {
	if logger, ok := c.Get(LoggerKey).(*zerolog.Logger); ok {
		return logger
	}

	nop := zerolog.Nop()
	return &nop
}

// formatUserID renders a user id for log fields shared with string
// based correlation ids.
func formatUserID(id int64) string {
	return strconv.FormatInt(id, 10)
}
