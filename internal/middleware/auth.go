package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/mkravchenko/userhub/internal/errs"
	"github.com/mkravchenko/userhub/internal/model"
	"github.com/mkravchenko/userhub/internal/service"
)

// Authenticator resolves a bearer token to the user it belongs to.
// Implemented by service.AuthService.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// AuthMiddleware enforces bearer-token authentication on protected
// routes.
type AuthMiddleware struct {
	authenticator Authenticator
	logger        *zerolog.Logger
}

// NewAuthMiddleware constructs an AuthMiddleware.
func NewAuthMiddleware(authenticator Authenticator, logger *zerolog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authenticator: authenticator,
		logger:        logger,
	}
}

// RequireAuth is an Echo middleware that rejects requests without a
// valid "Authorization: Bearer <token>" header.
//
// On success it stores the resolved *model.User and its id in the Echo
// context, so handlers and the context enhancer can read them. Tokens
// of deactivated users and revoked tokens fail with 401 like any other
// invalid token.
func (auth *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := extractBearerToken(c)
		if err != nil {
			return err
		}

		start := time.Now()

		user, err := auth.authenticator.Authenticate(c.Request().Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrTokenExpired):
				return errs.NewUnauthorizedError("Token has expired", false)
			case errors.Is(err, service.ErrInvalidToken):
				return errs.NewUnauthorizedError("Invalid token", false)
			default:
				auth.logger.Error().
					Err(err).
					Str("request_id", GetRequestID(c)).
					Dur("duration", time.Since(start)).
					Msg("token authentication failed")
				return err
			}
		}

		c.Set(UserKey, user)
		c.Set(UserIDKey, user.ID)

		return next(c)
	}
}

// extractBearerToken pulls the token out of the Authorization header.
func extractBearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", errs.NewUnauthorizedError("Missing Authorization header", false)
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", errs.NewUnauthorizedError("Authorization header must use the Bearer scheme", false)
	}

	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if token == "" {
		return "", errs.NewUnauthorizedError("Missing bearer token", false)
	}

	return token, nil
}
