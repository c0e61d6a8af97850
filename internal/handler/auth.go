package handler

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mkravchenko/userhub/internal/errs"
	"github.com/mkravchenko/userhub/internal/server"
	"github.com/mkravchenko/userhub/internal/service"
	"github.com/mkravchenko/userhub/internal/validation"
)

// AuthHandler serves token issuance and revocation.
type AuthHandler struct {
	Handler
	auth *service.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(s *server.Server, auth *service.AuthService) *AuthHandler {
	return &AuthHandler{
		Handler: NewHandler(s),
		auth:    auth,
	}
}

// IssueTokenRequest carries the credentials for token issuance.
type IssueTokenRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *IssueTokenRequest) Validate() error {
	return validation.Validate.Struct(r)
}

// TokenResponse carries the signed access token.
type TokenResponse struct {
	Access string `json:"access"`
}

// IssueToken exchanges email+password for a bearer token. Unknown
// credentials and inactive accounts both answer 401 without revealing
// which check failed.
func (h *AuthHandler) IssueToken(c echo.Context, req *IssueTokenRequest) (TokenResponse, error) {
	token, err := h.auth.IssueToken(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return TokenResponse{}, errs.NewUnauthorizedError("Invalid email or password", true)
		}
		return TokenResponse{}, err
	}

	return TokenResponse{Access: token}, nil
}

// RevokeTokenRequest is the empty payload for token revocation; the
// token itself travels in the Authorization header.
type RevokeTokenRequest struct{}

func (r *RevokeTokenRequest) Validate() error {
	return nil
}

// RevokeToken invalidates the presented bearer token for the rest of
// its lifetime. The route sits behind RequireAuth, so the header is
// present and already validated once.
func (h *AuthHandler) RevokeToken(c echo.Context, req *RevokeTokenRequest) error {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return errs.NewUnauthorizedError("Missing bearer token", false)
	}

	if err := h.auth.RevokeToken(c.Request().Context(), token); err != nil {
		if errors.Is(err, service.ErrInvalidToken) || errors.Is(err, service.ErrTokenExpired) {
			return errs.NewUnauthorizedError("Invalid token", false)
		}
		return err
	}

	return nil
}
