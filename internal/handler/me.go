package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/mkravchenko/userhub/internal/errs"
	"github.com/mkravchenko/userhub/internal/middleware"
	"github.com/mkravchenko/userhub/internal/model"
	"github.com/mkravchenko/userhub/internal/server"
)

// MeHandler serves the authenticated caller's own record.
type MeHandler struct {
	Handler
}

// NewMeHandler constructs a MeHandler.
func NewMeHandler(s *server.Server) *MeHandler {
	return &MeHandler{
		Handler: NewHandler(s),
	}
}

// MeRequest is the empty payload for the current-user endpoint.
type MeRequest struct{}

func (r *MeRequest) Validate() error {
	return nil
}

// GetMe returns the caller's own representation. The auth middleware
// resolved the user already; a missing user here means the route was
// registered without RequireAuth.
func (h *MeHandler) GetMe(c echo.Context, req *MeRequest) (model.UserResponse, error) {
	user := middleware.GetUser(c)
	if user == nil {
		return model.UserResponse{}, errs.NewUnauthorizedError("Unauthorized", false)
	}

	return user.ToResponse(), nil
}
