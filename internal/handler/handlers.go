package handler

import (
	"github.com/mkravchenko/userhub/internal/server"
	"github.com/mkravchenko/userhub/internal/service"
)

// Handlers groups all HTTP handlers so router setup passes one object
// around instead of many.
type Handlers struct {
	Users   *UsersHandler
	Me      *MeHandler
	Auth    *AuthHandler
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
}

// NewHandlers constructs the handler container from the application
// container and the business layer.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Users:   NewUsersHandler(s, services.User),
		Me:      NewMeHandler(s),
		Auth:    NewAuthHandler(s, services.Auth),
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
	}
}
