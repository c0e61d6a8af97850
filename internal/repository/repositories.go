package repository

import (
	"github.com/mkravchenko/userhub/internal/server"
)

// Repositories is a container for all repository instances, built once
// and passed to the service layer.
type Repositories struct {
	Users  *UserRepository
	Tokens *TokenRepository
}

// NewRepositories constructs the repository container from the shared
// application resources.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Users:  NewUserRepository(s.DB.Pool),
		Tokens: NewTokenRepository(s.Redis),
	}
}
