package service

import (
	"time"

	"github.com/mkravchenko/userhub/internal/lib/email"
	"github.com/mkravchenko/userhub/internal/lib/job"
	"github.com/mkravchenko/userhub/internal/repository"
	"github.com/mkravchenko/userhub/internal/server"
)

// Services is a container for all service instances, built once and
// passed to the handler layer.
type Services struct {
	User         *UserService
	Auth         *AuthService
	Notification *NotificationService
	Job          *job.JobService
}

// NewService constructs the service container and registers the
// notification service as the job worker's notifier, so background
// tasks can reach business logic without an import cycle. The caller
// starts the job service afterwards.
func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	mailer := email.NewClient(s.Config, s.Logger)

	notificationService := NewNotificationService(
		repos.Users, mailer, s.Config.Email.ConfirmationURL, s.Logger)

	userService := NewUserService(repos.Users, s.Job, s.Logger)

	authService := NewAuthService(
		repos.Users, repos.Tokens,
		s.Config.Auth.SecretKey,
		time.Duration(s.Config.Auth.TokenExpiryHours)*time.Hour,
		s.Logger)

	s.Job.Register(notificationService)

	return &Services{
		User:         userService,
		Auth:         authService,
		Notification: notificationService,
		Job:          s.Job,
	}, nil
}
