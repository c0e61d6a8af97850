package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
)

// NotificationStore is the slice of the user repository the
// notification service reads from.
type NotificationStore interface {
	CountActive(ctx context.Context) (int64, error)
	ActiveAdminEmails(ctx context.Context) ([]string, error)
}

// Mailer sends rendered notification emails. Implementations absorb
// transport errors and report plain success/failure.
type Mailer interface {
	SendConfirmationEmail(ctx context.Context, to, confirmationURL string) bool
	SendAdminDigest(ctx context.Context, to []string, activeUserCount string) bool
}

// NotificationService builds and dispatches the two notification
// kinds: the per-user registration confirmation and the daily admin
// digest with the active-user count.
type NotificationService struct {
	store           NotificationStore
	mailer          Mailer
	confirmationURL string
	logger          *zerolog.Logger
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(store NotificationStore, mailer Mailer, confirmationURL string, logger *zerolog.Logger) *NotificationService {
	return &NotificationService{
		store:           store,
		mailer:          mailer,
		confirmationURL: confirmationURL,
		logger:          logger,
	}
}

// NotifyNewUsers sends the confirmation message to each address
// individually. A failed recipient never prevents attempts for the
// rest; failures are logged by the mailer and summarized here.
func (s *NotificationService) NotifyNewUsers(ctx context.Context, emails []string) {
	failed := 0
	for _, email := range emails {
		if !s.mailer.SendConfirmationEmail(ctx, email, s.confirmationURL) {
			failed++
		}
	}

	if failed > 0 {
		s.logger.Warn().
			Int("total", len(emails)).
			Int("failed", failed).
			Msg("some confirmation emails were not sent")
	}
}

// NotifyAdminsDaily computes the active-user count and mails it to all
// active superusers in a single message. A send failure returns an
// error so the task queue can retry.
func (s *NotificationService) NotifyAdminsDaily(ctx context.Context) error {
	count, err := s.store.CountActive(ctx)
	if err != nil {
		return fmt.Errorf("counting active users: %w", err)
	}

	adminEmails, err := s.store.ActiveAdminEmails(ctx)
	if err != nil {
		return fmt.Errorf("fetching admin emails: %w", err)
	}

	if len(adminEmails) == 0 {
		s.logger.Warn().Msg("no active admins to receive the daily digest")
		return nil
	}

	if !s.mailer.SendAdminDigest(ctx, adminEmails, strconv.FormatInt(count, 10)) {
		return fmt.Errorf("admin digest was not sent")
	}

	s.logger.Info().
		Int64("active_users", count).
		Int("admins", len(adminEmails)).
		Msg("sent admin digest")

	return nil
}
