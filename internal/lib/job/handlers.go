package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
)

// Notifier is the notification service as seen from the worker side.
// The concrete implementation lives in the service layer; it is
// injected via Register so the worker never reaches back into HTTP
// wiring.
type Notifier interface {
	// NotifyNewUsers sends one confirmation email per address. A
	// failure for one recipient must not prevent attempts for the rest.
	NotifyNewUsers(ctx context.Context, emails []string)

	// NotifyAdminsDaily emails the active-user count to all active
	// superusers.
	NotifyAdminsDaily(ctx context.Context) error
}

var errNoNotifier = errors.New("job handlers not registered with a notifier")

// handleNewUsersEmailTask processes TaskNewUsersEmail.
func (j *JobService) handleNewUsersEmailTask(ctx context.Context, t *asynq.Task) error {
	if j.notifier == nil {
		return errNoNotifier
	}

	var p NewUsersEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal new-users email payload: %w", err)
	}

	j.logger.Info().
		Str("type", TaskNewUsersEmail).
		Int("recipients", len(p.Emails)).
		Msg("Processing new-users email task")

	j.notifier.NotifyNewUsers(ctx, p.Emails)

	j.logger.Info().
		Str("type", TaskNewUsersEmail).
		Int("recipients", len(p.Emails)).
		Msg("Finished new-users email task")

	return nil
}

// handleAdminDigestTask processes TaskAdminDigest. A returned error
// makes asynq schedule a retry.
func (j *JobService) handleAdminDigestTask(ctx context.Context, t *asynq.Task) error {
	if j.notifier == nil {
		return errNoNotifier
	}

	j.logger.Info().
		Str("type", TaskAdminDigest).
		Msg("Processing admin digest task")

	if err := j.notifier.NotifyAdminsDaily(ctx); err != nil {
		j.logger.Error().
			Str("type", TaskAdminDigest).
			Err(err).
			Msg("Failed to send admin digest")
		return err
	}

	j.logger.Info().
		Str("type", TaskAdminDigest).
		Msg("Successfully sent admin digest")

	return nil
}
