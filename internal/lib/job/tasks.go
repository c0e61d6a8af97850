package job

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskNewUsersEmail sends the registration confirmation to a set
	// of freshly created users. One task carries every email from one
	// create request.
	TaskNewUsersEmail = "email:new_users"

	// TaskAdminDigest sends the daily active-user count to admins.
	TaskAdminDigest = "email:admin_digest"
)

// NewUsersEmailPayload is the JSON payload for TaskNewUsersEmail.
type NewUsersEmailPayload struct {
	Emails []string `json:"emails"`
}

// NewUsersEmailTask constructs the confirmation-email task for the
// given recipients: up to 3 retries, default queue, 30s timeout.
func NewUsersEmailTask(emails []string) (*asynq.Task, error) {
	payload, err := json.Marshal(NewUsersEmailPayload{Emails: emails})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskNewUsersEmail,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}

// AdminDigestTask constructs the daily digest task. It runs in the low
// queue: it is periodic and nothing user-facing waits on it.
func AdminDigestTask() *asynq.Task {
	return asynq.NewTask(
		TaskAdminDigest,
		nil,
		asynq.MaxRetry(3),
		asynq.Queue("low"),
		asynq.Timeout(60*time.Second),
	)
}

// EnqueueNewUsersEmail enqueues the confirmation task for the given
// emails. Enqueue is fire-and-forget: broker problems are logged and
// absorbed so the HTTP request that created the users never fails on
// queue trouble.
func (j *JobService) EnqueueNewUsersEmail(ctx context.Context, emails []string) {
	if len(emails) == 0 {
		return
	}

	task, err := NewUsersEmailTask(emails)
	if err != nil {
		j.logger.Error().Err(err).Strs("emails", emails).Msg("failed to build new-users email task")
		return
	}

	info, err := j.Client.EnqueueContext(ctx, task)
	if err != nil {
		j.logger.Error().Err(err).Strs("emails", emails).Msg("failed to enqueue new-users email task")
		return
	}

	j.logger.Info().
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Int("recipients", len(emails)).
		Msg("enqueued new-users email task")
}

// enqueueAdminDigest is the cron callback that feeds the daily digest
// into the queue.
func (j *JobService) enqueueAdminDigest() {
	info, err := j.Client.Enqueue(AdminDigestTask())
	if err != nil {
		j.logger.Error().Err(err).Msg("failed to enqueue admin digest task")
		return
	}

	j.logger.Info().
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Msg("enqueued admin digest task")
}
