// Package job provides background job processing using Asynq.
//
// Asynq is a Redis-backed job queue: tasks are enqueued through
// asynq.Client (producer) and executed by asynq.Server workers
// (consumer). A cron scheduler enqueues the recurring admin digest so
// periodic work flows through the same queue as request-triggered work.
package job

import (
	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/mkravchenko/userhub/internal/config"
)

// JobService holds the Asynq client (enqueue), server (worker
// execution), and the cron scheduler for recurring tasks.
type JobService struct {
	// Client is used to enqueue tasks into Redis.
	Client *asynq.Client

	server   *asynq.Server
	cron     *cron.Cron
	cronSpec string
	notifier Notifier
	logger   *zerolog.Logger
}

// NewJobService creates a JobService configured to use Redis from cfg.
//
// Queue weights give important emails a larger worker share:
// critical 6, default 3, low 1 out of 10 concurrent workers.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisAddr := cfg.Redis.Address

	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr: redisAddr,
	})

	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	return &JobService{
		Client:   client,
		server:   server,
		cron:     cron.New(),
		cronSpec: cfg.Jobs.AdminDigestCron,
		logger:   logger,
	}
}

// Register installs the notifier used by task handlers. It must be
// called before Start; handlers fail their tasks otherwise.
func (j *JobService) Register(notifier Notifier) {
	j.notifier = notifier
}

// Start starts the background worker server and the digest schedule.
//
// The worker mux routes task types to handlers the same way an HTTP
// mux routes paths. asynq's Start is non-blocking; workers run until
// Stop is called.
func (j *JobService) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskNewUsersEmail, j.handleNewUsersEmailTask)
	mux.HandleFunc(TaskAdminDigest, j.handleAdminDigestTask)

	j.logger.Info().Msg("Starting background job server")

	if err := j.server.Start(mux); err != nil {
		return err
	}

	if j.cronSpec != "" {
		if _, err := j.cron.AddFunc(j.cronSpec, j.enqueueAdminDigest); err != nil {
			j.server.Shutdown()
			return err
		}
		j.cron.Start()
		j.logger.Info().Str("schedule", j.cronSpec).Msg("Scheduled daily admin digest")
	}

	return nil
}

// Stop gracefully stops the scheduler, the job server, and the client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	if j.cron != nil {
		j.cron.Stop()
	}
	j.server.Shutdown()
	j.Client.Close()
}
