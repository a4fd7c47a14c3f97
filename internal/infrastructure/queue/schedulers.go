package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"library-backend/internal/shared"
	"library-backend/pkg/logger"
)

// Scheduler registers the periodic jobs with asynq's cron scheduler. It runs
// inside the worker binary, next to the task server that consumes the jobs.
type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddr string) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddr},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{scheduler: scheduler}
}

// RegisterJobs wires up every cron entry.
func (s *Scheduler) RegisterJobs() error {
	return s.registerNotifyOverdueJob()
}

// Overdue reminder sweep, every 30 minutes. The handler only touches ledger
// records more than a day past due that have not been notified yet, so the
// frequent schedule costs little.
func (s *Scheduler) registerNotifyOverdueJob() error {
	payload, err := json.Marshal(shared.NotifyOverduePayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeNotifyOverdueBorrowers, payload)

	_, err = s.scheduler.Register(
		"*/30 * * * *",
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(2),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register NotifyOverdueBorrowers job", err)
		return err
	}

	logger.Info("Registered NotifyOverdueBorrowers: every 30 minutes", map[string]interface{}{})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
