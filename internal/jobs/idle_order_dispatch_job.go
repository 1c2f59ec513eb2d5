package jobs

import (
	"context"
	"errors"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// IdleOrderDispatchJob drains the idle ready-order queue. Orders that became
// ready while every driver was busy sit in the queue; this job runs every
// second and pairs the oldest one with the next available driver.
type IdleOrderDispatchJob struct {
	handler commands.DispatchIdleOrderCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewIdleOrderDispatchJob creates the dispatch sweep job.
func NewIdleOrderDispatchJob(
	handler commands.DispatchIdleOrderCommandHandler, logger *slog.Logger,
) *IdleOrderDispatchJob {
	return &IdleOrderDispatchJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "idle_order_dispatch_job"),
	}
}

// Start begins the dispatch job, running every second.
func (j *IdleOrderDispatchJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewDispatchIdleOrderCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			// An empty queue or no free drivers is the normal idle state.
			if !errors.Is(err, commands.ErrNoIdleOrderFound) &&
				!errors.Is(err, commands.ErrNoAvailableDriverFound) {
				j.logger.ErrorContext(ctx, "Idle order dispatch job failed", "error", err)
			}
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Idle order dispatch job started (running every second)")
	return nil
}

// Stop stops the dispatch job.
func (j *IdleOrderDispatchJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Idle order dispatch job stopped")
}
