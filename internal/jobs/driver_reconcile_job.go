package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DriverReconcileJob repairs broker state after crashes. The database commit
// and the broker release are separate steps, so a crash in between leaves a
// driver marked busy with no active order; this job runs every 30 seconds
// and releases such drivers back into the assignment rotation.
type DriverReconcileJob struct {
	handler commands.ReconcileDriversCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewDriverReconcileJob creates the reconcile sweep job.
func NewDriverReconcileJob(
	handler commands.ReconcileDriversCommandHandler, logger *slog.Logger,
) *DriverReconcileJob {
	return &DriverReconcileJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "driver_reconcile_job"),
	}
}

// Start begins the reconcile job, running every 30 seconds.
func (j *DriverReconcileJob) Start() error {
	_, err := j.cron.AddFunc("*/30 * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewReconcileDriversCommand()

		released, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Driver reconcile job failed", "error", err)
			return
		}
		if released > 0 {
			j.logger.InfoContext(ctx, "Released stuck busy drivers", "count", released)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Driver reconcile job started (running every 30 seconds)")
	return nil
}

// Stop stops the reconcile job.
func (j *DriverReconcileJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Driver reconcile job stopped")
}
