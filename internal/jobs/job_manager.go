package jobs

import (
	"fmt"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	idleOrderDispatchJob *IdleOrderDispatchJob
	driverReconcileJob   *DriverReconcileJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	dispatchHandler commands.DispatchIdleOrderCommandHandler,
	reconcileHandler commands.ReconcileDriversCommandHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		idleOrderDispatchJob: NewIdleOrderDispatchJob(dispatchHandler, logger),
		driverReconcileJob:   NewDriverReconcileJob(reconcileHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.idleOrderDispatchJob.Start(); err != nil {
		return fmt.Errorf("failed to start idle order dispatch job: %w", err)
	}

	if err := jm.driverReconcileJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.idleOrderDispatchJob.Stop()
		return fmt.Errorf("failed to start driver reconcile job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.driverReconcileJob.Stop()
	jm.idleOrderDispatchJob.Stop()
}
