// Package jobs provides scheduled background tasks for the fulfillment
// system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required by the dispatch subsystem.
//
// # Available Jobs
//
// 1. IdleOrderDispatchJob - Runs every second to pair queued idle ready
// orders with drivers as they come available
// 2. DriverReconcileJob - Runs every 30 seconds to release drivers left
// stuck in the busy set after a crash between commit and release
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(dispatchHandler, reconcileHandler, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// The dispatch job ignores the expected business sentinels (empty idle queue,
// no free drivers); everything else is logged. The reconcile job logs every
// error, since any failure there means broker and store state are drifting.
package jobs
