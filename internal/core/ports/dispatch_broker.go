package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// DispatchBroker is the externalized, race-free coordination state for driver
// availability. Every service instance shares one broker, so no in-process
// state is authoritative for assignment decisions.
//
// The broker holds four structures:
//   - "available": FIFO queue of driver ids eligible for a new assignment
//   - "busy": set of driver ids currently serving a delivery
//   - "shift": set of driver ids on duty, whether available or busy
//   - "idle ready orders": FIFO queue of order ids that became ready while no
//     driver was available
//
// Invariant: a driver id is never a member of both "available" and "busy".
// Operations documented as atomic are single indivisible broker-side steps;
// implementations must not synthesize them from separate read and write
// round trips.
type DispatchBroker interface {
	// PopAvailableNotBusy atomically pops the head of the available queue,
	// and only if the popped driver is not already busy marks it busy and
	// returns it. A stale head that is somehow busy is discarded and the
	// call reports no driver rather than handing out inconsistent state.
	// Returns (zero UUID, false) when no driver is available.
	PopAvailableNotBusy(ctx context.Context) (kernel.UUID, bool, error)

	// ClaimDriver atomically moves the driver from available to busy.
	// Idempotent: claiming an already busy driver succeeds without
	// duplicating state.
	ClaimDriver(ctx context.Context, driverID kernel.UUID) error

	// ReleaseDriver atomically removes the driver from busy and re-queues it
	// on available (no duplicate insertion).
	ReleaseDriver(ctx context.Context, driverID kernel.UUID) error

	// AddAvailable enqueues the driver for assignment unless already queued.
	// The membership check and the push are one atomic step.
	AddAvailable(ctx context.Context, driverID kernel.UUID) error

	// RemoveAvailable drops the driver from the available queue.
	RemoveAvailable(ctx context.Context, driverID kernel.UUID) error

	// IsBusy reports whether the driver is serving a delivery.
	IsBusy(ctx context.Context, driverID kernel.UUID) (bool, error)

	// BusyDrivers lists every driver currently marked busy.
	BusyDrivers(ctx context.Context) ([]kernel.UUID, error)

	// AddShift / RemoveShift / IsOnShift manage the on-duty set.
	AddShift(ctx context.Context, driverID kernel.UUID) error
	RemoveShift(ctx context.Context, driverID kernel.UUID) error
	IsOnShift(ctx context.Context, driverID kernel.UUID) (bool, error)

	// PushIdleOrder appends a ready-but-driverless order to the idle queue.
	PushIdleOrder(ctx context.Context, orderID kernel.UUID) error

	// PopIdleOrder removes and returns the oldest idle ready order.
	// Returns (zero UUID, false) when the queue is empty.
	PopIdleOrder(ctx context.Context) (kernel.UUID, bool, error)

	// IncrDeliveryAttempts counts one delivery-PIN attempt for the order and
	// returns the running total inside the TTL window. The counter expires
	// on its own so a mistaken driver is never locked out permanently.
	IncrDeliveryAttempts(ctx context.Context, orderID kernel.UUID, window time.Duration) (int, error)

	// ClearDeliveryAttempts forgets the order's attempt counter after a
	// successful verification.
	ClearDeliveryAttempts(ctx context.Context, orderID kernel.UUID) error

	// StoreUploadTicket indexes an issued upload ticket by filename so the
	// evidence file can be associated with its cancellation when it lands.
	StoreUploadTicket(ctx context.Context, filename string, cancellationID kernel.UUID, ttl time.Duration) error
}
