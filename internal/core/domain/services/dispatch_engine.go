package services

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// DispatchEngine matches ready orders to on-duty drivers on top of the
// dispatch broker's atomic primitives. It also owns the push notification a
// driver receives when an order lands on them.
//
// The engine never caches driver state in-process: every decision is a broker
// round trip, so concurrent instances of the service cannot double-assign a
// driver. The invariant-critical step, popping the next available driver and
// marking it busy, is a single atomic broker operation.
type DispatchEngine struct {
	broker   ports.DispatchBroker
	notifier ports.DriverNotifier
}

// NewDispatchEngine creates a DispatchEngine on the given broker and notifier.
func NewDispatchEngine(broker ports.DispatchBroker, notifier ports.DriverNotifier) DispatchEngine {
	return DispatchEngine{broker: broker, notifier: notifier}
}

// RequestDriver atomically takes the oldest available driver and marks it
// busy. Returns ok=false when nobody is available; the caller then queues the
// order as idle instead.
func (e DispatchEngine) RequestDriver(ctx context.Context) (kernel.UUID, bool, error) {
	return e.broker.PopAvailableNotBusy(ctx)
}

// ClaimDriver moves a specific driver from available to busy, idempotently.
// Used when a driver accepts an order already assigned to them, and when an
// idle ready order is handed to a joining driver directly.
func (e DispatchEngine) ClaimDriver(ctx context.Context, driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	return e.broker.ClaimDriver(ctx, driverID)
}

// ReleaseDriver returns a driver to the available queue after their delivery
// finished or was cancelled.
func (e DispatchEngine) ReleaseDriver(ctx context.Context, driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	return e.broker.ReleaseDriver(ctx, driverID)
}

// EnterShift puts the driver on duty: into the shift set and, idempotently,
// onto the available queue.
func (e DispatchEngine) EnterShift(ctx context.Context, driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if err := e.broker.AddAvailable(ctx, driverID); err != nil {
		return err
	}
	return e.broker.AddShift(ctx, driverID)
}

// ExitShift takes the driver off duty. A busy driver must finish or cancel
// their active delivery first.
func (e DispatchEngine) ExitShift(ctx context.Context, driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	busy, err := e.broker.IsBusy(ctx, driverID)
	if err != nil {
		return err
	}
	if busy {
		return errs.NewOperationNotAllowedError("driverId", "driver has an active delivery")
	}

	if err := e.broker.RemoveAvailable(ctx, driverID); err != nil {
		return err
	}
	return e.broker.RemoveShift(ctx, driverID)
}

// IsBusy reports whether the driver currently serves a delivery.
func (e DispatchEngine) IsBusy(ctx context.Context, driverID kernel.UUID) (bool, error) {
	if err := driverID.Validate(); err != nil {
		return false, err
	}
	return e.broker.IsBusy(ctx, driverID)
}

// IsOnShift reports whether the driver is on duty.
func (e DispatchEngine) IsOnShift(ctx context.Context, driverID kernel.UUID) (bool, error) {
	if err := driverID.Validate(); err != nil {
		return false, err
	}
	return e.broker.IsOnShift(ctx, driverID)
}

// QueueIdleOrder records a ready order that found no driver.
func (e DispatchEngine) QueueIdleOrder(ctx context.Context, orderID kernel.UUID) error {
	return e.broker.PushIdleOrder(ctx, orderID)
}

// PullIdleOrder takes the oldest ready order that is still waiting for a
// driver. Returns ok=false when none is queued.
func (e DispatchEngine) PullIdleOrder(ctx context.Context) (kernel.UUID, bool, error) {
	return e.broker.PopIdleOrder(ctx)
}

// NotifyAssignment pushes the order's contents and the cash to collect to the
// assigned driver. Best effort: an offline driver simply misses the push and
// finds the order when they next check their status.
func (e DispatchEngine) NotifyAssignment(ctx context.Context, driverID kernel.UUID, o *order.Order) {
	items := o.Items()
	payloadItems := make([]ports.AssignmentItem, len(items))
	for i, item := range items {
		payloadItems[i] = ports.AssignmentItem{
			ProductID: item.ProductID(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice(),
		}
	}

	e.notifier.Send(ctx, driverID, ports.AssignmentPayload{
		OrderID:         o.ID(),
		CustomerName:    o.CustomerName(),
		CustomerPhone:   o.CustomerPhone(),
		DeliveryAddress: o.DeliveryAddress(),
		Items:           payloadItems,
		Total:           o.Total(),
		CashToCollect:   o.CashToCollect(),
	})
}
