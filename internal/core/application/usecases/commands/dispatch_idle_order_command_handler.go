package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
)

var (
	// ErrNoIdleOrderFound: the idle queue is empty, nothing to dispatch.
	ErrNoIdleOrderFound = errors.New("no idle order found")

	// ErrNoAvailableDriverFound: an idle order is waiting but every driver
	// is busy or off shift. The order stays queued.
	ErrNoAvailableDriverFound = errors.New("no available driver found")
)

// DispatchIdleOrderCommandHandler pairs one queued idle ready order with one
// available driver. It backs the dispatch sweep job: orders that became ready
// while no driver was free drain through here as drivers come available.
//
// Example:
//
//	handler := NewDispatchIdleOrderCommandHandler(uowFactory, engine)
//	cmd := NewDispatchIdleOrderCommand()
//	err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, ErrNoIdleOrderFound):
//	case errors.Is(err, ErrNoAvailableDriverFound):
//	case err != nil:
//	    log.Printf("dispatch failed: %v", err)
//	}
type DispatchIdleOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	engine     services.DispatchEngine
}

// NewDispatchIdleOrderCommandHandler creates a handler for the dispatch
// sweep step.
func NewDispatchIdleOrderCommandHandler(
	uowFactory OrderUoWFactory, engine services.DispatchEngine,
) DispatchIdleOrderCommandHandler {
	return DispatchIdleOrderCommandHandler{
		uowFactory: uowFactory,
		engine:     engine,
	}
}

// Handle processes one pairing attempt.
//
// The idle order is pulled first, then a driver is claimed through the atomic
// available-to-busy hand-off. Either side missing re-queues what was taken
// and reports the corresponding sentinel. A stale queue entry for an order
// that meanwhile got a driver or left Ready is dropped and the claimed driver
// released.
func (h DispatchIdleOrderCommandHandler) Handle(ctx context.Context, command DispatchIdleOrderCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	orderID, found, err := h.engine.PullIdleOrder(ctx)
	if err != nil {
		return err
	}
	if !found {
		return ErrNoIdleOrderFound
	}

	driverID, found, err := h.engine.RequestDriver(ctx)
	if err != nil {
		_ = h.engine.QueueIdleOrder(ctx, orderID)
		return err
	}
	if !found {
		_ = h.engine.QueueIdleOrder(ctx, orderID)
		return ErrNoAvailableDriverFound
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		_ = h.engine.ReleaseDriver(ctx, driverID)
		_ = h.engine.QueueIdleOrder(ctx, orderID)
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		_ = h.engine.ReleaseDriver(ctx, driverID)
		_ = h.engine.QueueIdleOrder(ctx, orderID)
		return err
	}

	if o.Driver() != nil || o.Status() != order.Ready {
		// Stale queue entry; the order found its driver some other way.
		_ = h.engine.ReleaseDriver(ctx, driverID)
		return nil
	}

	if err = o.AssignDriver(driverID); err != nil {
		_ = h.engine.ReleaseDriver(ctx, driverID)
		_ = h.engine.QueueIdleOrder(ctx, orderID)
		return err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		_ = h.engine.ReleaseDriver(ctx, driverID)
		_ = h.engine.QueueIdleOrder(ctx, orderID)
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		_ = h.engine.ReleaseDriver(ctx, driverID)
		_ = h.engine.QueueIdleOrder(ctx, orderID)
		return err
	}

	h.engine.NotifyAssignment(ctx, driverID, o)
	return nil
}
