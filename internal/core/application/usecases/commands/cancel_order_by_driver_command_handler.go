package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
)

// CancelOrderByDriverCommandHandler aborts an active delivery. The order had
// reached the reserved stage, so the compensation restores stock, the coupon
// use, and the customer's spent points together with the cancellation record;
// the driver then returns to the available queue.
//
// Example:
//
//	handler := NewCancelOrderByDriverCommandHandler(uowFactory, engine)
//	cmd, _ := NewCancelOrderByDriverCommand(orderID, driverID, "customer unreachable")
//	err := handler.Handle(ctx, cmd)
type CancelOrderByDriverCommandHandler struct {
	uowFactory FulfillmentUoWFactory
	engine     services.DispatchEngine
}

// NewCancelOrderByDriverCommandHandler creates a handler for driver-side
// cancellations.
func NewCancelOrderByDriverCommandHandler(
	uowFactory FulfillmentUoWFactory, engine services.DispatchEngine,
) CancelOrderByDriverCommandHandler {
	return CancelOrderByDriverCommandHandler{
		uowFactory: uowFactory,
		engine:     engine,
	}
}

// Handle processes the driver cancellation.
//
// Preconditions: the caller is the assigned driver and the order is out for
// delivery. The compensation and the cancellation record commit atomically
// with the status change; the driver release runs only after the commit.
func (h CancelOrderByDriverCommandHandler) Handle(ctx context.Context, command CancelOrderByDriverCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		return err
	}

	if err = requireOrderDriver(o, command.DriverID()); err != nil {
		return err
	}
	if o.Status() != order.OutForDelivery {
		return errs.NewOperationNotAllowedError("orderId", "order is not out for delivery")
	}

	if _, err = finalizeCancellation(
		ctx, uow, o, command.Reason(), order.CancelledByDriver, "", time.Now().UTC(),
	); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return h.engine.ReleaseDriver(ctx, command.DriverID())
}
