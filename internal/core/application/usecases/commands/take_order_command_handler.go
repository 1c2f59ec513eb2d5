package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
)

// TakeOrderCommandHandler starts a delivery: the assigned driver accepts a
// ready order, moves to busy, and the order goes out for delivery.
//
// Example:
//
//	handler := NewTakeOrderCommandHandler(uowFactory, engine)
//	cmd, _ := NewTakeOrderCommand(orderID, driverID)
//	err := handler.Handle(ctx, cmd)
type TakeOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	engine     services.DispatchEngine
}

// NewTakeOrderCommandHandler creates a handler for the take-order flow.
func NewTakeOrderCommandHandler(
	uowFactory OrderUoWFactory, engine services.DispatchEngine,
) TakeOrderCommandHandler {
	return TakeOrderCommandHandler{
		uowFactory: uowFactory,
		engine:     engine,
	}
}

// Handle processes the take-order command.
//
// Fails with access-denied when the order is assigned to a different driver,
// and with operation-not-allowed when the order is not in Ready. The claim on
// the broker is idempotent, so a driver already marked busy by the assignment
// pop accepts without duplicating state.
func (h TakeOrderCommandHandler) Handle(ctx context.Context, command TakeOrderCommand) error {
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
	if o.Status() != order.Ready {
		return errs.NewOperationNotAllowedError("orderId", "order is not ready for pickup")
	}

	if err = h.engine.ClaimDriver(ctx, command.DriverID()); err != nil {
		return err
	}

	if err = o.StartDelivery(); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
