package commands

import (
	"context"

	"fulfillment/internal/core/domain/services"
)

// MarkOrderReadyCommandHandler moves a prepared order to Ready and hands it
// to the oldest available driver when one exists. The pop-and-mark-busy step
// is a single atomic broker operation, so two concurrent calls can never
// receive the same driver.
//
// Example:
//
//	handler := NewMarkOrderReadyCommandHandler(uowFactory, engine)
//	cmd, _ := NewMarkOrderReadyCommand(orderID)
//	err := handler.Handle(ctx, cmd)
type MarkOrderReadyCommandHandler struct {
	uowFactory OrderUoWFactory
	engine     services.DispatchEngine
}

// NewMarkOrderReadyCommandHandler creates a handler for the mark-ready flow.
func NewMarkOrderReadyCommandHandler(
	uowFactory OrderUoWFactory, engine services.DispatchEngine,
) MarkOrderReadyCommandHandler {
	return MarkOrderReadyCommandHandler{
		uowFactory: uowFactory,
		engine:     engine,
	}
}

// Handle processes the mark-ready command.
//
// Fails when the order is missing or already has a driver. When a driver is
// assigned, the order row commits before the driver is notified; when none is
// available, the order id joins the idle queue and the order stays driverless
// until a driver joins a shift or becomes idle.
func (h MarkOrderReadyCommandHandler) Handle(ctx context.Context, command MarkOrderReadyCommand) error {
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

	assignedDriver, err := assignReadyOrder(ctx, uow.OrderRepository(), h.engine, o)
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if assignedDriver != nil {
		h.engine.NotifyAssignment(ctx, *assignedDriver, o)
		return nil
	}

	return h.engine.QueueIdleOrder(ctx, o.ID())
}
