package commands

import (
	"context"

	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
)

// AssignOrderManuallyCommandHandler pins a driver onto an unassigned order
// on an admin's say-so. The broker queues are left untouched: the override
// does not pull the driver out of the available queue, it only writes the
// assignment and notifies the driver. The driver moves to busy when they
// accept the order.
//
// Example:
//
//	handler := NewAssignOrderManuallyCommandHandler(uowFactory, engine)
//	cmd, _ := NewAssignOrderManuallyCommand(orderID, driverID)
//	err := handler.Handle(ctx, cmd)
type AssignOrderManuallyCommandHandler struct {
	uowFactory AssignmentUoWFactory
	engine     services.DispatchEngine
}

// NewAssignOrderManuallyCommandHandler creates a handler for manual order
// assignment.
func NewAssignOrderManuallyCommandHandler(
	uowFactory AssignmentUoWFactory, engine services.DispatchEngine,
) AssignOrderManuallyCommandHandler {
	return AssignOrderManuallyCommandHandler{
		uowFactory: uowFactory,
		engine:     engine,
	}
}

// Handle processes the manual assignment.
//
// Fails when the order already has a driver, when the staff member does not
// exist, or when their role is not driver.
func (h AssignOrderManuallyCommandHandler) Handle(ctx context.Context, command AssignOrderManuallyCommand) error {
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

	if o.Driver() != nil {
		return errs.NewOperationNotAllowedError("orderId", "order already has a driver assigned")
	}

	member, err := uow.StaffRepository().Get(ctx, command.DriverID())
	if err != nil {
		return err
	}
	if !member.IsDriver() {
		return errs.NewOperationNotAllowedError("driverId", "staff member is not a driver")
	}

	if err = o.AssignDriver(command.DriverID()); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.engine.NotifyAssignment(ctx, command.DriverID(), o)

	return nil
}
