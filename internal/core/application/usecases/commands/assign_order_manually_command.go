package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrAssignOrderManuallyCommandIsNotConstructed = errors.New(
	"AssignOrderManuallyCommand must be created via NewAssignOrderManuallyCommand constructor",
)

// AssignOrderManuallyCommand represents an admin override that pins a
// specific driver onto an unassigned order, bypassing the dispatch queues.
type AssignOrderManuallyCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAssignOrderManuallyCommand creates a command to assign the order to the
// given staff member.
func NewAssignOrderManuallyCommand(orderID, driverID kernel.UUID) (AssignOrderManuallyCommand, error) {
	assignCommand := AssignOrderManuallyCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		assignCommand.setOrderID(orderID),
		assignCommand.setDriverID(driverID),
	); err != nil {
		return AssignOrderManuallyCommand{}, err
	}

	return assignCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAssignOrderManuallyCommandIsNotConstructed if validation fails.
func (c AssignOrderManuallyCommand) Validate() error {
	return c.guard.Validate(ErrAssignOrderManuallyCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to assign.
func (c AssignOrderManuallyCommand) OrderID() kernel.UUID {
	return c.orderID
}

// DriverID returns the identifier of the staff member receiving the order.
func (c AssignOrderManuallyCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c *AssignOrderManuallyCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AssignOrderManuallyCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}
