package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrLeaveShiftCommandIsNotConstructed = errors.New(
	"LeaveShiftCommand must be created via NewLeaveShiftCommand constructor",
)

// LeaveShiftCommand represents a driver going off duty. A driver with an
// active delivery must finish or cancel it before leaving.
type LeaveShiftCommand struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

// NewLeaveShiftCommand creates a command for the driver to end their shift.
func NewLeaveShiftCommand(driverID kernel.UUID) (LeaveShiftCommand, error) {
	if err := driverID.Validate(); err != nil {
		return LeaveShiftCommand{}, err
	}

	return LeaveShiftCommand{
		driverID: driverID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrLeaveShiftCommandIsNotConstructed if validation fails.
func (c LeaveShiftCommand) Validate() error {
	return c.guard.Validate(ErrLeaveShiftCommandIsNotConstructed)
}

// DriverID returns the identifier of the driver leaving the shift.
func (c LeaveShiftCommand) DriverID() kernel.UUID {
	return c.driverID
}
