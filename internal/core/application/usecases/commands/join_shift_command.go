package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrJoinShiftCommandIsNotConstructed = errors.New(
	"JoinShiftCommand must be created via NewJoinShiftCommand constructor",
)

// JoinShiftCommand represents a driver going on duty. Joining is idempotent:
// a driver already on shift simply refreshes their availability.
type JoinShiftCommand struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

// NewJoinShiftCommand creates a command for the driver to start a shift.
func NewJoinShiftCommand(driverID kernel.UUID) (JoinShiftCommand, error) {
	if err := driverID.Validate(); err != nil {
		return JoinShiftCommand{}, err
	}

	return JoinShiftCommand{
		driverID: driverID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrJoinShiftCommandIsNotConstructed if validation fails.
func (c JoinShiftCommand) Validate() error {
	return c.guard.Validate(ErrJoinShiftCommandIsNotConstructed)
}

// DriverID returns the identifier of the driver joining the shift.
func (c JoinShiftCommand) DriverID() kernel.UUID {
	return c.driverID
}
