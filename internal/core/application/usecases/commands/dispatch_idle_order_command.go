package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrDispatchIdleOrderCommandIsNotConstructed = errors.New(
	"DispatchIdleOrderCommand must be created via NewDispatchIdleOrderCommand constructor",
)

// DispatchIdleOrderCommand triggers one pairing attempt between the oldest
// idle ready order and the longest-waiting available driver. The dispatch
// sweep job issues it on a schedule; it carries no parameters because both
// sides of the pairing come from the broker queues.
type DispatchIdleOrderCommand struct {
	guard guard.ConstructorGuard
}

// NewDispatchIdleOrderCommand creates a command for one dispatch sweep step.
func NewDispatchIdleOrderCommand() DispatchIdleOrderCommand {
	return DispatchIdleOrderCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
// Returns ErrDispatchIdleOrderCommandIsNotConstructed if validation fails.
func (c DispatchIdleOrderCommand) Validate() error {
	return c.guard.Validate(ErrDispatchIdleOrderCommandIsNotConstructed)
}
