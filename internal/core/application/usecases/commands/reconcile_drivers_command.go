package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrReconcileDriversCommandIsNotConstructed = errors.New(
	"ReconcileDriversCommand must be created via NewReconcileDriversCommand constructor",
)

// ReconcileDriversCommand triggers a sweep over the busy-driver set looking
// for drivers whose delivery finished without the release step, typically
// after a crash between the database commit and the broker update. The
// reconcile job issues it on a schedule.
type ReconcileDriversCommand struct {
	guard guard.ConstructorGuard
}

// NewReconcileDriversCommand creates a command for one reconcile sweep.
func NewReconcileDriversCommand() ReconcileDriversCommand {
	return ReconcileDriversCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
// Returns ErrReconcileDriversCommandIsNotConstructed if validation fails.
func (c ReconcileDriversCommand) Validate() error {
	return c.guard.Validate(ErrReconcileDriversCommandIsNotConstructed)
}
