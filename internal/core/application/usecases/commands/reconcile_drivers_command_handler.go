package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// ReconcileDriversCommandHandler releases drivers stuck in the busy set.
//
// The database commits before the broker release, so a crash in between
// leaves a driver busy forever with no order to show for it. The sweep walks
// the busy set and releases every driver with no active order, putting them
// back in the assignment rotation. A driver who is busy because an order was
// directly assigned and not yet picked up still has an active Ready order and
// is left alone.
type ReconcileDriversCommandHandler struct {
	uowFactory OrderUoWFactory
	broker     ports.DispatchBroker
}

// NewReconcileDriversCommandHandler creates a handler for the reconcile
// sweep.
func NewReconcileDriversCommandHandler(
	uowFactory OrderUoWFactory, broker ports.DispatchBroker,
) ReconcileDriversCommandHandler {
	return ReconcileDriversCommandHandler{
		uowFactory: uowFactory,
		broker:     broker,
	}
}

// Handle processes one reconcile sweep and returns how many drivers were
// released.
func (h ReconcileDriversCommandHandler) Handle(ctx context.Context, command ReconcileDriversCommand) (int, error) {
	if err := command.Validate(); err != nil {
		return 0, err
	}

	busy, err := h.broker.BusyDrivers(ctx)
	if err != nil {
		return 0, err
	}
	if len(busy) == 0 {
		return 0, nil
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()

	released := 0
	for _, driverID := range busy {
		active, err := repo.GetActiveByDriver(ctx, driverID)
		if err != nil {
			return released, err
		}
		if len(active) > 0 {
			continue
		}

		if err = h.broker.ReleaseDriver(ctx, driverID); err != nil {
			return released, err
		}
		released++
	}

	if err = uow.Commit(ctx); err != nil {
		return released, err
	}

	return released, nil
}
