package queries

import (
	"context"

	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
)

// CheckDriverStatusQueryHandler reads the driver's dispatch state from the
// broker and their orders from the store. The read is opportunistic: an
// on-shift driver with no active work is handed the oldest idle ready order
// right here, the same direct-assign path a joining driver takes, so idle
// orders drain on every status poll and not only on shift changes.
//
// Example:
//
//	handler := NewCheckDriverStatusQueryHandler(uowFactory, engine)
//	query, _ := NewCheckDriverStatusQuery(driverID)
//	status, err := handler.Handle(ctx, query)
type CheckDriverStatusQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
	engine     services.DispatchEngine
}

// NewCheckDriverStatusQueryHandler creates a handler for driver status checks.
func NewCheckDriverStatusQueryHandler(
	uowFactory ports.UnitOfWorkFactory, engine services.DispatchEngine,
) CheckDriverStatusQueryHandler {
	return CheckDriverStatusQueryHandler{
		uowFactory: uowFactory,
		engine:     engine,
	}
}

// Handle executes the status check. The idle-order pull only runs for a
// driver who is on shift, not busy, and has no active orders; everyone else
// gets a pure read.
func (h CheckDriverStatusQueryHandler) Handle(
	ctx context.Context, query CheckDriverStatusQuery,
) (CheckDriverStatusResponse, error) {
	if err := query.Validate(); err != nil {
		return CheckDriverStatusResponse{}, err
	}

	driverID := query.DriverID()

	onShift, err := h.engine.IsOnShift(ctx, driverID)
	if err != nil {
		return CheckDriverStatusResponse{}, err
	}

	busy, err := h.engine.IsBusy(ctx, driverID)
	if err != nil {
		return CheckDriverStatusResponse{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return CheckDriverStatusResponse{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()

	active, err := repo.GetActiveByDriver(ctx, driverID)
	if err != nil {
		return CheckDriverStatusResponse{}, err
	}

	counts, err := repo.CountByStatusForDriver(ctx, driverID)
	if err != nil {
		return CheckDriverStatusResponse{}, err
	}

	response := CheckDriverStatusResponse{
		OnShift:      onShift,
		Busy:         busy,
		ActiveOrders: active,
		StatusCounts: counts,
	}

	if !onShift || busy || len(active) > 0 {
		if err = uow.Commit(ctx); err != nil {
			return CheckDriverStatusResponse{}, err
		}
		return response, nil
	}

	orderID, found, err := h.engine.PullIdleOrder(ctx)
	if err != nil {
		return CheckDriverStatusResponse{}, err
	}
	if !found {
		if err = uow.Commit(ctx); err != nil {
			return CheckDriverStatusResponse{}, err
		}
		return response, nil
	}

	o, err := repo.Get(ctx, orderID)
	if err != nil {
		_ = h.engine.QueueIdleOrder(ctx, orderID)
		return CheckDriverStatusResponse{}, err
	}

	if err = h.engine.ClaimDriver(ctx, driverID); err != nil {
		_ = h.engine.QueueIdleOrder(ctx, orderID)
		return CheckDriverStatusResponse{}, err
	}

	if err = o.AssignDriver(driverID); err != nil {
		_ = h.engine.ReleaseDriver(ctx, driverID)
		_ = h.engine.QueueIdleOrder(ctx, orderID)
		return CheckDriverStatusResponse{}, err
	}

	if err = repo.Update(ctx, o); err != nil {
		_ = h.engine.ReleaseDriver(ctx, driverID)
		_ = h.engine.QueueIdleOrder(ctx, orderID)
		return CheckDriverStatusResponse{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		_ = h.engine.ReleaseDriver(ctx, driverID)
		_ = h.engine.QueueIdleOrder(ctx, orderID)
		return CheckDriverStatusResponse{}, err
	}

	h.engine.NotifyAssignment(ctx, driverID, o)
	response.AssignedOrder = o

	return response, nil
}
