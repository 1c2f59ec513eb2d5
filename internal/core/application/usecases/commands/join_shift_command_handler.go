package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
)

// JoinShiftResult is the resume information handed back to a driver starting
// a shift: the orders already on their plate from an interrupted shift, their
// per-status counts, and the idle order directly assigned to them, if any.
type JoinShiftResult struct {
	ActiveOrders  []*order.Order
	StatusCounts  map[order.Status]int
	AssignedOrder *order.Order
}

// JoinShiftCommandHandler puts a driver on duty and resumes or starts their
// work. A driver with no active orders is immediately paired with the oldest
// idle ready order when one is waiting, bypassing the available-queue
// hand-off.
//
// Example:
//
//	handler := NewJoinShiftCommandHandler(uowFactory, engine)
//	cmd, _ := NewJoinShiftCommand(driverID)
//	result, err := handler.Handle(ctx, cmd)
type JoinShiftCommandHandler struct {
	uowFactory OrderUoWFactory
	engine     services.DispatchEngine
}

// NewJoinShiftCommandHandler creates a handler for the join-shift flow.
func NewJoinShiftCommandHandler(
	uowFactory OrderUoWFactory, engine services.DispatchEngine,
) JoinShiftCommandHandler {
	return JoinShiftCommandHandler{
		uowFactory: uowFactory,
		engine:     engine,
	}
}

// Handle processes the join-shift command.
//
// The driver enters the available queue and the shift set first. If they are
// resuming an interrupted shift their active orders are returned untouched;
// otherwise the oldest idle ready order, when present, is claimed for them:
// the driver moves to busy before the order row commits, so a concurrent
// mark-ready cannot hand the same driver a second order.
func (h JoinShiftCommandHandler) Handle(ctx context.Context, command JoinShiftCommand) (JoinShiftResult, error) {
	if err := command.Validate(); err != nil {
		return JoinShiftResult{}, err
	}

	driverID := command.DriverID()
	if err := h.engine.EnterShift(ctx, driverID); err != nil {
		return JoinShiftResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return JoinShiftResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()

	active, err := repo.GetActiveByDriver(ctx, driverID)
	if err != nil {
		return JoinShiftResult{}, err
	}

	counts, err := repo.CountByStatusForDriver(ctx, driverID)
	if err != nil {
		return JoinShiftResult{}, err
	}

	result := JoinShiftResult{ActiveOrders: active, StatusCounts: counts}

	if len(active) > 0 {
		if err = uow.Commit(ctx); err != nil {
			return JoinShiftResult{}, err
		}
		return result, nil
	}

	orderID, found, err := h.engine.PullIdleOrder(ctx)
	if err != nil {
		return JoinShiftResult{}, err
	}
	if !found {
		if err = uow.Commit(ctx); err != nil {
			return JoinShiftResult{}, err
		}
		return result, nil
	}

	o, err := repo.Get(ctx, orderID)
	if err != nil {
		h.requeueIdle(ctx, orderID)
		return JoinShiftResult{}, err
	}

	if err = h.engine.ClaimDriver(ctx, driverID); err != nil {
		h.requeueIdle(ctx, orderID)
		return JoinShiftResult{}, err
	}

	if err = h.directAssign(ctx, uow, o, driverID); err != nil {
		_ = h.engine.ReleaseDriver(ctx, driverID)
		h.requeueIdle(ctx, orderID)
		return JoinShiftResult{}, err
	}

	h.engine.NotifyAssignment(ctx, driverID, o)
	result.AssignedOrder = o

	return result, nil
}

func (h JoinShiftCommandHandler) directAssign(
	ctx context.Context, uow OrderUoW, o *order.Order, driverID kernel.UUID,
) error {
	if err := o.AssignDriver(driverID); err != nil {
		return err
	}
	if err := uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

// requeueIdle pushes a pulled idle order back when the direct assignment
// could not complete, so the order is not lost to the dispatch jobs.
func (h JoinShiftCommandHandler) requeueIdle(ctx context.Context, orderID kernel.UUID) {
	_ = h.engine.QueueIdleOrder(ctx, orderID)
}
