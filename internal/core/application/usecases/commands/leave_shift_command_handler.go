package commands

import (
	"context"

	"fulfillment/internal/core/domain/services"
)

// LeaveShiftCommandHandler takes a driver off duty. The busy check and the
// removal run against the shared broker, so the rejection of a driver
// mid-delivery holds across every service instance.
type LeaveShiftCommandHandler struct {
	engine services.DispatchEngine
}

// NewLeaveShiftCommandHandler creates a handler for the leave-shift flow.
func NewLeaveShiftCommandHandler(engine services.DispatchEngine) LeaveShiftCommandHandler {
	return LeaveShiftCommandHandler{engine: engine}
}

// Handle processes the leave-shift command. A busy driver gets an
// operation-not-allowed error and stays busy; otherwise the driver leaves
// both the available queue and the shift set.
func (h LeaveShiftCommandHandler) Handle(ctx context.Context, command LeaveShiftCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	return h.engine.ExitShift(ctx, command.DriverID())
}
