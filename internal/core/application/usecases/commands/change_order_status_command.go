package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
		"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
	)
	ErrCancellationReasonIsRequired = errors.New("cancellation reason is required")
)

// ChangeOrderStatusCommand represents a staff-initiated order status change.
// For a cancellation target it also carries the cancellation details: the
// reason, who cancels, and optionally the file extension of an evidence image
// the caller wants to upload.
//
// Example:
//
//	cmd, err := NewChangeOrderStatusCommand(orderID, order.Cancelled,
//	    "spoiled produce", order.CancelledByInventory, "jpg")
//	if err != nil {
//	    return fmt.Errorf("invalid status change: %w", err)
//	}
//	result, err := handler.Handle(ctx, cmd)
type ChangeOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	targetStatus  order.Status
	reason        string
	cancelledBy   order.CancelledBy
	attachmentExt string

	guard guard.ConstructorGuard
}

// NewChangeOrderStatusCommand creates a command to move an order to the given
// status. Cancellation details are validated only when the target status is
// Cancelled and are ignored otherwise.
func NewChangeOrderStatusCommand(
	orderID kernel.UUID,
	targetStatus order.Status,
	reason string,
	cancelledBy order.CancelledBy,
	attachmentExt string,
) (ChangeOrderStatusCommand, error) {
	statusCommand := ChangeOrderStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		statusCommand.setOrderID(orderID),
		statusCommand.setTargetStatus(targetStatus),
		statusCommand.setCancellation(targetStatus, reason, cancelledBy, attachmentExt),
	); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	return statusCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrChangeOrderStatusCommandIsNotConstructed if validation fails.
func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to change.
func (c ChangeOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// TargetStatus returns the status the order should move to.
func (c ChangeOrderStatusCommand) TargetStatus() order.Status {
	return c.targetStatus
}

// Reason returns the cancellation reason. Empty unless the target is Cancelled.
func (c ChangeOrderStatusCommand) Reason() string {
	return c.reason
}

// CancelledBy returns who initiates the cancellation.
func (c ChangeOrderStatusCommand) CancelledBy() order.CancelledBy {
	return c.cancelledBy
}

// AttachmentExt returns the evidence file extension, or "" when no upload
// ticket was requested.
func (c ChangeOrderStatusCommand) AttachmentExt() string {
	return c.attachmentExt
}

func (c *ChangeOrderStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ChangeOrderStatusCommand) setTargetStatus(targetStatus order.Status) error {
	if err := targetStatus.Validate(); err != nil {
		return err
	}

	c.targetStatus = targetStatus
	return nil
}

func (c *ChangeOrderStatusCommand) setCancellation(
	targetStatus order.Status, reason string, cancelledBy order.CancelledBy, attachmentExt string,
) error {
	if targetStatus != order.Cancelled {
		return nil
	}

	if reason == "" {
		return ErrCancellationReasonIsRequired
	}
	if err := cancelledBy.Validate(); err != nil {
		return err
	}

	c.reason = reason
	c.cancelledBy = cancelledBy
	c.attachmentExt = attachmentExt
	return nil
}
