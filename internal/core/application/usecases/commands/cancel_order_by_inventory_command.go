package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrCancelOrderByInventoryCommandIsNotConstructed = errors.New(
	"CancelOrderByInventoryCommand must be created via NewCancelOrderByInventoryCommand constructor",
)

// CancelOrderByInventoryCommand represents inventory staff pre-empting an
// order that has not begun fulfillment, typically because an item is out of
// stock or damaged. An optional evidence image extension requests an upload
// ticket for a photo backing the cancellation.
type CancelOrderByInventoryCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	reason        string
	attachmentExt string

	guard guard.ConstructorGuard
}

// NewCancelOrderByInventoryCommand creates a command for inventory staff to
// cancel a pending order. attachmentExt may be empty when no evidence image
// will be uploaded.
func NewCancelOrderByInventoryCommand(
	orderID kernel.UUID, reason, attachmentExt string,
) (CancelOrderByInventoryCommand, error) {
	cancelCommand := CancelOrderByInventoryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cancelCommand.setOrderID(orderID),
		cancelCommand.setReason(reason),
	); err != nil {
		return CancelOrderByInventoryCommand{}, err
	}

	cancelCommand.attachmentExt = attachmentExt

	return cancelCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCancelOrderByInventoryCommandIsNotConstructed if validation fails.
func (c CancelOrderByInventoryCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderByInventoryCommandIsNotConstructed)
}

// OrderID returns the identifier of the order being cancelled.
func (c CancelOrderByInventoryCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Reason returns why inventory cancelled the order.
func (c CancelOrderByInventoryCommand) Reason() string {
	return c.reason
}

// AttachmentExt returns the evidence file extension, or "" when no upload
// ticket was requested.
func (c CancelOrderByInventoryCommand) AttachmentExt() string {
	return c.attachmentExt
}

func (c *CancelOrderByInventoryCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CancelOrderByInventoryCommand) setReason(reason string) error {
	if reason == "" {
		return ErrCancellationReasonIsRequired
	}

	c.reason = reason
	return nil
}
