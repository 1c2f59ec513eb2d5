package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrCancelOrderByDriverCommandIsNotConstructed = errors.New(
	"CancelOrderByDriverCommand must be created via NewCancelOrderByDriverCommand constructor",
)

// CancelOrderByDriverCommand represents a driver aborting an active delivery,
// for example when the customer is unreachable at the address.
type CancelOrderByDriverCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	driverID kernel.UUID
	reason   string

	guard guard.ConstructorGuard
}

// NewCancelOrderByDriverCommand creates a command for the driver to cancel
// their active delivery. The reason is mandatory.
func NewCancelOrderByDriverCommand(
	orderID, driverID kernel.UUID, reason string,
) (CancelOrderByDriverCommand, error) {
	cancelCommand := CancelOrderByDriverCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cancelCommand.setOrderID(orderID),
		cancelCommand.setDriverID(driverID),
		cancelCommand.setReason(reason),
	); err != nil {
		return CancelOrderByDriverCommand{}, err
	}

	return cancelCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCancelOrderByDriverCommandIsNotConstructed if validation fails.
func (c CancelOrderByDriverCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderByDriverCommandIsNotConstructed)
}

// OrderID returns the identifier of the order being cancelled.
func (c CancelOrderByDriverCommand) OrderID() kernel.UUID {
	return c.orderID
}

// DriverID returns the identifier of the cancelling driver.
func (c CancelOrderByDriverCommand) DriverID() kernel.UUID {
	return c.driverID
}

// Reason returns why the driver cancelled.
func (c CancelOrderByDriverCommand) Reason() string {
	return c.reason
}

func (c *CancelOrderByDriverCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CancelOrderByDriverCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}

func (c *CancelOrderByDriverCommand) setReason(reason string) error {
	if reason == "" {
		return ErrCancellationReasonIsRequired
	}

	c.reason = reason
	return nil
}
