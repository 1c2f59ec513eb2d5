package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrMarkOrderDeliveredCommandIsNotConstructed = errors.New(
		"MarkOrderDeliveredCommand must be created via NewMarkOrderDeliveredCommand constructor",
	)
	ErrVerificationCodeIsRequired = errors.New("verification code is required")
)

// MarkOrderDeliveredCommand represents the handoff confirmation: the driver
// submits the verification code the customer received when the order was
// placed.
type MarkOrderDeliveredCommand struct { //nolint:recvcheck //using for validation
	orderID          kernel.UUID
	driverID         kernel.UUID
	verificationCode string

	guard guard.ConstructorGuard
}

// NewMarkOrderDeliveredCommand creates a command to confirm the delivery.
func NewMarkOrderDeliveredCommand(
	orderID, driverID kernel.UUID, verificationCode string,
) (MarkOrderDeliveredCommand, error) {
	deliveredCommand := MarkOrderDeliveredCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		deliveredCommand.setOrderID(orderID),
		deliveredCommand.setDriverID(driverID),
		deliveredCommand.setVerificationCode(verificationCode),
	); err != nil {
		return MarkOrderDeliveredCommand{}, err
	}

	return deliveredCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrMarkOrderDeliveredCommandIsNotConstructed if validation fails.
func (c MarkOrderDeliveredCommand) Validate() error {
	return c.guard.Validate(ErrMarkOrderDeliveredCommandIsNotConstructed)
}

// OrderID returns the identifier of the order being delivered.
func (c MarkOrderDeliveredCommand) OrderID() kernel.UUID {
	return c.orderID
}

// DriverID returns the identifier of the delivering driver.
func (c MarkOrderDeliveredCommand) DriverID() kernel.UUID {
	return c.driverID
}

// VerificationCode returns the delivery PIN the driver collected from the
// customer.
func (c MarkOrderDeliveredCommand) VerificationCode() string {
	return c.verificationCode
}

func (c *MarkOrderDeliveredCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *MarkOrderDeliveredCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}

func (c *MarkOrderDeliveredCommand) setVerificationCode(verificationCode string) error {
	if verificationCode == "" {
		return ErrVerificationCodeIsRequired
	}

	c.verificationCode = verificationCode
	return nil
}
