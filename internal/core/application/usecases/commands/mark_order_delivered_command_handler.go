package commands

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// MarkOrderDeliveredCommandHandler confirms a handoff. The submitted code is
// hashed and compared against the order's verification hash in constant time;
// a per-order attempt counter with a short TTL caps brute-force attempts. On
// success the delivered plan (ledger, stock, deliveredAt) commits atomically
// with the status change, and the driver returns to the available queue.
//
// Example:
//
//	handler := NewMarkOrderDeliveredCommandHandler(uowFactory, engine, settings, broker)
//	cmd, _ := NewMarkOrderDeliveredCommand(orderID, driverID, "4821")
//	err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrTooManyAttempts) {
//	    // driver must wait out the attempt window
//	}
type MarkOrderDeliveredCommandHandler struct {
	uowFactory FulfillmentUoWFactory
	engine     services.DispatchEngine
	settings   ports.SettingsProvider
	broker     ports.DispatchBroker
}

// NewMarkOrderDeliveredCommandHandler creates a handler for the delivery
// confirmation flow.
func NewMarkOrderDeliveredCommandHandler(
	uowFactory FulfillmentUoWFactory,
	engine services.DispatchEngine,
	settings ports.SettingsProvider,
	broker ports.DispatchBroker,
) MarkOrderDeliveredCommandHandler {
	return MarkOrderDeliveredCommandHandler{
		uowFactory: uowFactory,
		engine:     engine,
		settings:   settings,
		broker:     broker,
	}
}

// Handle processes the delivery confirmation.
//
// Preconditions: the caller is the assigned driver and the order is out for
// delivery. An order that was never issued a delivery PIN cannot be confirmed
// this way. The attempt is counted before the code is checked, so the call
// after the ceiling is rejected regardless of whether the code is correct.
func (h MarkOrderDeliveredCommandHandler) Handle(ctx context.Context, command MarkOrderDeliveredCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		return err
	}

	if err = requireOrderDriver(o, command.DriverID()); err != nil {
		return err
	}
	if o.Status() != order.OutForDelivery {
		return errs.NewOperationNotAllowedError("orderId", "order is not out for delivery")
	}

	expectedHash := o.VerificationHash()
	if expectedHash == nil {
		return errs.NewValueIsRequiredError("verificationHash")
	}

	attempts, err := h.broker.IncrDeliveryAttempts(ctx, o.ID(), deliveryAttemptWindow)
	if err != nil {
		return err
	}
	if attempts > maxDeliveryAttempts {
		return errs.NewTooManyAttemptsError("verificationCode", maxDeliveryAttempts)
	}

	submitted := sha256.Sum256([]byte(command.VerificationCode()))
	submittedHex := hex.EncodeToString(submitted[:])
	if subtle.ConstantTimeCompare([]byte(submittedHex), []byte(*expectedHash)) != 1 {
		return errs.NewVerificationFailedError("verificationCode")
	}

	if err = finalizeDelivery(ctx, uow, o, h.settings, time.Now().UTC()); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if err = h.broker.ClearDeliveryAttempts(ctx, o.ID()); err != nil {
		return err
	}

	return h.engine.ReleaseDriver(ctx, command.DriverID())
}
