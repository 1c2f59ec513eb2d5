package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
)

// ChangeOrderStatusResult carries the outcome of a status change back to the
// caller: the updated order and, when an evidence upload ticket was issued
// for a cancellation, the URL the client should upload the file to.
type ChangeOrderStatusResult struct {
	Order             *order.Order
	EvidenceUploadURL string
}

// ChangeOrderStatusCommandHandler runs the order status state machine with
// its compensating side effects. A move to Delivered or Cancelled applies the
// corresponding plan (ledger, stock, coupon) in the same transaction as the
// order update; a move to Ready runs the driver assignment step; any move out
// of OutForDelivery releases the assigned driver after the commit.
//
// Example:
//
//	handler := NewChangeOrderStatusCommandHandler(uowFactory, engine, settings, attachments, broker)
//	cmd, _ := NewChangeOrderStatusCommand(orderID, order.Processing, "", "", "")
//	result, err := handler.Handle(ctx, cmd)
type ChangeOrderStatusCommandHandler struct {
	uowFactory  FulfillmentUoWFactory
	engine      services.DispatchEngine
	settings    ports.SettingsProvider
	attachments ports.AttachmentStore
	broker      ports.DispatchBroker
}

// NewChangeOrderStatusCommandHandler creates a handler for order status changes.
func NewChangeOrderStatusCommandHandler(
	uowFactory FulfillmentUoWFactory,
	engine services.DispatchEngine,
	settings ports.SettingsProvider,
	attachments ports.AttachmentStore,
	broker ports.DispatchBroker,
) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory:  uowFactory,
		engine:      engine,
		settings:    settings,
		attachments: attachments,
		broker:      broker,
	}
}

// Handle processes the status change command.
//
// Requesting the order's current status is a no-op: the order is returned
// unchanged and nothing is written. Otherwise the transition and its side
// effects commit atomically; broker mutations (driver release, idle-order
// queueing, upload ticket indexing) run only after the commit succeeded.
func (h ChangeOrderStatusCommandHandler) Handle(
	ctx context.Context, command ChangeOrderStatusCommand,
) (ChangeOrderStatusResult, error) {
	if err := command.Validate(); err != nil {
		return ChangeOrderStatusResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ChangeOrderStatusResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		return ChangeOrderStatusResult{}, err
	}

	statusBefore := o.Status()
	if statusBefore == command.TargetStatus() {
		return ChangeOrderStatusResult{Order: o}, nil
	}

	result := ChangeOrderStatusResult{Order: o}

	var (
		assignedDriver *kernel.UUID
		queueIdle      bool
		releaseDriver  *kernel.UUID
		ticketFilename string
		cancellationID kernel.UUID
	)

	switch command.TargetStatus() {
	case order.Ready:
		assignedDriver, err = assignReadyOrder(ctx, uow.OrderRepository(), h.engine, o)
		if err != nil {
			return ChangeOrderStatusResult{}, err
		}
		queueIdle = assignedDriver == nil

	case order.Delivered:
		if err = finalizeDelivery(ctx, uow, o, h.settings, time.Now().UTC()); err != nil {
			return ChangeOrderStatusResult{}, err
		}
		releaseDriver = driverToRelease(statusBefore, o)

	case order.Cancelled:
		if command.AttachmentExt() != "" {
			ticket, ticketErr := h.attachments.IssueUploadTicket(ctx, uploadTicketTTL, command.AttachmentExt())
			if ticketErr != nil {
				return ChangeOrderStatusResult{}, ticketErr
			}
			ticketFilename = ticket.Filename
			result.EvidenceUploadURL = ticket.UploadURL
		}

		record, cancelErr := finalizeCancellation(
			ctx, uow, o, command.Reason(), command.CancelledBy(), ticketFilename, time.Now().UTC(),
		)
		if cancelErr != nil {
			return ChangeOrderStatusResult{}, cancelErr
		}
		releaseDriver = driverToRelease(statusBefore, o)
		cancellationID = record.ID()

	default:
		if err = h.applyPlainTransition(o, command.TargetStatus()); err != nil {
			return ChangeOrderStatusResult{}, err
		}
		if err = uow.OrderRepository().Update(ctx, o); err != nil {
			return ChangeOrderStatusResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return ChangeOrderStatusResult{}, err
	}

	if ticketFilename != "" {
		if err = h.broker.StoreUploadTicket(ctx, ticketFilename, cancellationID, uploadTicketTTL); err != nil {
			return ChangeOrderStatusResult{}, err
		}
	}

	if releaseDriver != nil {
		if err = h.engine.ReleaseDriver(ctx, *releaseDriver); err != nil {
			return ChangeOrderStatusResult{}, err
		}
	}

	switch {
	case assignedDriver != nil:
		h.engine.NotifyAssignment(ctx, *assignedDriver, o)
	case queueIdle:
		if err = h.engine.QueueIdleOrder(ctx, o.ID()); err != nil {
			return ChangeOrderStatusResult{}, err
		}
	}

	return result, nil
}

func (h ChangeOrderStatusCommandHandler) applyPlainTransition(o *order.Order, target order.Status) error {
	switch target {
	case order.Processing:
		return o.MarkProcessing()
	case order.OutForDelivery:
		return o.StartDelivery()
	default:
		// Pending is never a target: orders are born pending and the
		// chain only moves forward.
		return o.Status().CanTransitionTo(target)
	}
}
