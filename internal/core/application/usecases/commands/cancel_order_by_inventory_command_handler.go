package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// CancelOrderByInventoryResult carries the evidence upload URL back to the
// caller when an upload ticket was requested. Empty otherwise.
type CancelOrderByInventoryResult struct {
	EvidenceUploadURL string
}

// CancelOrderByInventoryCommandHandler lets inventory staff pre-empt an
// order before fulfillment begins. A pending order holds no reservations, so
// the cancellation only writes the record; an optional upload ticket is
// issued for an evidence image, its filename attached to the record, and
// the ticket indexed in the broker until it expires.
//
// Example:
//
//	handler := NewCancelOrderByInventoryCommandHandler(uowFactory, attachments, broker)
//	cmd, _ := NewCancelOrderByInventoryCommand(orderID, "item out of stock", "jpg")
//	result, err := handler.Handle(ctx, cmd)
type CancelOrderByInventoryCommandHandler struct {
	uowFactory  FulfillmentUoWFactory
	attachments ports.AttachmentStore
	broker      ports.DispatchBroker
}

// NewCancelOrderByInventoryCommandHandler creates a handler for inventory
// cancellations.
func NewCancelOrderByInventoryCommandHandler(
	uowFactory FulfillmentUoWFactory,
	attachments ports.AttachmentStore,
	broker ports.DispatchBroker,
) CancelOrderByInventoryCommandHandler {
	return CancelOrderByInventoryCommandHandler{
		uowFactory:  uowFactory,
		attachments: attachments,
		broker:      broker,
	}
}

// Handle processes the inventory cancellation. Only pending orders may be
// cancelled this way; anything further along belongs to the fulfillment flow
// and its compensations.
func (h CancelOrderByInventoryCommandHandler) Handle(
	ctx context.Context, command CancelOrderByInventoryCommand,
) (CancelOrderByInventoryResult, error) {
	if err := command.Validate(); err != nil {
		return CancelOrderByInventoryResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CancelOrderByInventoryResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		return CancelOrderByInventoryResult{}, err
	}

	if o.Status() != order.Pending {
		return CancelOrderByInventoryResult{}, errs.NewOperationNotAllowedError(
			"orderId", "only pending orders can be cancelled by inventory",
		)
	}

	var result CancelOrderByInventoryResult
	var ticketFilename string

	if command.AttachmentExt() != "" {
		ticket, ticketErr := h.attachments.IssueUploadTicket(ctx, uploadTicketTTL, command.AttachmentExt())
		if ticketErr != nil {
			return CancelOrderByInventoryResult{}, ticketErr
		}
		ticketFilename = ticket.Filename
		result.EvidenceUploadURL = ticket.UploadURL
	}

	record, err := finalizeCancellation(
		ctx, uow, o, command.Reason(), order.CancelledByInventory, ticketFilename, time.Now().UTC(),
	)
	if err != nil {
		return CancelOrderByInventoryResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return CancelOrderByInventoryResult{}, err
	}

	if ticketFilename != "" {
		if err = h.broker.StoreUploadTicket(ctx, ticketFilename, record.ID(), uploadTicketTTL); err != nil {
			return CancelOrderByInventoryResult{}, err
		}
	}

	return result, nil
}
